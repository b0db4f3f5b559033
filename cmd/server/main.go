package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"chat2snack.ai/internal/config"
	"chat2snack.ai/internal/dispatch"
	"chat2snack.ai/internal/oracle"
	"chat2snack.ai/internal/persistence/indexdb"
	"chat2snack.ai/internal/persistence/journal"
	"chat2snack.ai/internal/transport/serial"
	"chat2snack.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "./configs/config.yaml", "config path")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
		simulate   = flag.Bool("simulate", false, "force the simulated dispenser link")
		disableDB  = flag.Bool("disable_db", false, "disable the dispense history index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load config: %v", err)
		}
		logger.Printf("config not found (%s); using defaults", *configPath)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *simulate {
		cfg.Serial.Simulate = true
	}
	if *disableDB {
		cfg.Index = false
	}
	_ = os.MkdirAll(cfg.DataDir, 0o755)

	link := openLink(cfg.Serial, logger)
	defer link.Close()

	var blockJournal dispatch.BlockJournal
	if cfg.Journal {
		jl := journal.NewLogger(cfg.DataDir)
		defer jl.Close()
		blockJournal = jl
	}

	var index dispatch.DispenseIndex
	var history *indexdb.SQLiteIndex
	if cfg.Index {
		idx, err := indexdb.OpenSQLite(filepath.Join(cfg.DataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		index = idx
		history = idx
	}

	var oc *oracle.Client
	if cfg.Oracle.BaseURL != "" {
		oc = oracle.New(oracle.Config{
			BaseURL:     cfg.Oracle.BaseURL,
			Model:       cfg.Oracle.Model,
			Temperature: cfg.Oracle.Temperature,
			MaxTokens:   cfg.Oracle.MaxTokens,
			Timeout:     time.Duration(cfg.Oracle.TimeoutS) * time.Second,
		})
		logger.Printf("oracle endpoint: %s model=%s", cfg.Oracle.BaseURL, cfg.Oracle.Model)
	} else {
		logger.Printf("no oracle configured; CHAT messages will be rejected")
	}

	newSession := func() *dispatch.Session {
		return dispatch.NewSession(dispatch.Config{
			Link:    link,
			Journal: blockJournal,
			Index:   index,
			Logger:  logger,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", ws.NewServer(newSession, oc, logger).Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if history != nil {
		mux.HandleFunc("/v1/dispenses", func(w http.ResponseWriter, r *http.Request) {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			rows, err := history.Recent(r.Context(), limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(rows)
		})
	}

	srv := &http.Server{Addr: cfg.Listen, Handler: mux}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Printf("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	logger.Printf("listening on %s", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
}

// openLink opens the configured serial port, falling back to the simulated
// link when simulation is requested or the port cannot be opened. A missing
// dispenser never blocks order taking.
func openLink(cfg config.Serial, logger *log.Logger) serial.Link {
	if cfg.Simulate {
		logger.Printf("dispenser link: simulated")
		return serial.NewSimulated(logger)
	}
	port, err := serial.Open(cfg.Port, cfg.Baud, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	if err != nil {
		logger.Printf("dispenser link: %v; falling back to simulated", err)
		return serial.NewSimulated(logger)
	}
	logger.Printf("dispenser link: %s @ %d baud", cfg.Port, cfg.Baud)
	return port
}
