// Package journal persists every processed instruction block as
// zstd-compressed JSONL, rotated hourly. The files feed cmd/replay and
// offline inspection of what the oracle actually asked the machine to do.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"chat2snack.ai/internal/dispatch"
)

type Logger struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// NewLogger writes block entries under dataDir/journal.
func NewLogger(dataDir string) *Logger {
	return &Logger{
		baseDir: filepath.Join(dataDir, "journal"),
		prefix:  "blocks",
	}
}

func (l *Logger) WriteBlock(e dispatch.BlockLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != l.curHour {
		if err := l.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *Logger) rotateLocked(hour string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	path := l.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	l.enc = enc
	l.w = bufio.NewWriterSize(enc, 64*1024)
	l.curHour = hour
	return nil
}

func (l *Logger) closeLocked() error {
	var err1 error
	if l.w != nil {
		_ = l.w.Flush()
	}
	if l.enc != nil {
		err1 = l.enc.Close()
		l.enc = nil
	}
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	l.w = nil
	return err1
}

func (l *Logger) pathForHour(hour string) string {
	return filepath.Join(l.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", l.prefix, hour))
}

// ReadBlocks decodes one journal file back into entries.
func ReadBlocks(path string) ([]dispatch.BlockLogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []dispatch.BlockLogEntry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e dispatch.BlockLogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
