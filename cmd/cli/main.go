// Manual test mode: type commands directly, no oracle in the loop.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"chat2snack.ai/internal/dispatch"
	"chat2snack.ai/internal/fpga"
	"chat2snack.ai/internal/menu"
	"chat2snack.ai/internal/protocol"
	"chat2snack.ai/internal/transport/serial"
)

func main() {
	var (
		port    = flag.String("port", "", "serial port (empty for simulated link)")
		baud    = flag.Int("baud", 9600, "serial baud rate")
		timeout = flag.Duration("timeout", time.Second, "serial write timeout")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[cli] ", log.LstdFlags)

	var link serial.Link
	if *port == "" {
		link = serial.NewSimulated(logger)
	} else {
		p, err := serial.Open(*port, *baud, *timeout)
		if err != nil {
			logger.Printf("open %s: %v; using simulated link", *port, err)
			link = serial.NewSimulated(logger)
		} else {
			link = p
		}
	}
	defer link.Close()

	session := dispatch.NewSession(dispatch.Config{Link: link, Logger: logger})
	printCart(session)

	fmt.Println("Enter a command: [add/remove] [item] [qty], [dispense], or [exit]")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if strings.EqualFold(line, "exit") {
			break
		}
		res := session.Process(context.Background(), line)
		for _, f := range res.Feedback {
			if f.Severity == protocol.SeverityWarn {
				fmt.Printf("! %s\n", f.Message)
			} else {
				fmt.Printf("%s\n", f.Message)
			}
		}
		printCart(session)
	}
	fmt.Println("Exiting.")
}

func printCart(session *dispatch.Session) {
	fmt.Println(strings.Repeat("=", 30))
	fmt.Println("CURRENT ORDER")
	c := session.Cart()
	if c.IsEmpty() {
		fmt.Println("  Your cart is empty.")
	} else {
		for _, l := range c.Snapshot() {
			fmt.Printf("  - %s: %d\n", menu.DisplayName(l.Item), l.Qty)
		}
	}
	word := fpga.Word(c, false)
	fmt.Printf("FPGA vector preview: %s (%d)\n", fpga.BinaryString(word), word)
	fmt.Println(strings.Repeat("=", 30))
}
