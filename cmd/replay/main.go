// Replay prints the contents of block journal files for offline review of
// what the oracle asked the machine to do.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"chat2snack.ai/internal/persistence/journal"
)

func main() {
	var (
		dir           = flag.String("journal", "./data/journal", "journal directory")
		dispensesOnly = flag.Bool("dispenses_only", false, "print only blocks that fired a dispense")
	)
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*dir, "blocks-*.jsonl.zst"))
	if err != nil || len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no journal files in %s\n", *dir)
		os.Exit(2)
	}
	sort.Strings(files)

	var blocks, dispenses int
	for _, f := range files {
		entries, err := journal.ReadBlocks(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", f, err)
			os.Exit(1)
		}
		for _, e := range entries {
			blocks++
			dispenses += e.Dispensed
			if *dispensesOnly && e.Dispensed == 0 {
				continue
			}
			fmt.Printf("%s dispensed=%d preview=%016b\n", e.At.Format("2006-01-02 15:04:05"), e.Dispensed, e.PreviewWord)
			fmt.Printf("  block: %q\n", e.Block)
			for _, fb := range e.Feedback {
				fmt.Printf("  [%s] %s\n", fb.Severity, fb.Message)
			}
		}
	}
	fmt.Printf("%d blocks, %d dispenses across %d files\n", blocks, dispenses, len(files))
}
