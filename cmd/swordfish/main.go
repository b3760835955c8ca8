// Command swordfish is the UCI-speaking chess engine process entry
// point: it wires stdin to the uci package's line dispatcher and exits 0
// on a clean "quit", non-zero on a fatal startup error, following the
// teacher's zurichess/main.go shape (log lines carry an "info string "
// prefix, so any incidental log output stays valid UCI protocol text),
// except that the log goes to stderr, not the stdout protocol stream.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/phuang1024/swordfish/uci"
)

var (
	buildVersion = "(devel)"

	hashMB  = flag.Int("hash", uci.DefaultHashTableSizeMB, "transposition table size in MB")
	version = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	fmt.Printf("swordfish %s, built with %s, running on %s\n", buildVersion, runtime.Version(), runtime.GOARCH)
	if *version {
		return
	}

	if *hashMB < 1 {
		fmt.Fprintln(os.Stderr, "fatal: hash size must be at least 1 MB")
		os.Exit(1)
	}

	// All incidental diagnostics become "info string " lines so they can
	// never be mistaken by a GUI for a protocol response.
	logger := log.New(os.Stderr, "info string ", 0)

	driver := uci.NewUCI(logger)
	driver.Engine.Resize(*hashMB)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if err := driver.Execute(line); err != nil {
			if err == uci.ErrQuit {
				os.Exit(0)
			}
			logger.Println("error:", err)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Println("error:", err)
		os.Exit(1)
	}
}
