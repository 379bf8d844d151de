// Command e20sim runs an E20 memory image and reports cache behavior.
//
// Usage:
//
//	e20sim [flags] <program.bin>
//
// Examples:
//
//	# Run without a cache and print the final state
//	e20sim fib.bin
//
//	# Two-level cache: L1 size 4, assoc 1, block 1; L2 size 8, assoc 4, block 2
//	e20sim --cache 4,1,1,8,4,2 fib.bin
//
//	# Record every cache event into a SQLite database
//	e20sim --cache 16,2,4 --trace-db runs.sqlite3 fib.bin
//
// Defaults for --cache, --max-steps, and --trace-db may be set through
// E20SIM_CACHE, E20SIM_MAX_STEPS, and E20SIM_TRACE_DB, either in the
// environment or in a .env file in the working directory.
package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("e20sim: ignoring .env: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
