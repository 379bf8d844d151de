// Package main provides a pointer to the e20sim commands.
//
// For the simulator, use: go run ./cmd/e20sim
// For the cache benchmark harness, use: go run ./cmd/benchmark
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("e20sim - E20 simulator with an LRU cache hierarchy model")
	fmt.Println("")
	fmt.Println("Usage: e20sim [flags] <program.bin>")
	fmt.Println("")
	fmt.Println("Flags:")
	fmt.Println("  --cache          size,assoc,blocksize[,size,assoc,blocksize]")
	fmt.Println("  --cache-backend  rows or akita")
	fmt.Println("  --max-steps      instruction budget (0 means no limit)")
	fmt.Println("  --trace-db       record cache events into a SQLite database")
	fmt.Println("  --dump-state     print the final state even with a cache")
	fmt.Println("  -v               verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/e20sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/e20sim' instead.")
	}
}
