// Package benchmarks provides E20 workloads and a harness that reports how
// each cache configuration behaves on them.
package benchmarks

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/emu"
	"github.com/sarchlab/e20sim/sim"
)

// LevelResult holds the counters of one cache level after a run.
type LevelResult struct {
	Name      string  `json:"name"`
	Reads     uint64  `json:"reads"`
	Writes    uint64  `json:"writes"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// BenchmarkResult holds the results of a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Instructions is the number of executed instructions
	Instructions uint64 `json:"instructions"`

	// Accesses is the number of cache events logged across all levels
	Accesses uint64 `json:"accesses"`

	// Levels holds per-level cache counters, L1 first
	Levels []LevelResult `json:"levels"`

	// Result is the value of the benchmark's result register
	Result uint16 `json:"result"`

	// Valid is true if the program halted with the expected result
	Valid bool `json:"valid"`

	// Err is set if the run did not halt
	Err string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares memory after the program is loaded
	Setup func(memory *emu.Memory)

	// Program is the E20 machine code, loaded at address 0
	Program []uint16

	// ResultReg holds the benchmark's result when it halts
	ResultReg uint8

	// Expected is the expected value of ResultReg
	Expected uint16
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Caches describes the hierarchy, L1 first. Empty disables caching.
	Caches []cache.Config

	// Backend selects the tag store implementation
	Backend cache.Backend

	// MaxInstructions bounds each run (0 means no limit)
	MaxInstructions uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration: a two-way L1 with
// four rows backed by a four-way L2.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Caches: []cache.Config{
			{Name: "L1", Size: 16, Associativity: 2, BlockSize: 2},
			{Name: "L2", Size: 64, Associativity: 4, BlockSize: 4},
		},
		Backend:         cache.BackendRows,
		MaxInstructions: 1_000_000,
		Output:          os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness. The cache configs are
// validated up front.
func NewHarness(config HarnessConfig) (*Harness, error) {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if len(config.Caches) > 0 {
		if _, err := cache.NewHierarchy(config.Caches, cache.WithBackend(config.Backend)); err != nil {
			return nil, err
		}
	}

	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}, nil
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

// accessCounter counts cache events without keeping them.
type accessCounter struct {
	n uint64
}

func (c *accessCounter) RecordEvent(uint16, cache.Event) {
	c.n++
}

// runBenchmark executes a single benchmark on a fresh hierarchy.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	counter := &accessCounter{}
	opts := []sim.Option{
		sim.WithMaxInstructions(h.config.MaxInstructions),
		sim.WithEventSink(counter),
		sim.WithoutRecords(),
		sim.WithSnapshotWords(0),
	}

	var hierarchy *cache.Hierarchy
	if len(h.config.Caches) > 0 {
		// Validated in NewHarness.
		hierarchy, _ = cache.NewHierarchy(h.config.Caches, cache.WithBackend(h.config.Backend))
		opts = append(opts, sim.WithHierarchy(hierarchy))
	}

	s := sim.New(bench.Program, opts...)
	if bench.Setup != nil {
		bench.Setup(s.Emulator().Memory())
	}

	start := time.Now()
	out := s.Run()
	wallTime := time.Since(start)

	result := BenchmarkResult{
		Name:         bench.Name,
		Description:  bench.Description,
		Instructions: out.Instructions,
		Accesses:     counter.n,
		Result:       out.Snapshot.Regs[bench.ResultReg%emu.NumRegs],
		WallTime:     wallTime,
	}
	result.Valid = out.Halted && result.Result == bench.Expected
	if out.Err != nil {
		result.Err = out.Err.Error()
	}

	if hierarchy != nil {
		for _, l := range hierarchy.Levels() {
			s := l.Stats()
			result.Levels = append(result.Levels, LevelResult{
				Name:      l.Name(),
				Reads:     s.Reads,
				Writes:    s.Writes,
				Hits:      s.Hits,
				Misses:    s.Misses,
				Evictions: s.Evictions,
				HitRate:   s.HitRate(),
			})
		}
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	w := h.config.Output

	_, _ = fmt.Fprintln(w, "=== E20 Cache Benchmark Results ===")
	_, _ = fmt.Fprintf(w, "Caches: %s (%s)\n", h.cacheLabel(), h.config.Backend)
	_, _ = fmt.Fprintln(w, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(w, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(w, "  Result: %d (valid: %v)\n", r.Result, r.Valid)
		if r.Err != "" {
			_, _ = fmt.Fprintf(w, "  Error: %s\n", r.Err)
		}
		_, _ = fmt.Fprintf(w, "  Instructions: %d\n", r.Instructions)
		_, _ = fmt.Fprintf(w, "  Cache Events: %d\n", r.Accesses)

		for _, l := range r.Levels {
			_, _ = fmt.Fprintf(w, "  --- %s ---\n", l.Name)
			_, _ = fmt.Fprintf(w, "  Reads:     %d\n", l.Reads)
			_, _ = fmt.Fprintf(w, "  Writes:    %d\n", l.Writes)
			_, _ = fmt.Fprintf(w, "  Hits:      %d\n", l.Hits)
			_, _ = fmt.Fprintf(w, "  Misses:    %d\n", l.Misses)
			_, _ = fmt.Fprintf(w, "  Evictions: %d\n", l.Evictions)
			_, _ = fmt.Fprintf(w, "  Hit Rate:  %.1f%%\n", 100*l.HitRate)
		}

		_, _ = fmt.Fprintf(w, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(w, "")
	}
}

// PrintCSV outputs one row per benchmark and level, for spreadsheet
// comparison across cache configurations.
func (h *Harness) PrintCSV(results []BenchmarkResult) error {
	w := csv.NewWriter(h.config.Output)
	label := h.cacheLabel()

	_ = w.Write([]string{"name", "caches", "instructions", "level", "reads", "writes",
		"hits", "misses", "evictions", "hit_rate", "valid"})

	for _, r := range results {
		levels := r.Levels
		if len(levels) == 0 {
			levels = []LevelResult{{}}
		}
		for _, l := range levels {
			_ = w.Write([]string{
				r.Name,
				label,
				strconv.FormatUint(r.Instructions, 10),
				l.Name,
				strconv.FormatUint(l.Reads, 10),
				strconv.FormatUint(l.Writes, 10),
				strconv.FormatUint(l.Hits, 10),
				strconv.FormatUint(l.Misses, 10),
				strconv.FormatUint(l.Evictions, 10),
				strconv.FormatFloat(l.HitRate, 'f', 3, 64),
				strconv.FormatBool(r.Valid),
			})
		}
	}

	w.Flush()
	return w.Error()
}

// PrintJSON outputs the results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func (h *Harness) cacheLabel() string {
	if len(h.config.Caches) == 0 {
		return "none"
	}
	return cache.FormatConfig(h.config.Caches)
}
