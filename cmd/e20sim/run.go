package main

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/loader"
	"github.com/sarchlab/e20sim/report"
	"github.com/sarchlab/e20sim/sim"
	"github.com/sarchlab/e20sim/trace"
)

type runOptions struct {
	programPath string
	cacheSpec   string
	backend     string
	maxSteps    uint64
	traceDB     string
	dumpState   bool
	verbose     bool
}

// logPrinter streams cache events to the output as they happen.
type logPrinter struct {
	w   io.Writer
	err error
}

func (p *logPrinter) RecordEvent(pc uint16, ev cache.Event) {
	if p.err != nil {
		return
	}
	p.err = report.PrintLogEntry(p.w, pc, ev)
}

func runSim(opts runOptions, stdout io.Writer, logger *log.Logger) error {
	prog, err := loader.Load(opts.programPath)
	if err != nil {
		return err
	}
	if opts.verbose {
		logger.Printf("loaded %d words from %s", len(prog.Words), prog.Path)
	}

	out := bufio.NewWriter(stdout)
	defer func() { _ = out.Flush() }()

	simOpts := []sim.Option{
		sim.WithMaxInstructions(opts.maxSteps),
		sim.WithoutRecords(),
	}
	if opts.verbose {
		simOpts = append(simOpts, sim.WithInstructionTrace(logger.Writer()))
	}

	var hierarchy *cache.Hierarchy
	if opts.cacheSpec != "" {
		hierarchy, err = buildHierarchy(opts)
		if err != nil {
			return err
		}
		for _, l := range hierarchy.Levels() {
			if err := report.PrintCacheConfig(out, l.Config()); err != nil {
				return err
			}
		}
		simOpts = append(simOpts, sim.WithHierarchy(hierarchy))
	}

	printer := &logPrinter{w: out}
	simOpts = append(simOpts, sim.WithEventSink(printer))

	var recorder *trace.SQLiteRecorder
	if opts.traceDB != "" {
		recorder, err = trace.NewSQLiteRecorder(opts.traceDB)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()
		simOpts = append(simOpts, sim.WithEventSink(recorder))
	}

	result := sim.New(prog.Words, simOpts...).Run()
	if printer.err != nil {
		return fmt.Errorf("failed to write cache log: %w", printer.err)
	}

	if recorder != nil {
		if err := recordRun(recorder, opts, hierarchy, result); err != nil {
			return err
		}
		if opts.verbose {
			logger.Printf("recorded run %s in %s", recorder.RunID(), recorder.Path())
		}
	}

	if hierarchy == nil || opts.dumpState {
		if err := report.PrintState(out, result.Snapshot); err != nil {
			return err
		}
	}

	if opts.verbose {
		logger.Printf("executed %d instructions", result.Instructions)
		if hierarchy != nil {
			if err := report.PrintStats(logger.Writer(), hierarchy.Levels()); err != nil {
				return err
			}
		}
	}

	if result.Err != nil {
		return fmt.Errorf("simulation stopped: %w", result.Err)
	}

	return out.Flush()
}

func buildHierarchy(opts runOptions) (*cache.Hierarchy, error) {
	backend, err := cache.ParseBackend(opts.backend)
	if err != nil {
		return nil, err
	}

	configs, err := cache.ParseConfig(opts.cacheSpec)
	if err != nil {
		return nil, err
	}

	return cache.NewHierarchy(configs, cache.WithBackend(backend))
}

func recordRun(
	recorder *trace.SQLiteRecorder,
	opts runOptions,
	hierarchy *cache.Hierarchy,
	result sim.Result,
) error {
	info := trace.RunInfo{
		Program:      opts.programPath,
		Instructions: result.Instructions,
		Halted:       result.Halted,
	}
	if hierarchy != nil {
		configs := make([]cache.Config, 0, len(hierarchy.Levels()))
		for _, l := range hierarchy.Levels() {
			configs = append(configs, l.Config())
		}
		info.CacheConfig = cache.FormatConfig(configs)
		info.Backend = string(hierarchy.Backend())
	}
	if result.Err != nil {
		info.Err = result.Err.Error()
	}

	return recorder.FinishRun(info)
}
