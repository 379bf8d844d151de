package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/e20sim/cache"
)

// Environment variables that provide flag defaults.
const (
	envCache    = "E20SIM_CACHE"
	envMaxSteps = "E20SIM_MAX_STEPS"
	envTraceDB  = "E20SIM_TRACE_DB"
)

func newRootCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "e20sim [flags] <program.bin>",
		Short: "Simulate an E20 program with an optional cache hierarchy.",
		Long: `e20sim loads an E20 memory image, runs it until it halts, and ` +
			`logs every cache access of the configured L1 (and optional L2). ` +
			`Without a cache the final machine state is printed.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnvDefaults(cmd, &opts); err != nil {
				return err
			}
			opts.programPath = args[0]

			logger := log.New(cmd.ErrOrStderr(), "e20sim: ", 0)
			return runSim(opts, cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cacheSpec, "cache", "",
		"cache config: size,assoc,blocksize for L1, optionally followed by the same for L2")
	flags.StringVar(&opts.backend, "cache-backend", string(cache.BackendRows),
		"tag store implementation: rows or akita")
	flags.Uint64Var(&opts.maxSteps, "max-steps", 0,
		"stop after this many instructions (0 means no limit)")
	flags.StringVar(&opts.traceDB, "trace-db", "",
		"record cache events into this SQLite database")
	flags.BoolVar(&opts.dumpState, "dump-state", false,
		"print the final state even when a cache is configured")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"print the instruction trace and cache statistics to stderr")

	return cmd
}

// applyEnvDefaults fills flags the user did not set from the environment.
func applyEnvDefaults(cmd *cobra.Command, opts *runOptions) error {
	flags := cmd.Flags()

	if v, ok := os.LookupEnv(envCache); ok && !flags.Changed("cache") {
		opts.cacheSpec = v
	}

	if v, ok := os.LookupEnv(envMaxSteps); ok && !flags.Changed("max-steps") {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envMaxSteps, v, err)
		}
		opts.maxSteps = n
	}

	if v, ok := os.LookupEnv(envTraceDB); ok && !flags.Changed("trace-db") {
		opts.traceDB = v
	}

	return nil
}
