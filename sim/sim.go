// Package sim drives an E20 program through the emulator while feeding its
// data accesses into an optional cache hierarchy.
package sim

import (
	"io"

	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/emu"
)

// EventSink receives cache events as they are produced.
type EventSink interface {
	RecordEvent(pc uint16, ev cache.Event)
}

// Record is a cache event together with the PC of the instruction that
// caused it.
type Record struct {
	PC uint16
	cache.Event
}

// Result is the outcome of a complete run.
type Result struct {
	// Snapshot is the final architectural state.
	Snapshot emu.Snapshot

	// Records holds every cache event in order. It is empty when no
	// hierarchy is attached or when records are disabled.
	Records []Record

	// Instructions is the number of instructions executed.
	Instructions uint64

	// Halted is true if the program reached its halt instruction.
	Halted bool

	// Stats holds the counters of each cache level, L1 first.
	Stats []cache.Statistics

	// Err is set if the run stopped for any reason other than halting.
	Err error
}

// Simulation connects one emulator to one cache hierarchy.
type Simulation struct {
	emulator  *emu.Emulator
	hierarchy *cache.Hierarchy
	sinks     []EventSink

	records         []Record
	keepRecords     bool
	maxInstructions uint64
	instTrace       io.Writer
	snapshotWords   int
}

// Option is a functional option for configuring a Simulation.
type Option func(*Simulation)

// WithHierarchy attaches a cache hierarchy. Without one, the program runs
// with no cache events.
func WithHierarchy(h *cache.Hierarchy) Option {
	return func(s *Simulation) {
		s.hierarchy = h
	}
}

// WithEventSink adds a sink that receives every cache event.
func WithEventSink(sink EventSink) Option {
	return func(s *Simulation) {
		s.sinks = append(s.sinks, sink)
	}
}

// WithMaxInstructions stops the run after max instructions. 0 means no
// limit.
func WithMaxInstructions(max uint64) Option {
	return func(s *Simulation) {
		s.maxInstructions = max
	}
}

// WithInstructionTrace writes one line per executed instruction to w.
func WithInstructionTrace(w io.Writer) Option {
	return func(s *Simulation) {
		s.instTrace = w
	}
}

// WithoutRecords stops the simulation from keeping events in memory. Sinks
// and statistics still see every event.
func WithoutRecords() Option {
	return func(s *Simulation) {
		s.keepRecords = false
	}
}

// WithSnapshotWords sets how many memory words the final snapshot holds.
func WithSnapshotWords(n int) Option {
	return func(s *Simulation) {
		s.snapshotWords = n
	}
}

// New creates a simulation with program loaded at address 0.
func New(program []uint16, opts ...Option) *Simulation {
	s := &Simulation{
		keepRecords:   true,
		snapshotWords: emu.SnapshotWords,
	}
	for _, opt := range opts {
		opt(s)
	}

	emuOpts := []emu.EmulatorOption{
		emu.WithMemoryObserver(s),
		emu.WithMaxInstructions(s.maxInstructions),
	}
	if s.instTrace != nil {
		emuOpts = append(emuOpts, emu.WithInstructionTrace(s.instTrace))
	}

	s.emulator = emu.NewEmulator(emuOpts...)
	s.emulator.LoadProgram(program)

	return s
}

// Emulator returns the underlying emulator.
func (s *Simulation) Emulator() *emu.Emulator {
	return s.emulator
}

// Hierarchy returns the attached hierarchy, or nil.
func (s *Simulation) Hierarchy() *cache.Hierarchy {
	return s.hierarchy
}

// ObserveAccess runs a data access through the hierarchy.
func (s *Simulation) ObserveAccess(access emu.Access) {
	if s.hierarchy == nil {
		return
	}

	kind := cache.Load
	if access.Kind == emu.AccessStore {
		kind = cache.Store
	}

	for _, ev := range s.hierarchy.Query(access.Addr, kind) {
		if s.keepRecords {
			s.records = append(s.records, Record{PC: access.PC, Event: ev})
		}
		for _, sink := range s.sinks {
			sink.RecordEvent(access.PC, ev)
		}
	}
}

// Run executes the program until it halts or fails and returns the final
// state. A run that stops on an error still reports the state reached.
func (s *Simulation) Run() Result {
	err := s.emulator.Run()

	result := Result{
		Snapshot:     s.emulator.Snapshot(s.snapshotWords),
		Records:      s.records,
		Instructions: s.emulator.InstructionCount(),
		Halted:       s.emulator.Halted(),
		Err:          err,
	}

	if s.hierarchy != nil {
		for _, l := range s.hierarchy.Levels() {
			result.Stats = append(result.Stats, l.Stats())
		}
	}

	return result
}
