package cache

import "fmt"

// HierarchyOption is a functional option for configuring a Hierarchy.
type HierarchyOption func(*hierarchyOptions)

type hierarchyOptions struct {
	backend Backend
}

// WithBackend selects the tag store backend for every level.
func WithBackend(b Backend) HierarchyOption {
	return func(o *hierarchyOptions) {
		o.backend = b
	}
}

// Hierarchy is an L1 with an optional L2 behind it, write-through.
type Hierarchy struct {
	levels  []*Level
	backend Backend
}

// NewHierarchy builds a hierarchy from one or two level configs.
func NewHierarchy(configs []Config, opts ...HierarchyOption) (*Hierarchy, error) {
	o := hierarchyOptions{backend: BackendRows}
	for _, opt := range opts {
		opt(&o)
	}

	if len(configs) == 0 || len(configs) > MaxLevels {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("expected 1 to %d levels, got %d", MaxLevels, len(configs)),
		}
	}

	h := &Hierarchy{backend: o.backend}
	for i, c := range configs {
		if c.Name == "" {
			c.Name = fmt.Sprintf("L%d", i+1)
		}
		level, err := NewLevel(c, o.backend)
		if err != nil {
			return nil, err
		}
		h.levels = append(h.levels, level)
	}

	return h, nil
}

// Levels returns the levels, L1 first.
func (h *Hierarchy) Levels() []*Level {
	return h.levels
}

// Backend returns the tag store backend in use.
func (h *Hierarchy) Backend() Backend {
	return h.backend
}

// Query runs one access through the hierarchy and returns one event per
// level probed. L1 is always probed. L2 is probed for every store
// (write-through) and for loads that missed in L1.
func (h *Hierarchy) Query(addr uint16, kind AccessKind) []Event {
	events := make([]Event, 0, len(h.levels))

	for _, level := range h.levels {
		ev := level.Probe(addr, kind)
		events = append(events, ev)

		if ev.Outcome == Hit {
			break
		}
	}

	return events
}

// Reset empties every level.
func (h *Hierarchy) Reset() {
	for _, l := range h.levels {
		l.Reset()
	}
}
