// Package cache models a one- or two-level set-associative cache hierarchy
// that classifies every data access as a hit, miss, or store.
//
// The model keeps metadata only: tags and recency order. It never holds
// data, so it cannot change what a program computes.
package cache

import "fmt"

// AccessKind distinguishes loads from stores.
type AccessKind uint8

// Access kinds.
const (
	Load AccessKind = iota
	Store
)

func (k AccessKind) String() string {
	if k == Store {
		return "store"
	}
	return "load"
}

// Outcome classifies a probe of one level.
type Outcome uint8

// Probe outcomes. Stores are always logged as StoreLogged, whether or not
// the block was present.
const (
	Hit Outcome = iota
	Miss
	StoreLogged
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "HIT"
	case Miss:
		return "MISS"
	case StoreLogged:
		return "SW"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Event is the log record of probing one level.
type Event struct {
	Level   string
	Outcome Outcome
	Addr    uint16
	Row     int
}

// Statistics holds per-level counters.
type Statistics struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before any access.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Level is one cache level.
type Level struct {
	config Config
	rows   int
	store  TagStore
	stats  Statistics
}

// NewLevel validates config and creates an empty level.
func NewLevel(config Config, backend Backend) (*Level, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Level{
		config: config,
		rows:   config.Rows(),
		store:  NewTagStore(config, backend),
	}, nil
}

// Config returns the level configuration.
func (l *Level) Config() Config {
	return l.config
}

// Name returns the level name.
func (l *Level) Name() string {
	return l.config.Name
}

// Rows returns the number of rows.
func (l *Level) Rows() int {
	return l.rows
}

// Stats returns the level statistics.
func (l *Level) Stats() Statistics {
	return l.stats
}

// Store returns the level's tag store.
func (l *Level) Store() TagStore {
	return l.store
}

// Locate computes the row and tag of addr:
// blockID = addr / blocksize, row = blockID % rows, tag = blockID / rows.
func (l *Level) Locate(addr uint16) Location {
	blockID := int(addr) / l.config.BlockSize
	return Location{
		Row:       blockID % l.rows,
		Tag:       blockID / l.rows,
		BlockAddr: uint64(blockID * l.config.BlockSize),
	}
}

// Probe looks addr up, applies replacement, and returns the log event.
func (l *Level) Probe(addr uint16, kind AccessKind) Event {
	loc := l.Locate(addr)
	hit, evicted := l.store.Access(loc)

	if kind == Store {
		l.stats.Writes++
	} else {
		l.stats.Reads++
	}
	if hit {
		l.stats.Hits++
	} else {
		l.stats.Misses++
	}
	if evicted {
		l.stats.Evictions++
	}

	outcome := Miss
	switch {
	case kind == Store:
		outcome = StoreLogged
	case hit:
		outcome = Hit
	}

	return Event{
		Level:   l.config.Name,
		Outcome: outcome,
		Addr:    addr,
		Row:     loc.Row,
	}
}

// Reset empties the level and clears its statistics.
func (l *Level) Reset() {
	l.store.Reset()
	l.stats = Statistics{}
}
