package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Backend selects the tag store implementation of a level.
type Backend string

// Available backends.
const (
	// BackendRows keeps explicit recency-ordered rows.
	BackendRows Backend = "rows"
	// BackendDirectory keeps tags in an Akita cache directory with its LRU
	// victim finder.
	BackendDirectory Backend = "akita"
)

// ParseBackend converts a flag value into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendRows, "":
		return BackendRows, nil
	case BackendDirectory:
		return BackendDirectory, nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("unknown cache backend %q", s)}
	}
}

// Location is where an address lives in one level.
type Location struct {
	Row int
	Tag int
	// BlockAddr is the address of the first word of the block.
	BlockAddr uint64
}

// A TagStore holds block metadata for one level and applies LRU
// replacement on every access.
type TagStore interface {
	// Access looks up loc, refreshing it on a hit or replacing the least
	// recently used block of its row on a miss. evicted reports whether a
	// filled block was replaced.
	Access(loc Location) (hit, evicted bool)

	// Reset empties every block.
	Reset()
}

// NewTagStore creates the tag store for a validated config.
func NewTagStore(config Config, backend Backend) TagStore {
	if backend == BackendDirectory {
		return NewDirectoryStore(config)
	}
	return NewRowStore(config)
}

// RowStore is a TagStore made of explicit Rows.
type RowStore struct {
	rows []*Row
}

// NewRowStore creates a RowStore with config.Rows() empty rows.
func NewRowStore(config Config) *RowStore {
	rows := make([]*Row, config.Rows())
	for i := range rows {
		rows[i] = NewRow(config.Associativity)
	}
	return &RowStore{rows: rows}
}

// Access implements TagStore.
func (s *RowStore) Access(loc Location) (hit, evicted bool) {
	hit, old := s.rows[loc.Row].Access(loc.Tag)
	return hit, old != EmptyTag
}

// Reset implements TagStore.
func (s *RowStore) Reset() {
	for _, r := range s.rows {
		r.Reset()
	}
}

// Row returns row i for inspection.
func (s *RowStore) Row(i int) *Row {
	return s.rows[i]
}

// DirectoryStore is a TagStore backed by an Akita cache directory.
//
// Akita's LRU victim finder prefers invalid blocks before consulting the
// LRU queue. Invalid blocks are never visited, so they always sit at the
// head of the queue and the choice matches evicting index 0 of a Row.
type DirectoryStore struct {
	directory *akitacache.DirectoryImpl
}

// NewDirectoryStore creates a DirectoryStore for a validated config.
func NewDirectoryStore(config Config) *DirectoryStore {
	return &DirectoryStore{
		directory: akitacache.NewDirectory(
			config.Rows(),
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
	}
}

// Access implements TagStore. The directory indexes sets by block
// address, which yields the same row as Location.Row.
func (s *DirectoryStore) Access(loc Location) (hit, evicted bool) {
	block := s.directory.Lookup(0, loc.BlockAddr)
	if block != nil && block.IsValid {
		s.directory.Visit(block) // Update LRU
		return true, false
	}

	victim := s.directory.FindVictim(loc.BlockAddr)
	if victim == nil {
		// This shouldn't happen with proper directory setup
		return false, false
	}

	evicted = victim.IsValid
	victim.Tag = loc.BlockAddr
	victim.IsValid = true
	victim.IsDirty = false
	s.directory.Visit(victim)

	return false, evicted
}

// Reset implements TagStore.
func (s *DirectoryStore) Reset() {
	s.directory.Reset()
}
