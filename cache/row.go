package cache

// EmptyTag marks a block that has never been filled. It takes part in
// recency order exactly like a real tag and never matches a lookup.
const EmptyTag = -1

// Row is one set of a cache level: a fixed-length sequence of tags in
// recency order. Index 0 holds the least recently used block, the last
// index the most recently used.
type Row struct {
	tags []int
}

// NewRow creates a row of assoc empty blocks.
func NewRow(assoc int) *Row {
	r := &Row{tags: make([]int, assoc)}
	r.Reset()
	return r
}

// Reset empties every block.
func (r *Row) Reset() {
	for i := range r.tags {
		r.tags[i] = EmptyTag
	}
}

// Find returns the position of tag, or -1.
func (r *Row) Find(tag int) int {
	for i, t := range r.tags {
		if t == tag {
			return i
		}
	}
	return -1
}

// Access applies LRU replacement for tag. A present tag moves to the most
// recently used end. An absent tag evicts the block at index 0,
// whatever it holds, and is appended at the most recently used end.
// evicted is the tag that left the row, EmptyTag when an empty block was
// reused or the access hit.
func (r *Row) Access(tag int) (hit bool, evicted int) {
	idx := r.Find(tag)
	hit = idx >= 0
	evicted = EmptyTag
	if !hit {
		idx = 0
		evicted = r.tags[0]
	}

	last := len(r.tags) - 1
	copy(r.tags[idx:last], r.tags[idx+1:])
	r.tags[last] = tag

	return hit, evicted
}

// Tags returns a copy of the row from least to most recently used.
func (r *Row) Tags() []int {
	out := make([]int, len(r.tags))
	copy(out, r.tags)
	return out
}

// Len returns the associativity.
func (r *Row) Len() int {
	return len(r.tags)
}
