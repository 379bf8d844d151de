// Package report formats simulator output: cache configuration lines,
// per-access cache log lines, and the final machine state.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/emu"
)

// PrintCacheConfig writes one line describing a cache level.
func PrintCacheConfig(w io.Writer, c cache.Config) error {
	_, err := fmt.Fprintf(w, "Cache %s has size %d, associativity %d, blocksize %d, rows %d\n",
		c.Name, c.Size, c.Associativity, c.BlockSize, c.Rows())
	return err
}

// PrintLogEntry writes one cache event. pc is the memory index of the
// accessing instruction.
func PrintLogEntry(w io.Writer, pc uint16, ev cache.Event) error {
	_, err := fmt.Fprintf(w, "%-8s pc:%5d\taddr:%5d\trow:%4d\n",
		ev.Level+" "+ev.Outcome.String(), pc, ev.Addr, ev.Row)
	return err
}

// PrintState writes the final PC, every register, and the snapshot memory
// as hex words, eight per line.
func PrintState(w io.Writer, snap emu.Snapshot) error {
	ew := &errWriter{w: w}

	ew.printf("Final state:\n")
	ew.printf("\tpc=%5d\n", snap.PC)
	for i, v := range snap.Regs {
		ew.printf("\t$%d=%5d\n", i, v)
	}

	cr := false
	for i, word := range snap.Memory {
		ew.printf("%04x ", word)
		cr = true
		if i%8 == 7 {
			ew.printf("\n")
			cr = false
		}
	}
	if cr {
		ew.printf("\n")
	}

	return ew.err
}

// PrintStats writes a per-level statistics summary.
func PrintStats(w io.Writer, levels []*cache.Level) error {
	ew := &errWriter{w: w}
	for _, l := range levels {
		s := l.Stats()
		ew.printf("%s: reads %d, writes %d, hits %d, misses %d, evictions %d, hit rate %.2f%%\n",
			l.Name(), s.Reads, s.Writes, s.Hits, s.Misses, s.Evictions, 100*s.HitRate())
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
