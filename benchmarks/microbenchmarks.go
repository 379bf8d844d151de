package benchmarks

import (
	"github.com/sarchlab/e20sim/emu"
	"github.com/sarchlab/e20sim/insts"
)

// GetMicrobenchmarks returns the standard set of E20 workloads. Each one
// stresses a different access pattern.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		sequentialSweep(),
		stridedSweep(),
		storeReload(),
		callReturn(),
		countdownLoop(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		sequentialSweep(),
		stridedSweep(),
		callReturn(),
	}
}

// Sequential Sweep - sums 64 consecutive words, so every block is reused
// blocksize times.
func sequentialSweep() Benchmark {
	return Benchmark{
		Name:        "sequential_sweep",
		Description: "sum of mem[32..95] - spatial locality",
		Setup: func(memory *emu.Memory) {
			for i := uint16(0); i < 64; i++ {
				memory.Write(32+i, i)
			}
		},
		Program: []uint16{
			insts.EncodeADDI(5, 0, 32), // $5 = ptr
			insts.EncodeADDI(2, 5, 63),
			insts.EncodeADDI(2, 2, 1), // $2 = end
			insts.EncodeADDI(3, 0, 0),
			insts.EncodeLW(4, 5, 0), // loop:
			insts.EncodeADD(3, 3, 4),
			insts.EncodeADDI(5, 5, 1),
			insts.EncodeJEQ(5, 2, 1),
			insts.EncodeJ(4),
			insts.EncodeHalt(9),
		},
		ResultReg: 3,
		Expected:  2016,
	}
}

// Strided Sweep - reads every eighth word twice; with small caches every
// access of the second pass misses again.
func stridedSweep() Benchmark {
	return Benchmark{
		Name:        "strided_sweep",
		Description: "two passes over 16 words at stride 8 - conflict misses",
		Setup: func(memory *emu.Memory) {
			for k := uint16(0); k < 16; k++ {
				memory.Write(64+8*k, 1)
			}
		},
		Program: []uint16{
			insts.EncodeADDI(6, 0, 2), // passes
			insts.EncodeADDI(3, 0, 0),
			insts.EncodeADDI(5, 0, 63), // pass:
			insts.EncodeADDI(5, 5, 1),
			insts.EncodeADDI(1, 0, 16),
			insts.EncodeLW(4, 5, 0), // loop:
			insts.EncodeADD(3, 3, 4),
			insts.EncodeADDI(5, 5, 8),
			insts.EncodeADDI(1, 1, -1),
			insts.EncodeJEQ(1, 0, 1),
			insts.EncodeJ(5),
			insts.EncodeADDI(6, 6, -1),
			insts.EncodeJEQ(6, 0, 1),
			insts.EncodeJ(2),
			insts.EncodeHalt(14),
		},
		ResultReg: 3,
		Expected:  32,
	}
}

// Store Reload - writes 16 words then reads them back; stores go through to
// every level.
func storeReload() Benchmark {
	return Benchmark{
		Name:        "store_reload",
		Description: "store 0..15 to mem[40..55] and sum them back - write-through",
		Program: []uint16{
			insts.EncodeADDI(1, 0, 16),
			insts.EncodeADDI(2, 0, 0),
			insts.EncodeSW(2, 2, 40), // store loop:
			insts.EncodeADDI(2, 2, 1),
			insts.EncodeJEQ(2, 1, 1),
			insts.EncodeJ(2),
			insts.EncodeADDI(2, 0, 0),
			insts.EncodeADDI(3, 0, 0),
			insts.EncodeLW(4, 2, 40), // load loop:
			insts.EncodeADD(3, 3, 4),
			insts.EncodeADDI(2, 2, 1),
			insts.EncodeJEQ(2, 1, 1),
			insts.EncodeJ(8),
			insts.EncodeHalt(13),
		},
		ResultReg: 3,
		Expected:  120,
	}
}

// Call Return - calls a counter increment routine eight times through
// jal/jr; the same word is loaded and stored on every call.
func callReturn() Benchmark {
	return Benchmark{
		Name:        "call_return",
		Description: "8 calls incrementing mem[30] - temporal locality",
		Program: []uint16{
			insts.EncodeADDI(1, 0, 8),
			insts.EncodeJAL(7), // loop:
			insts.EncodeADDI(1, 1, -1),
			insts.EncodeJEQ(1, 0, 1),
			insts.EncodeJ(1),
			insts.EncodeLW(3, 0, 30),
			insts.EncodeHalt(6),
			insts.EncodeLW(2, 0, 30), // increment:
			insts.EncodeADDI(2, 2, 1),
			insts.EncodeSW(2, 0, 30),
			insts.EncodeJR(7),
		},
		ResultReg: 3,
		Expected:  8,
	}
}

// Countdown Loop - no data accesses at all.
func countdownLoop() Benchmark {
	return Benchmark{
		Name:        "countdown_loop",
		Description: "50 iterations of register-only work - no cache traffic",
		Program: []uint16{
			insts.EncodeADDI(1, 0, 50),
			insts.EncodeADDI(1, 1, -1), // loop:
			insts.EncodeADDI(3, 3, 1),
			insts.EncodeJEQ(1, 0, 1),
			insts.EncodeJ(1),
			insts.EncodeHalt(5),
		},
		ResultReg: 3,
		Expected:  50,
	}
}
