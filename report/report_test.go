package report_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/emu"
	"github.com/sarchlab/e20sim/report"
)

var _ = Describe("Report", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("should print a cache config line", func() {
		c := cache.Config{Name: "L1", Size: 16, Associativity: 2, BlockSize: 4}

		Expect(report.PrintCacheConfig(buf, c)).To(Succeed())

		Expect(buf.String()).To(Equal(
			"Cache L1 has size 16, associativity 2, blocksize 4, rows 2\n"))
	})

	It("should print aligned log entries", func() {
		Expect(report.PrintLogEntry(buf, 3,
			cache.Event{Level: "L1", Outcome: cache.Miss, Addr: 128, Row: 0})).To(Succeed())
		Expect(report.PrintLogEntry(buf, 12,
			cache.Event{Level: "L2", Outcome: cache.StoreLogged, Addr: 7, Row: 13})).To(Succeed())

		Expect(buf.String()).To(Equal(
			"L1 MISS  pc:    3\taddr:  128\trow:   0\n" +
				"L2 SW    pc:   12\taddr:    7\trow:  13\n"))
	})

	It("should print the final state", func() {
		snap := emu.Snapshot{
			PC:     5,
			Regs:   [emu.NumRegs]uint16{0, 1, 65535},
			Memory: make([]uint16, 10),
		}
		snap.Memory[0] = 0x2085
		snap.Memory[9] = 0xABCD

		Expect(report.PrintState(buf, snap)).To(Succeed())

		lines := strings.Split(buf.String(), "\n")
		Expect(lines[0]).To(Equal("Final state:"))
		Expect(lines[1]).To(Equal("\tpc=    5"))
		Expect(lines[2]).To(Equal("\t$0=    0"))
		Expect(lines[3]).To(Equal("\t$1=    1"))
		Expect(lines[4]).To(Equal("\t$2=65535"))
		Expect(lines[9]).To(Equal("\t$7=    0"))
		Expect(lines[10]).To(Equal("2085 0000 0000 0000 0000 0000 0000 0000 "))
		Expect(lines[11]).To(Equal("0000 abcd "))
		Expect(lines[12]).To(Equal(""))
		Expect(lines).To(HaveLen(13))
	})

	It("should not add a blank line when memory ends on a full row", func() {
		snap := emu.Snapshot{Memory: make([]uint16, 16)}

		Expect(report.PrintState(buf, snap)).To(Succeed())

		Expect(buf.String()).To(HaveSuffix("0000 \n"))
		Expect(buf.String()).NotTo(HaveSuffix("\n\n"))
	})

	It("should print level statistics", func() {
		h, err := cache.NewHierarchy([]cache.Config{{Size: 4, Associativity: 1, BlockSize: 1}})
		Expect(err).NotTo(HaveOccurred())
		h.Query(0, cache.Load)
		h.Query(0, cache.Load)

		Expect(report.PrintStats(buf, h.Levels())).To(Succeed())

		Expect(buf.String()).To(Equal(
			"L1: reads 2, writes 0, hits 1, misses 1, evictions 0, hit rate 50.00%\n"))
	})
})
