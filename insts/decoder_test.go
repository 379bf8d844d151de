package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/e20sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Three-register instructions", func() {
		// add $3, $1, $2 -> 000 001 010 011 0000
		It("should decode add $3, $1, $2", func() {
			inst := decoder.Decode(0x0530)

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Format).To(Equal(insts.FormatThreeReg))
			Expect(inst.RegA).To(Equal(uint8(1)))
			Expect(inst.RegB).To(Equal(uint8(2)))
			Expect(inst.RegC).To(Equal(uint8(3)))
			Expect(inst.Func).To(Equal(insts.FuncADD))
		})

		// sub $5, $6, $7 -> 000 110 111 101 0001
		It("should decode sub $5, $6, $7", func() {
			inst := decoder.Decode(0x1BD1)

			Expect(inst.Op).To(Equal(insts.OpSUB))
			Expect(inst.RegA).To(Equal(uint8(6)))
			Expect(inst.RegB).To(Equal(uint8(7)))
			Expect(inst.RegC).To(Equal(uint8(5)))
		})

		It("should decode or, and, slt by function selector", func() {
			Expect(decoder.Decode(0x0002).Op).To(Equal(insts.OpOR))
			Expect(decoder.Decode(0x0003).Op).To(Equal(insts.OpAND))
			Expect(decoder.Decode(0x0004).Op).To(Equal(insts.OpSLT))
		})

		// jr $7 -> 000 111 000 000 1000
		It("should decode jr $7", func() {
			inst := decoder.Decode(0x1C08)

			Expect(inst.Op).To(Equal(insts.OpJR))
			Expect(inst.RegA).To(Equal(uint8(7)))
		})

		It("should decode unassigned selectors as unknown", func() {
			for _, fn := range []uint16{5, 6, 7, 9, 10, 11, 12, 13, 14, 15} {
				inst := decoder.Decode(fn)
				Expect(inst.Op).To(Equal(insts.OpUnknown), "func %d", fn)
				Expect(inst.Format).To(Equal(insts.FormatThreeReg))
				Expect(inst.Func).To(Equal(fn))
			}
		})
	})

	Describe("Immediate instructions", func() {
		// addi $1, $0, 5 -> 001 000 001 0000101
		It("should decode addi $1, $0, 5", func() {
			inst := decoder.Decode(0x2085)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Format).To(Equal(insts.FormatTwoRegImm))
			Expect(inst.RegA).To(Equal(uint8(0)))
			Expect(inst.RegB).To(Equal(uint8(1)))
			Expect(inst.Imm7).To(Equal(uint16(5)))
			Expect(inst.Imm).To(Equal(uint16(5)))
		})

		// addi $2, $1, -1 -> 001 001 010 1111111
		It("should sign-extend a negative immediate", func() {
			inst := decoder.Decode(0x257F)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Imm7).To(Equal(uint16(0x7F)))
			Expect(inst.Imm).To(Equal(uint16(0xFFFF)))
		})

		It("should decode lw and sw", func() {
			lw := decoder.Decode(0x8504)
			Expect(lw.Op).To(Equal(insts.OpLW))
			Expect(lw.RegA).To(Equal(uint8(1)))
			Expect(lw.RegB).To(Equal(uint8(2)))
			Expect(lw.Imm).To(Equal(uint16(4)))

			sw := decoder.Decode(0xA504)
			Expect(sw.Op).To(Equal(insts.OpSW))
			Expect(sw.RegA).To(Equal(uint8(1)))
			Expect(sw.RegB).To(Equal(uint8(2)))
		})

		// jeq $1, $2, -3 -> 110 001 010 1111101
		It("should decode jeq with a negative offset", func() {
			inst := decoder.Decode(0xC57D)

			Expect(inst.Op).To(Equal(insts.OpJEQ))
			Expect(int16(inst.Imm)).To(Equal(int16(-3)))
		})

		It("should decode slti", func() {
			inst := decoder.Decode(0xE505)

			Expect(inst.Op).To(Equal(insts.OpSLTI))
			Expect(inst.Imm).To(Equal(uint16(5)))
		})
	})

	Describe("Jump instructions", func() {
		It("should decode j 0", func() {
			inst := decoder.Decode(0x4000)

			Expect(inst.Op).To(Equal(insts.OpJ))
			Expect(inst.Format).To(Equal(insts.FormatJump))
			Expect(inst.Target).To(Equal(uint16(0)))
		})

		It("should keep all 13 target bits", func() {
			inst := decoder.Decode(0x5FFF)

			Expect(inst.Op).To(Equal(insts.OpJ))
			Expect(inst.Target).To(Equal(uint16(8191)))
		})

		It("should decode jal 12", func() {
			inst := decoder.Decode(0x600C)

			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.Target).To(Equal(uint16(12)))
		})
	})

	Describe("SignExtend7", func() {
		It("should extend all ones to 0xFFFF", func() {
			Expect(insts.SignExtend7(0b1111111)).To(Equal(uint16(0xFFFF)))
		})

		It("should leave positive values unchanged", func() {
			Expect(insts.SignExtend7(0b0000001)).To(Equal(uint16(0x0001)))
			Expect(insts.SignExtend7(0b0111111)).To(Equal(uint16(63)))
		})

		It("should map the most negative field to -64", func() {
			Expect(int16(insts.SignExtend7(0b1000000))).To(Equal(int16(-64)))
		})
	})
})

var _ = Describe("Encoder", func() {
	decoder := insts.NewDecoder()

	It("should produce words the decoder reads back", func() {
		Expect(insts.EncodeADD(3, 1, 2)).To(Equal(uint16(0x0530)))
		Expect(insts.EncodeSUB(5, 6, 7)).To(Equal(uint16(0x1BD1)))
		Expect(insts.EncodeJR(7)).To(Equal(uint16(0x1C08)))
		Expect(insts.EncodeADDI(1, 0, 5)).To(Equal(uint16(0x2085)))
		Expect(insts.EncodeADDI(2, 1, -1)).To(Equal(uint16(0x257F)))
		Expect(insts.EncodeLW(2, 1, 4)).To(Equal(uint16(0x8504)))
		Expect(insts.EncodeSW(2, 1, 4)).To(Equal(uint16(0xA504)))
		Expect(insts.EncodeJEQ(1, 2, -3)).To(Equal(uint16(0xC57D)))
		Expect(insts.EncodeSLTI(2, 1, 5)).To(Equal(uint16(0xE505)))
		Expect(insts.EncodeJAL(12)).To(Equal(uint16(0x600C)))
		Expect(insts.EncodeHalt(0)).To(Equal(uint16(0x4000)))
	})

	It("should encode the ends of the immediate range", func() {
		Expect(insts.EncodeADDI(1, 0, insts.MaxImm7)).To(Equal(uint16(0x20BF)))
		Expect(insts.EncodeADDI(1, 0, insts.MinImm7)).To(Equal(uint16(0x20C0)))
	})

	It("should refuse immediates that do not fit in 7 bits", func() {
		Expect(func() { insts.EncodeSW(3, 0, 100) }).To(Panic())
		Expect(func() { insts.EncodeLW(3, 0, 64) }).To(Panic())
		Expect(func() { insts.EncodeJEQ(1, 2, -65) }).To(Panic())
	})

	It("should disassemble decoded instructions", func() {
		Expect(decoder.Decode(insts.EncodeADD(3, 1, 2)).String()).To(Equal("add $3, $1, $2"))
		Expect(decoder.Decode(insts.EncodeJR(7)).String()).To(Equal("jr $7"))
		Expect(decoder.Decode(insts.EncodeADDI(2, 1, -1)).String()).To(Equal("addi $2, $1, -1"))
		Expect(decoder.Decode(insts.EncodeLW(2, 1, -4)).String()).To(Equal("lw $2, -4($1)"))
		Expect(decoder.Decode(insts.EncodeJEQ(1, 2, -3)).String()).To(Equal("jeq $1, $2, -3"))
		Expect(decoder.Decode(insts.EncodeJ(12)).String()).To(Equal("j 12"))
		Expect(decoder.Decode(0x0005).String()).To(Equal(".fill 5"))
	})
})
