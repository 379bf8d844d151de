package loader_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/e20sim/loader"
)

var _ = Describe("Memory image loader", func() {
	Describe("Parse", func() {
		It("should parse contiguous lines with trailing comments", func() {
			src := "ram[0] = 16'b0010000010000101;\t// addi $1,$0,5\n" +
				"ram[1] = 16'b0100000000000001;\n"

			prog, err := loader.Parse(strings.NewReader(src))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint16{0x2085, 0x4001}))
		})

		It("should accept an empty image", func() {
			prog, err := loader.Parse(strings.NewReader(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(BeEmpty())
		})

		It("should skip blank lines and CRLF endings", func() {
			src := "ram[0] = 16'b1;\r\n\r\nram[1] = 16'b10;\r\n"

			prog, err := loader.Parse(strings.NewReader(src))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint16{1, 2}))
		})

		It("should reject unparseable lines", func() {
			_, err := loader.Parse(strings.NewReader("ram[0] = 16'b1;\nmov r0, r1\n"))

			var loadErr *loader.LoadError
			Expect(errors.As(err, &loadErr)).To(BeTrue())
			Expect(loadErr.Line).To(Equal(2))
			Expect(errors.Is(err, loader.ErrUnparseable)).To(BeTrue())
		})

		It("should reject words wider than 16 bits or not binary", func() {
			_, err := loader.Parse(strings.NewReader("ram[0] = 16'b10000000000000000;\n"))
			Expect(errors.Is(err, loader.ErrUnparseable)).To(BeTrue())

			_, err = loader.Parse(strings.NewReader("ram[0] = 16'b102;\n"))
			Expect(errors.Is(err, loader.ErrUnparseable)).To(BeTrue())
		})

		It("should report an overlong line as a LoadError", func() {
			src := "ram[0] = 16'b1;\nram[1] = 16'b" + strings.Repeat("0", 70000) + ";\n"

			_, err := loader.Parse(strings.NewReader(src))

			var loadErr *loader.LoadError
			Expect(errors.As(err, &loadErr)).To(BeTrue())
			Expect(loadErr.Line).To(Equal(2))
			Expect(errors.Is(err, loader.ErrUnparseable)).To(BeTrue())
		})

		It("should reject gaps", func() {
			_, err := loader.Parse(strings.NewReader("ram[0] = 16'b1;\nram[2] = 16'b1;\n"))

			Expect(errors.Is(err, loader.ErrOutOfSequence)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("line 2"))
		})

		It("should reject images that do not start at 0", func() {
			_, err := loader.Parse(strings.NewReader("ram[1] = 16'b1;\n"))

			Expect(errors.Is(err, loader.ErrOutOfSequence)).To(BeTrue())
		})

		It("should reject images larger than memory", func() {
			var sb strings.Builder
			for i := 0; i <= loader.MaxWords; i++ {
				fmt.Fprintf(&sb, "ram[%d] = 16'b0;\n", i)
			}

			_, err := loader.Parse(strings.NewReader(sb.String()))

			Expect(errors.Is(err, loader.ErrTooBig)).To(BeTrue())
		})
	})

	Describe("Write", func() {
		It("should produce an image Parse reads back", func() {
			words := []uint16{0x2085, 0xFFFF, 0}
			buf := &bytes.Buffer{}

			Expect(loader.Write(buf, words)).To(Succeed())
			Expect(buf.String()).To(HavePrefix("ram[0] = 16'b0010000010000101;\n"))

			prog, err := loader.Parse(buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal(words))
		})
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "e20-loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should load a file and remember its path", func() {
			path := filepath.Join(tempDir, "halt.bin")
			Expect(os.WriteFile(path, []byte("ram[0] = 16'b0100000000000000;\n"), 0644)).To(Succeed())

			prog, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Path).To(Equal(path))
			Expect(prog.Words).To(Equal([]uint16{0x4000}))
		})

		It("should return error for non-existent file", func() {
			_, err := loader.Load("/nonexistent/path/to/file.bin")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to open"))
		})

		It("should wrap parse errors with the file name", func() {
			path := filepath.Join(tempDir, "bad.bin")
			Expect(os.WriteFile(path, []byte("garbage\n"), 0644)).To(Succeed())

			_, err := loader.Load(path)

			Expect(errors.Is(err, loader.ErrUnparseable)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("bad.bin"))
		})
	})
})
