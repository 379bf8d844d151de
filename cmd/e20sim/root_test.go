package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/e20sim/insts"
	"github.com/sarchlab/e20sim/loader"
	"github.com/sarchlab/e20sim/trace"
)

func writeImage(dir string, words []uint16) string {
	path := filepath.Join(dir, "prog.bin")
	f, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = f.Close() }()

	Expect(loader.Write(f, words)).To(Succeed())
	return path
}

var _ = Describe("e20sim command", func() {
	var (
		dir    string
		stdout *bytes.Buffer
		stderr *bytes.Buffer
		prog   string
	)

	execute := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}

		for _, env := range []string{envCache, envMaxSteps, envTraceDB} {
			old, ok := os.LookupEnv(env)
			Expect(os.Unsetenv(env)).To(Succeed())
			if ok {
				DeferCleanup(os.Setenv, env, old)
			}
		}

		prog = writeImage(dir, []uint16{
			insts.EncodeADDI(1, 0, 7),
			insts.EncodeSW(1, 0, 8),
			insts.EncodeLW(2, 0, 8),
			insts.EncodeLW(3, 0, 0),
			insts.EncodeHalt(4),
		})
	})

	It("should print the final state without a cache", func() {
		Expect(execute(prog)).To(Succeed())

		lines := strings.Split(stdout.String(), "\n")
		Expect(lines[0]).To(Equal("Final state:"))
		Expect(lines[1]).To(Equal("\tpc=    4"))
		Expect(lines[3]).To(Equal("\t$1=    7"))
		Expect(lines[4]).To(Equal("\t$2=    7"))
		Expect(lines[10]).To(HavePrefix("2087 "))
	})

	It("should print the cache config and log lines", func() {
		Expect(execute("--cache", "16,2,4", prog)).To(Succeed())

		Expect(stdout.String()).To(Equal(
			"Cache L1 has size 16, associativity 2, blocksize 4, rows 2\n" +
				"L1 SW    pc:    1\taddr:    8\trow:   0\n" +
				"L1 HIT   pc:    2\taddr:    8\trow:   0\n" +
				"L1 MISS  pc:    3\taddr:    0\trow:   0\n"))
	})

	It("should log both levels", func() {
		Expect(execute("--cache", "4,1,1,8,2,2", "--cache-backend", "akita", prog)).To(Succeed())

		out := stdout.String()
		Expect(out).To(ContainSubstring("Cache L2 has size 8, associativity 2, blocksize 2, rows 2\n"))
		Expect(out).To(ContainSubstring("L2 SW    pc:    1\taddr:    8\trow:   0\n"))
		Expect(out).To(ContainSubstring("L2 MISS  pc:    3\taddr:    0\trow:   0\n"))
		Expect(out).NotTo(ContainSubstring("Final state"))
	})

	It("should dump the state with a cache when asked", func() {
		Expect(execute("--cache", "16,2,4", "--dump-state", prog)).To(Succeed())

		Expect(stdout.String()).To(ContainSubstring("L1 MISS"))
		Expect(stdout.String()).To(ContainSubstring("Final state:\n"))
	})

	It("should read the cache config from the environment", func() {
		Expect(os.Setenv(envCache, "8,1,2")).To(Succeed())
		DeferCleanup(os.Unsetenv, envCache)

		Expect(execute(prog)).To(Succeed())

		Expect(stdout.String()).To(HavePrefix(
			"Cache L1 has size 8, associativity 1, blocksize 2, rows 4\n"))
	})

	It("should prefer the flag over the environment", func() {
		Expect(os.Setenv(envCache, "8,1,2")).To(Succeed())
		DeferCleanup(os.Unsetenv, envCache)

		Expect(execute("--cache", "16,2,4", prog)).To(Succeed())

		Expect(stdout.String()).To(HavePrefix("Cache L1 has size 16"))
	})

	It("should reject a bad cache config", func() {
		err := execute("--cache", "10,3,1", prog)

		Expect(err).To(HaveOccurred())
		Expect(stdout.String()).To(BeEmpty())
	})

	It("should report a missing program file", func() {
		err := execute(filepath.Join(dir, "missing.bin"))

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to open program file"))
	})

	It("should stop at the instruction budget", func() {
		loop := writeImage(GinkgoT().TempDir(), []uint16{insts.EncodeJEQ(0, 0, -1)})

		err := execute("--max-steps", "50", loop)

		Expect(err).To(MatchError(ContainSubstring("max instructions reached")))
		Expect(stdout.String()).To(HavePrefix("Final state:\n\tpc=    0\n"))
	})

	It("should record the run in the trace database", func() {
		db := filepath.Join(dir, "trace.sqlite3")

		Expect(execute("--cache", "16,2,4", "--trace-db", db, prog)).To(Succeed())

		conn, err := sql.Open("sqlite3", db)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = conn.Close() }()

		var runID string
		Expect(conn.QueryRow("SELECT id FROM runs").Scan(&runID)).To(Succeed())

		info, err := trace.ReadRun(conn, runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.CacheConfig).To(Equal("16,2,4"))
		Expect(info.Backend).To(Equal("rows"))
		Expect(info.Halted).To(BeTrue())
		Expect(info.Instructions).To(Equal(uint64(5)))

		events, err := trace.ReadEvents(conn, runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(3))
	})

	It("should write the instruction trace in verbose mode", func() {
		Expect(execute("-v", prog)).To(Succeed())

		Expect(stderr.String()).To(ContainSubstring("addi $1, $0, 7"))
		Expect(stderr.String()).To(ContainSubstring("executed 5 instructions"))
	})
})
