// Package loader reads E20 memory images.
//
// A memory image is a text file with one line per word, in address order
// starting at 0:
//
//	ram[0] = 16'b0010000010000101;	// addi $1,$0,5
//
// Anything after the semicolon is ignored.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// MaxWords is the number of words a memory image may hold.
const MaxWords = 1 << 13

// Errors carried by LoadError.
var (
	ErrUnparseable   = errors.New("can't parse line")
	ErrOutOfSequence = errors.New("memory addresses encountered out of sequence")
	ErrTooBig        = errors.New("program too big for memory")
)

var lineRe = regexp.MustCompile(`^ram\[(\d+)\] = 16'b(\d+);.*$`)

// LoadError reports a malformed or out-of-sequence memory image line.
type LoadError struct {
	// Line is the 1-based line number.
	Line int
	// Text is the offending line.
	Text string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Text)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Program is a loaded memory image.
type Program struct {
	// Words holds the image; Words[i] is the word at address i.
	Words []uint16
	// Path is the file the image came from, if any.
	Path string
}

// Load reads a memory image from a file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Parse reads a memory image. Addresses must start at 0 and increase by
// one per line. Blank lines are skipped.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, &LoadError{Line: lineNo, Text: line, Err: ErrUnparseable}
		}

		addr, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return nil, &LoadError{Line: lineNo, Text: line, Err: ErrUnparseable}
		}
		word, err := strconv.ParseUint(m[2], 2, 16)
		if err != nil {
			return nil, &LoadError{Line: lineNo, Text: line, Err: ErrUnparseable}
		}

		if addr != uint64(len(prog.Words)) {
			return nil, &LoadError{Line: lineNo, Text: line, Err: ErrOutOfSequence}
		}
		if addr >= MaxWords {
			return nil, &LoadError{Line: lineNo, Text: line, Err: ErrTooBig}
		}

		prog.Words = append(prog.Words, uint16(word))
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &LoadError{Line: lineNo + 1, Text: "<line too long>", Err: ErrUnparseable}
		}
		return nil, fmt.Errorf("failed to read memory image: %w", err)
	}

	return prog, nil
}

// Write emits words in memory image format.
func Write(w io.Writer, words []uint16) error {
	bw := bufio.NewWriter(w)
	for i, word := range words {
		if _, err := fmt.Fprintf(bw, "ram[%d] = 16'b%016b;\n", i, word); err != nil {
			return err
		}
	}
	return bw.Flush()
}
