// Package loader parses the hexadecimal memory image format consumed by the
// simulator and writes its contents into a memory.Memory.
//
// An image file is a sequence of whitespace-separated tokens, one per
// logical entry:
//
//	@1000
//	0000000000000013 00000013
//	@2000
//	deadbeefcafef00d
//
// An "@<hex>" token repositions the write pointer; any other token must be
// a 1-16 hex digit doubleword written at the current pointer, after which
// the pointer advances by 8. The address of the first token observed (be it
// an explicit "@" or the implicit pointer of 0) becomes the image's start
// address.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/archsim/rv64sim/memory"
)

// Image describes the result of loading a hex memory image.
type Image struct {
	// StartAddress is the address implied by the first token in the file:
	// the operand of a leading "@" directive, or zero if the file begins
	// with a data line.
	StartAddress uint64

	// Doublewords is the number of doubleword values written.
	Doublewords int

	// LowAddress and HighAddress bound the touched address range
	// (HighAddress is exclusive), used only for REPL diagnostics.
	LowAddress  uint64
	HighAddress uint64
}

// Load reads the hex image at path into mem and returns a description of
// what was written. On malformed input, Load returns an error; memory
// written before the malformed line is left in place, matching the
// fail-in-place behavior of the original assignment's loader.
func Load(path string, mem *memory.Memory) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f, mem)
}

// LoadReader is the Load logic factored out over an io.Reader so tests and
// the REPL's "load" command can feed it an in-memory image.
func LoadReader(r io.Reader, mem *memory.Memory) (*Image, error) {
	scanner := bufio.NewScanner(r)

	img := &Image{}
	haveStart := false
	haveRange := false
	pointer := uint64(0)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}

		for _, tok := range strings.Fields(line) {
			if strings.HasPrefix(tok, "@") {
				addr, err := strconv.ParseUint(tok[1:], 16, 64)
				if err != nil {
					return nil, fmt.Errorf("loader: line %d: bad address directive %q: %w", lineNum, tok, err)
				}
				pointer = addr
				if !haveStart {
					img.StartAddress = pointer
					haveStart = true
				}
				continue
			}

			value, err := strconv.ParseUint(tok, 16, 64)
			if err != nil {
				return nil, fmt.Errorf("loader: line %d: bad doubleword %q: %w", lineNum, tok, err)
			}
			if !haveStart {
				img.StartAddress = pointer
				haveStart = true
			}

			mem.WriteDoubleword(pointer, value, ^uint64(0))
			if !haveRange || pointer < img.LowAddress {
				img.LowAddress = pointer
				haveRange = true
			}
			img.Doublewords++
			pointer += 8
			if pointer > img.HighAddress {
				img.HighAddress = pointer
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	return img, nil
}
