// Package trace reads memory access traces and generates synthetic ones.
//
// A trace is a line-oriented text format. Each line is blank, a comment
// starting with '#', or an access of the form
//
//	<op> <address>
//
// where <op> is r/R for a read or w/W for a write, and <address> is a
// hexadecimal integer with an optional 0x prefix. Anything after the
// address is ignored.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem"
)

// A ParseError describes one trace line that could not be parsed. The line
// is skipped; processing continues.
type ParseError struct {
	Line   int
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("trace line %d: %s", e.Line, e.Reason)
}

// A Reader yields accesses from a trace stream one at a time, collecting a
// diagnostic for every malformed line instead of aborting.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	errs    []ParseError
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
	}
}

// Next returns the next access in the trace. It returns false when the
// stream is exhausted.
func (r *Reader) Next() (mem.Access, bool) {
	for r.scanner.Scan() {
		r.line++

		access, ok, err := parseLine(r.scanner.Text())
		if err != nil {
			r.errs = append(r.errs, ParseError{Line: r.line, Reason: err.Error()})
			continue
		}
		if !ok {
			continue
		}

		return access, true
	}

	return mem.Access{}, false
}

// Errors returns the diagnostics collected for skipped lines.
func (r *Reader) Errors() []ParseError {
	return r.errs
}

// Skipped returns the number of lines that failed to parse.
func (r *Reader) Skipped() int {
	return len(r.errs)
}

// parseLine parses one trace line. ok is false for blank and comment lines.
func parseLine(line string) (access mem.Access, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return mem.Access{}, false, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return mem.Access{}, false,
			fmt.Errorf("expected \"<op> <address>\", got %q", trimmed)
	}

	var isWrite bool
	switch fields[0] {
	case "r", "R":
		isWrite = false
	case "w", "W":
		isWrite = true
	default:
		return mem.Access{}, false,
			fmt.Errorf("unknown operation %q", fields[0])
	}

	addr, err := parseAddress(fields[1])
	if err != nil {
		return mem.Access{}, false, err
	}

	return mem.Access{Address: addr, IsWrite: isWrite}, true, nil
}

func parseAddress(token string) (uint64, error) {
	// Addresses are hexadecimal; the 0x prefix is optional.
	digits := token
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}

	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", token)
	}

	return addr, nil
}

// ReadFile parses a whole trace file. Malformed lines are returned as
// diagnostics next to the accesses that did parse. Opening or reading the
// file failing is an error.
func ReadFile(path string) ([]mem.Access, []ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := NewReader(f)

	var accesses []mem.Access
	for {
		access, ok := reader.Next()
		if !ok {
			break
		}
		accesses = append(accesses, access)
	}

	if err := reader.scanner.Err(); err != nil {
		return nil, nil, err
	}

	return accesses, reader.Errors(), nil
}
