// Package trace reads the (address, length, kind) operation streams that
// drive a cache.Simulator (spec.md §1, §4.3's request trace API). The wire
// format is a plain line-oriented text file, one operation per line:
//
//	L <addr> <length>           load
//	S <addr> <length>           store
//	B <load-addr> <store-addr> <length>   loadstore: load then store
//
// Blank lines and lines starting with '#' are ignored. No third-party
// trace format appears anywhere in the example pack, so this reader is
// built directly on bufio.Scanner and strconv (see DESIGN.md), in the
// same read-validate-wrap-error style as loader/elf.go's ELF segment
// parsing.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// Kind distinguishes the three operation shapes a trace line can encode.
type Kind int

const (
	KindLoad Kind = iota
	KindStore
	KindLoadStore
)

// Op is one parsed trace record.
type Op struct {
	Kind   Kind
	Addr   uint64 // operation address (Load, Store); load address (LoadStore)
	Addr2  uint64 // store address (LoadStore only)
	Length int
	Line   int // source line number, for error messages
}

// Load reads and parses every operation from path, in file order.
func Load(path string) ([]Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ops, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ops, nil
}

// Parse reads trace operations from r until EOF.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		op, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		op.Line = lineNo
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return ops, nil
}

func parseFields(fields []string) (Op, error) {
	if len(fields) == 0 {
		return Op{}, fmt.Errorf("empty operation")
	}

	switch strings.ToUpper(fields[0]) {
	case "L":
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("load: expected 2 fields, got %d", len(fields)-1)
		}
		addr, length, err := parseAddrLength(fields[1], fields[2])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindLoad, Addr: addr, Length: length}, nil

	case "S":
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("store: expected 2 fields, got %d", len(fields)-1)
		}
		addr, length, err := parseAddrLength(fields[1], fields[2])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindStore, Addr: addr, Length: length}, nil

	case "B":
		if len(fields) != 4 {
			return Op{}, fmt.Errorf("loadstore: expected 3 fields, got %d", len(fields)-1)
		}
		loadAddr, err := strconv.ParseUint(fields[1], 0, 64)
		if err != nil {
			return Op{}, fmt.Errorf("loadstore load address %q: %w", fields[1], err)
		}
		storeAddr, err := strconv.ParseUint(fields[2], 0, 64)
		if err != nil {
			return Op{}, fmt.Errorf("loadstore store address %q: %w", fields[2], err)
		}
		length, err := strconv.Atoi(fields[3])
		if err != nil || length < 1 {
			return Op{}, fmt.Errorf("loadstore length %q must be a byte count >= 1", fields[3])
		}
		return Op{Kind: KindLoadStore, Addr: loadAddr, Addr2: storeAddr, Length: length}, nil

	default:
		return Op{}, fmt.Errorf("unknown operation kind %q", fields[0])
	}
}

func parseAddrLength(addrField, lengthField string) (addr uint64, length int, err error) {
	addr, err = strconv.ParseUint(addrField, 0, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("address %q: %w", addrField, err)
	}
	length, err = strconv.Atoi(lengthField)
	if err != nil || length < 1 {
		return 0, 0, fmt.Errorf("length %q must be a byte count >= 1", lengthField)
	}
	return addr, length, nil
}

// Replay feeds every operation in ops to sim, in order.
func Replay(sim *cache.Simulator, ops []Op) {
	for _, op := range ops {
		switch op.Kind {
		case KindLoad:
			sim.Load(op.Addr, op.Length)
		case KindStore:
			sim.Store(op.Addr, op.Length)
		case KindLoadStore:
			sim.LoadStore(func(yield func(cache.LoadStoreOp) bool) {
				yield(cache.LoadStoreOp{
					HasLoad: true, Load: op.Addr,
					HasStore: true, Store: op.Addr2,
				})
			}, op.Length)
		}
	}
}
