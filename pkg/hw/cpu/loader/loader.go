// Package loader loads programs assembled with the Patt/Patel lc3tools into a
// simulator.
//
// Two file formats are supported:
//
//   - Object files (.obj): a big-endian origin word followed by the
//     big-endian words to place at consecutive addresses from the origin.
//   - Symbol tables (.sym): text files where each symbol is listed in a
//     line of the form "//\tLABEL   3000".
//
// Typical usage:
//
//	err := loader.LoadFiles(sim, "program.obj", "program.sym")
//	if err != nil { ... }
package loader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

var (
	// Object file errors
	ErrEmptyObject       = errors.New("object file has no origin")
	ErrTruncatedObject   = errors.New("object file has an odd number of bytes")
	ErrObjectTooLarge    = errors.New("object file does not fit in memory")
	// ErrUnsupportedFormat is returned by LoadFile for files other than .obj and .sym
	ErrUnsupportedFormat = errors.New("unsupported file extension")
)

var symbolLine = regexp.MustCompile(`//\t(\w+)\s*([0-9A-Fa-f]{4})`)

// FileFormat represents the type of a file produced by lc3tools
type FileFormat int

const (
	// FormatUnknown indicates an unknown file format
	FormatUnknown FileFormat = iota
	// FormatObject indicates an object file (.obj)
	FormatObject
	// FormatSymbols indicates a symbol table (.sym)
	FormatSymbols
)

// String returns the string representation of a FileFormat
func (f FileFormat) String() string {
	switch f {
	case FormatObject:
		return "object"
	case FormatSymbols:
		return "symbols"
	default:
		return "unknown"
	}
}

// DetectFormat returns the format of a file based on its extension
func DetectFormat(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return FormatObject
	case ".sym":
		return FormatSymbols
	default:
		return FormatUnknown
	}
}

// Object is a parsed object file
type Object struct {
	Origin uint16
	Words  []uint16
}

// Symbol is an entry of a symbol table
type Symbol struct {
	Label   string
	Address uint16
}

// ParseObject reads an object file
func ParseObject(r io.Reader) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, fmt.Errorf("reading object file: %w", err)
	}

	if len(data) < 2 {
		return Object{}, ErrEmptyObject
	}

	if len(data)%2 != 0 {
		return Object{}, utils.MakeError(ErrTruncatedObject, "%d bytes", len(data))
	}

	object := Object{
		Origin: binary.BigEndian.Uint16(data),
		Words:  make([]uint16, 0, len(data)/2-1),
	}

	for offset := 2; offset < len(data); offset += 2 {
		object.Words = append(object.Words, binary.BigEndian.Uint16(data[offset:]))
	}

	if int(object.Origin)+len(object.Words) > 1<<utils.BitsPerWord {
		return Object{}, utils.MakeError(ErrObjectTooLarge, "%d words from %s", len(object.Words), utils.FormatWord(object.Origin))
	}

	return object, nil
}

// ParseSymbols reads a symbol table. Lines not listing a symbol are ignored.
func ParseSymbols(r io.Reader) ([]Symbol, error) {
	var symbols []Symbol

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		match := symbolLine.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}

		address, err := strconv.ParseUint(match[2], 16, utils.BitsPerWord)
		if err != nil {
			return nil, fmt.Errorf("parsing address of symbol '%s': %w", match[1], err)
		}

		symbols = append(symbols, Symbol{Label: match[1], Address: uint16(address)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading symbol table: %w", err)
	}

	return symbols, nil
}

// Load writes the object into memory and points the PC at its origin
func (o Object) Load(sim cpu.Simulator) {
	for i, word := range o.Words {
		sim.SetMemory(o.Origin+uint16(i), word)
	}

	sim.SetPC(o.Origin)
}

// LoadFile parses a file and loads it into the simulator, detecting its
// format from the extension.
func LoadFile(sim cpu.Simulator, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format := DetectFormat(path); format {
	case FormatObject:
		object, err := ParseObject(file)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		object.Load(sim)
	case FormatSymbols:
		symbols, err := ParseSymbols(file)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for _, symbol := range symbols {
			sim.AddSymbol(symbol.Label, symbol.Address)
		}
	default:
		return utils.MakeError(ErrUnsupportedFormat, "'%s' (supported: .obj, .sym)", filepath.Ext(path))
	}

	return nil
}

// LoadFiles loads an object file and its symbol table
func LoadFiles(sim cpu.Simulator, objectPath string, symbolsPath string) error {
	if err := LoadFile(sim, objectPath); err != nil {
		return err
	}

	return LoadFile(sim, symbolsPath)
}
