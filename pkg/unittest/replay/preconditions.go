package replay

import (
	"fmt"
	"strconv"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
)

// Precondition is an explicit mutation of the machine state made by a test.
// The set of preconditions is closed: only the types declared in this file
// implement it.
type Precondition interface {
	preconditionFlag() flag
	preconditionLabel() string
	preconditionValues() []int
}

// SetRegister sets a register.
type SetRegister struct {
	Register cpu.Register
	Value    int
}

// SetPC sets the program counter.
type SetPC struct {
	Value int
}

// SetValue sets the memory word at a label.
type SetValue struct {
	Label string
	Value int
}

// SetPointer sets the memory word at the address stored at a label.
type SetPointer struct {
	Label string
	Value int
}

// SetArray writes consecutive words starting at the address stored at a label.
type SetArray struct {
	Label  string
	Values []int
}

// SetString writes a NUL terminated string starting at the address stored at a label.
type SetString struct {
	Label string
	Text  string
}

// SetConsoleInput sets the console input.
type SetConsoleInput struct {
	Text string
}

// CallSubroutine simulates a call to a subroutine following the LC-3 calling convention.
type CallSubroutine struct {
	Label  string
	R5     int
	R6     int
	R7     int
	Params []int
}

// SetAddress sets a memory word by address.
type SetAddress struct {
	Address uint16
	Value   int
}

func runes(text string) []int {
	values := make([]int, 0, len(text))

	for _, r := range text {
		values = append(values, int(r))
	}

	return values
}

func (p SetRegister) preconditionFlag() flag        { return flagRegister }
func (p SetRegister) preconditionLabel() string     { return strconv.Itoa(int(p.Register)) }
func (p SetRegister) preconditionValues() []int     { return []int{p.Value} }
func (p SetPC) preconditionFlag() flag              { return flagPC }
func (p SetPC) preconditionLabel() string           { return "" }
func (p SetPC) preconditionValues() []int           { return []int{p.Value} }
func (p SetValue) preconditionFlag() flag           { return flagValue }
func (p SetValue) preconditionLabel() string        { return p.Label }
func (p SetValue) preconditionValues() []int        { return []int{p.Value} }
func (p SetPointer) preconditionFlag() flag         { return flagPointer }
func (p SetPointer) preconditionLabel() string      { return p.Label }
func (p SetPointer) preconditionValues() []int      { return []int{p.Value} }
func (p SetArray) preconditionFlag() flag           { return flagArray }
func (p SetArray) preconditionLabel() string        { return p.Label }
func (p SetArray) preconditionValues() []int        { return p.Values }
func (p SetString) preconditionFlag() flag          { return flagString }
func (p SetString) preconditionLabel() string       { return p.Label }
func (p SetString) preconditionValues() []int       { return runes(p.Text) }
func (p SetConsoleInput) preconditionFlag() flag    { return flagInput }
func (p SetConsoleInput) preconditionLabel() string { return "" }
func (p SetConsoleInput) preconditionValues() []int { return runes(p.Text) }
func (p CallSubroutine) preconditionFlag() flag     { return flagSubroutine }
func (p CallSubroutine) preconditionLabel() string  { return p.Label }
func (p SetAddress) preconditionFlag() flag         { return flagDirectSet }
func (p SetAddress) preconditionLabel() string      { return fmt.Sprintf("%04x", p.Address) }
func (p SetAddress) preconditionValues() []int      { return []int{p.Value} }

func (p CallSubroutine) preconditionValues() []int {
	return append([]int{p.R5, p.R6, p.R7}, p.Params...)
}
