// Package scenario describes harness tests as YAML documents, so that a test
// can be checked from the command line or shared between Go tests.
//
//	name: ADD5 adds five to its parameter
//	object: add5.obj
//	symbols: add5.sym
//	init: {strategy: fill, value: 0}
//	call: {label: ADD5, params: [3]}
//	assert:
//	  - {kind: returned}
//	  - {kind: return_value, value: 8}
//	  - {kind: registers_unchanged, registers: [5, 7]}
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidScenario wraps every decoding and validation failure
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrUnknownStep     = errors.New("unknown step kind")
	ErrUnknownStrategy = errors.New("unknown memory fill strategy")
)

var strategies = map[string]cpu.MemoryFillStrategy{
	"fill":              cpu.FillWithValue,
	"random":            cpu.RandomFillWithSeed,
	"completely_random": cpu.CompletelyRandomWithSeed,
}

// Init selects how memory is initialized. Value is the fill value or the seed.
type Init struct {
	Strategy string `yaml:"strategy"`
	Value    int    `yaml:"value"`
}

// Environment toggles. Unset toggles keep the simulator defaults and are not
// part of the replay string.
type Environment struct {
	TrueTraps              *bool   `yaml:"true_traps"`
	Interrupts             *bool   `yaml:"interrupts"`
	Plugins                *bool   `yaml:"plugins"`
	StrictExecution        *bool   `yaml:"strict_execution"`
	KeyboardInterruptDelay *uint32 `yaml:"keyboard_interrupt_delay"`
}

// Call runs a subroutine instead of a whole program
type Call struct {
	Label  string `yaml:"label"`
	Params []int  `yaml:"params"`
	R5     *int   `yaml:"r5"`
	R6     *int   `yaml:"r6"`
	R7     *int   `yaml:"r7"`
}

// SubroutineExpectation is a call to a labeled subroutine with its stack parameters
type SubroutineExpectation struct {
	Label    string `yaml:"label"`
	Params   []int  `yaml:"params"`
	Optional bool   `yaml:"optional"`
}

// TrapExpectation is a trap call with the values of its registers of interest
type TrapExpectation struct {
	Vector    uint8       `yaml:"vector"`
	Registers map[int]int `yaml:"registers"`
	Optional  bool        `yaml:"optional"`
}

type Expectations struct {
	Subroutines []SubroutineExpectation `yaml:"subroutines"`
	Traps       []TrapExpectation       `yaml:"traps"`
}

// Scenario is a complete harness test
type Scenario struct {
	Name          string       `yaml:"name"`
	Object        string       `yaml:"object"`
	Symbols       string       `yaml:"symbols"`
	Init          *Init        `yaml:"init"`
	Environment   Environment  `yaml:"environment"`
	Setup         []Step       `yaml:"setup"`
	Call          *Call        `yaml:"call"`
	Expect        Expectations `yaml:"expect"`
	MaxExecutions int          `yaml:"max_executions"`
	Assert        []Step       `yaml:"assert"`
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var s Scenario
	if err := decoder.Decode(&s); err != nil {
		return nil, utils.MakeError(ErrInvalidScenario, "%v", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Load reads a scenario file. Object and symbol paths are relative to the
// directory of the scenario.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	s.Object = resolve(dir, s.Object)
	s.Symbols = resolve(dir, s.Symbols)

	if s.Name == "" {
		s.Name = filepath.Base(path)
	}

	return s, nil
}

func resolve(dir string, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (s *Scenario) validate() error {
	if s.Init != nil {
		if _, ok := strategies[s.Init.Strategy]; !ok {
			return utils.MakeError(ErrUnknownStrategy, "'%s' (valid strategies are fill, random and completely_random)", s.Init.Strategy)
		}
	}

	if (s.Object == "") != (s.Symbols == "") {
		return utils.MakeError(ErrInvalidScenario, "object and symbols files must be given together")
	}

	for i, step := range s.Setup {
		if kind, ok := kinds[step.Kind]; !ok || kind.setup == nil {
			return utils.MakeError(ErrUnknownStep, "setup step %d: '%s'", i, step.Kind)
		}
	}

	for i, step := range s.Assert {
		if kind, ok := kinds[step.Kind]; !ok || kind.assert == nil {
			return utils.MakeError(ErrUnknownStep, "assertion %d: '%s'", i, step.Kind)
		}
	}

	return nil
}
