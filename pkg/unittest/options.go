package unittest

// DefaultMaxExecutions is the instruction budget of RunCode
const DefaultMaxExecutions = 1000000

// Dummy register values set up by CallSubroutine
const (
	DefaultCallR5 = 0xCAFE
	DefaultCallR6 = 0xF000
	DefaultCallR7 = 0x8000
)

// CallDefaults are the register values CallSubroutine uses unless overridden
type CallDefaults struct {
	R5 int `mapstructure:"r5" yaml:"r5"`
	R6 int `mapstructure:"r6" yaml:"r6"`
	R7 int `mapstructure:"r7" yaml:"r7"`
}

// Options configure a TestCase
type Options struct {
	// MaxExecutions is the instruction budget of RunCode
	MaxExecutions int          `mapstructure:"max_executions" yaml:"max_executions"`
	Call          CallDefaults `mapstructure:"call" yaml:"call"`
}

// DefaultOptions returns the budget and call registers used by New
func DefaultOptions() Options {
	return Options{
		MaxExecutions: DefaultMaxExecutions,
		Call: CallDefaults{
			R5: DefaultCallR5,
			R6: DefaultCallR6,
			R7: DefaultCallR7,
		},
	}
}

// CallOption overrides one of the registers set up by CallSubroutine
type CallOption func(*CallDefaults)

// WithR5 sets the dummy frame pointer
func WithR5(value int) CallOption {
	return func(c *CallDefaults) { c.R5 = value }
}

// WithR6 sets the stack pointer before the parameters are pushed
func WithR6(value int) CallOption {
	return func(c *CallDefaults) { c.R6 = value }
}

// WithR7 sets the return address, where execution stops once the subroutine returns
func WithR7(value int) CallOption {
	return func(c *CallDefaults) { c.R7 = value }
}
