package replay

import (
	"golang.org/x/exp/slices"

	"github.com/Manu343726/lc3unit/pkg/utils"
)

type precondition struct {
	flag   flag
	label  string
	values []int
}

// Recorder accumulates the environment settings and preconditions of a test.
//
// Setting a flag again overwrites its value but keeps the position of the
// first insertion. Preconditions are append only and kept in call order.
type Recorder struct {
	environment   [maxEnvironmentFlag + 1]int32
	order         []flag
	preconditions []precondition
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Environment records a global test setting.
func (r *Recorder) Environment(setting Setting) error {
	return r.recordEnvironment(setting.environmentFlag(), setting.environmentValue())
}

// Precondition records an explicit state mutation.
func (r *Recorder) Precondition(p Precondition) error {
	return r.recordPrecondition(p.preconditionFlag(), p.preconditionLabel(), p.preconditionValues()...)
}

func (r *Recorder) recordEnvironment(id flag, value int32) error {
	if !id.isEnvironment() {
		return utils.MakeError(ErrEnvironmentFlagRange, "got %d (%v)", uint8(id), id)
	}

	if !slices.Contains(r.order, id) {
		r.order = append(r.order, id)
	}

	r.environment[id] = value
	return nil
}

func (r *Recorder) recordPrecondition(id flag, label string, values ...int) error {
	if !id.isPrecondition() {
		return utils.MakeError(ErrPreconditionFlagRange, "got %d (%v)", uint8(id), id)
	}

	r.preconditions = append(r.preconditions, precondition{
		flag:   id,
		label:  label,
		values: slices.Clone(values),
	})

	return nil
}

// EnvironmentLen returns the number of distinct settings recorded.
func (r *Recorder) EnvironmentLen() int {
	return len(r.order)
}

// PreconditionsLen returns the number of preconditions recorded.
func (r *Recorder) PreconditionsLen() int {
	return len(r.preconditions)
}
