package replay

import (
	"testing"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecorder(t *testing.T) {
	recorder := NewRecorder()

	assert.Equal(t, 0, recorder.EnvironmentLen())
	assert.Equal(t, 0, recorder.PreconditionsLen())
	assert.Equal(t, []byte{0x10, 0xFF}, recorder.Blob())
	assert.Equal(t, "EP8=", recorder.Encode())
}

func TestRecorder_Environment(t *testing.T) {
	t.Run("overwrite keeps first position", func(t *testing.T) {
		recorder := NewRecorder()

		require.NoError(t, recorder.Environment(TrueTraps(true)))
		require.NoError(t, recorder.Environment(Plugins(false)))
		require.NoError(t, recorder.Environment(TrueTraps(false)))

		assert.Equal(t, 2, recorder.EnvironmentLen())
		assert.Equal(t, []byte{
			0x01, 0x00, 0x00, 0x00, 0x00,
			0x03, 0x00, 0x00, 0x00, 0x00,
			0x10,
			0xFF,
		}, recorder.Blob())
	})

	t.Run("int32 values", func(t *testing.T) {
		recorder := NewRecorder()

		require.NoError(t, recorder.Environment(MemoryStrategyValue(-2)))
		require.NoError(t, recorder.Environment(BreakAddress(0x8000)))

		assert.Equal(t, []byte{
			0x06, 0xFE, 0xFF, 0xFF, 0xFF,
			0x07, 0x00, 0x80, 0x00, 0x00,
			0x10,
			0xFF,
		}, recorder.Blob())
	})

	t.Run("flag out of range", func(t *testing.T) {
		recorder := NewRecorder()

		err := recorder.recordEnvironment(flagEndOfEnvironment, 1)
		assert.ErrorIs(t, err, ErrEnvironmentFlagRange)

		err = recorder.recordEnvironment(flagRegister, 1)
		assert.ErrorIs(t, err, ErrEnvironmentFlagRange)

		assert.Equal(t, 0, recorder.EnvironmentLen())
	})
}

func TestRecorder_Precondition(t *testing.T) {
	t.Run("flag out of range", func(t *testing.T) {
		recorder := NewRecorder()

		for _, id := range []flag{flagInvalid, flagTrueTraps, flagEndOfEnvironment, flagEndOfPreconditions} {
			err := recorder.recordPrecondition(id, "", 1)
			assert.ErrorIs(t, err, ErrPreconditionFlagRange, "flag %d", id)
		}

		assert.Equal(t, 0, recorder.PreconditionsLen())
	})

	t.Run("values are copied", func(t *testing.T) {
		recorder := NewRecorder()
		values := []int{1, 2}

		require.NoError(t, recorder.Precondition(SetArray{Label: "A", Values: values}))
		before := recorder.Blob()
		values[0] = 42

		assert.Equal(t, before, recorder.Blob())
	})

	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, "7", SetRegister{Register: cpu.R7}.preconditionLabel())
		assert.Equal(t, "", SetPC{}.preconditionLabel())
		assert.Equal(t, "0fe2", SetAddress{Address: 0x0FE2}.preconditionLabel())
		assert.Equal(t, "ARR", SetArray{Label: "ARR"}.preconditionLabel())
	})

	t.Run("values", func(t *testing.T) {
		assert.Equal(t, []int{'h', 'i'}, SetString{Label: "S", Text: "hi"}.preconditionValues())
		assert.Equal(t, []int{'a'}, SetConsoleInput{Text: "a"}.preconditionValues())
		assert.Equal(t,
			[]int{0xCAFE, 0xF000, 0x8000, 3, 4},
			CallSubroutine{Label: "F", R5: 0xCAFE, R6: 0xF000, R7: 0x8000, Params: []int{3, 4}}.preconditionValues(),
		)
	})
}
