package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ptf/internal/report"
)

func TestVariable_BindAndRead(t *testing.T) {
	l := NewLog()
	v := l.NewVariable("handle")

	assert.False(t, v.Bound())
	_, err := v.Value()
	assert.ErrorIs(t, err, ErrNotBound)

	require.NoError(t, v.Bind("h-1"))
	assert.True(t, v.Bound())

	got, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, "h-1", got)
}

func TestVariable_DoubleBind(t *testing.T) {
	l := NewLog()
	v := l.NewVariable("handle")

	require.NoError(t, v.Bind(1))
	err := v.Bind(2)
	assert.ErrorIs(t, err, ErrAlreadyBound)

	got, _ := v.Value()
	assert.Equal(t, 1, got, "failed re-bind must not clobber the value")
}

func TestVariable_RollbackUnbinds(t *testing.T) {
	l := NewLog()
	v := l.NewVariable("handle")

	require.NoError(t, l.Begin())
	require.NoError(t, v.Bind(7))

	// The value is visible inside the same attempt.
	got, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = l.End(false, report.NewRecorder())
	require.NoError(t, err)

	assert.False(t, v.Bound(), "rollback restores the variable to unbound")
	require.NoError(t, v.Bind(8), "variable is bindable again after rollback")
}

func TestVariable_CommitKeepsBinding(t *testing.T) {
	l := NewLog()
	v := l.NewVariable("handle")

	require.NoError(t, l.Begin())
	require.NoError(t, v.Bind(7))
	_, err := l.End(true, report.NewRecorder())
	require.NoError(t, err)

	assert.True(t, v.Bound())
	assert.ErrorIs(t, v.Bind(9), ErrAlreadyBound)
}

func TestVariable_BindOutsideTransactionIsPermanent(t *testing.T) {
	l := NewLog()
	v := l.NewVariable("handle")

	require.NoError(t, v.Bind(3))

	// A later rollback has nothing to undo for this variable.
	require.NoError(t, l.Begin())
	_, err := l.End(false, report.NewRecorder())
	require.NoError(t, err)
	assert.True(t, v.Bound())
}

func TestVariable_RollbackUnbindsAllBoundInTransaction(t *testing.T) {
	l := NewLog()
	a := l.NewVariable("a")
	b := l.NewVariable("b")

	require.NoError(t, l.Begin())
	require.NoError(t, a.Bind(1))
	require.NoError(t, l.Assert(true, "mid"))
	require.NoError(t, b.Bind(2))
	_, err := l.End(false, report.NewRecorder())
	require.NoError(t, err)

	assert.False(t, a.Bound())
	assert.False(t, b.Bound())
}
