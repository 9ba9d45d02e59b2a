package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop()  {}
func noop2() {}

func TestCreateTaskRejectsInvalid(t *testing.T) {
	tbl := NewTable(2)

	assert.Equal(t, CreateRejected, tbl.CreateTask(Task{PeriodMs: 10, Handler: nil}))
	assert.Equal(t, CreateRejected, tbl.CreateTask(Task{PeriodMs: 0, Handler: noop}))
	assert.EqualValues(t, 0, tbl.Count())
}

func TestCreateTaskAppendsAndUpdates(t *testing.T) {
	tbl := NewTable(2)

	res := tbl.CreateTask(Task{PeriodMs: 100, Handler: noop})
	require.Equal(t, CreateAppended, res)
	assert.EqualValues(t, 1, tbl.Count())
	assert.EqualValues(t, 100, tbl.Period(0))

	res = tbl.CreateTask(Task{PeriodMs: 50, Handler: noop})
	require.Equal(t, CreateUpdated, res)
	assert.EqualValues(t, 1, tbl.Count(), "re-registration must not grow the table")
	assert.EqualValues(t, 50, tbl.Period(0))
}

func TestCreateTaskSignalsFullWhenAtCapacity(t *testing.T) {
	tbl := NewTable(1)
	require.Equal(t, CreateAppended, tbl.CreateTask(Task{PeriodMs: 10, Handler: noop}))

	res := tbl.CreateTask(Task{PeriodMs: 10, Handler: noop2})
	assert.Equal(t, CreateFull, res)
	assert.EqualValues(t, 1, tbl.Count())
}

func TestDeleteTaskCompactsPreservingOrder(t *testing.T) {
	var ran []int
	h0 := func() { ran = append(ran, 0) }
	h1 := func() { ran = append(ran, 1) }
	h2 := func() { ran = append(ran, 2) }

	tbl := NewTable(3)
	require.Equal(t, CreateAppended, tbl.CreateTask(Task{PeriodMs: 1, Handler: h0}))
	require.Equal(t, CreateAppended, tbl.CreateTask(Task{PeriodMs: 2, Handler: h1}))
	require.Equal(t, CreateAppended, tbl.CreateTask(Task{PeriodMs: 3, Handler: h2}))

	tbl.DeleteTask(h1)
	require.EqualValues(t, 2, tbl.Count())

	// h2 must have shifted into slot 1, preserving relative order.
	assert.EqualValues(t, 1, tbl.Period(0))
	assert.EqualValues(t, 3, tbl.Period(1))

	tbl.RunTask(0)
	tbl.RunTask(1)
	assert.Equal(t, []int{0, 2}, ran)
}

func TestDeleteTaskUnknownHandlerIsNoop(t *testing.T) {
	tbl := NewTable(2)
	tbl.CreateTask(Task{PeriodMs: 1, Handler: noop})
	tbl.DeleteTask(noop2)
	assert.EqualValues(t, 1, tbl.Count())
}

func TestPeriodOutOfRangeIsZero(t *testing.T) {
	tbl := NewTable(2)
	assert.EqualValues(t, 0, tbl.Period(5))
}

func TestRunTaskOutOfRangeIsNoop(t *testing.T) {
	tbl := NewTable(2)
	assert.NotPanics(t, func() { tbl.RunTask(9) })
}

func TestConsumePending(t *testing.T) {
	tbl := NewTable(1)
	tbl.CreateTask(Task{PeriodMs: 5, Handler: noop})

	assert.False(t, tbl.ConsumePending(0), "nothing pending yet")

	tbl.Tick(5)
	assert.True(t, tbl.ConsumePending(0))
	assert.False(t, tbl.ConsumePending(0), "pending is cleared after one consume")
}

func TestClearEmptiesTable(t *testing.T) {
	tbl := NewTable(2)
	tbl.CreateTask(Task{PeriodMs: 1, Handler: noop})
	tbl.Clear()
	assert.EqualValues(t, 0, tbl.Count())
	assert.EqualValues(t, 0, tbl.Period(0))
}
