package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midbel/gridcalc/formula"
	"github.com/midbel/gridcalc/formula/eval"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

func sampleSheet(t *testing.T) *Sheet {
	t.Helper()
	sh, err := NewSheet()
	require.NoError(t, err)
	require.NoError(t, sh.SetValue(0, 0, 10))
	require.NoError(t, sh.SetValue(0, 1, 20))
	require.NoError(t, sh.SetValue(1, 0, "5"))
	require.NoError(t, sh.SetValue(1, 1, 15.0))
	return sh
}

func TestSheetValues(t *testing.T) {
	sh := sampleSheet(t)
	require.NoError(t, sh.SetValue(2, 0, "=SUM(A1:B2)"))
	require.NoError(t, sh.SetFormula(2, 1, "A3/2"))
	require.NoError(t, sh.SetValue(3, 0, "hello"))
	require.NoError(t, sh.SetValue(3, 1, true))

	assert.Equal(t, value.Float(50), sh.Value(2, 0))
	assert.Equal(t, value.Float(25), sh.Value(2, 1))
	assert.Equal(t, value.Text("hello"), sh.Value(3, 0))
	assert.Equal(t, value.Float(1), sh.Value(3, 1))
	assert.Equal(t, value.TypeEmpty, sh.Value(9, 9).Type())

	raw, ok := sh.Store().Cell(2, 1)
	require.True(t, ok)
	assert.Equal(t, "=A3/2", raw)

	require.NoError(t, sh.SetValue(0, 0, 100))
	assert.Equal(t, value.Float(140), sh.Value(2, 0))

	require.NoError(t, sh.SetValue(2, 1, 7))
	_, ok = sh.Formulas().Formula(2, 1)
	assert.False(t, ok)
	assert.Equal(t, value.Float(7), sh.Value(2, 1))
}

func TestSheetLongChain(t *testing.T) {
	const depth = 40
	sh, err := NewSheet()
	require.NoError(t, err)
	require.NoError(t, sh.SetValue(0, 0, 1.0))
	for i := int64(1); i < depth; i++ {
		prev := layout.NewPosition(i-1, 0).Addr()
		require.NoError(t, sh.SetValue(i, 0, "="+prev+"+"+prev))
	}
	assert.Equal(t, value.Float(1<<(depth-1)), sh.Value(depth-1, 0))

	require.NoError(t, sh.SetValue(0, 0, 2.0))
	assert.Equal(t, value.Float(1<<depth), sh.Value(depth-1, 0))

	store := sh.Store()
	other, err := NewSheet(WithStore(store))
	require.NoError(t, err)
	got, ok := other.Formulas().Value(depth-1, 0)
	require.True(t, ok)
	assert.Equal(t, value.Float(1<<depth), got)
}

func TestSheetInsertLinePastGrid(t *testing.T) {
	sh, err := NewSheet()
	require.NoError(t, err)
	require.NoError(t, sh.SetValue(MaxLines-1, 0, "=B1*2"))
	require.NoError(t, sh.SetValue(0, 1, 4.0))

	require.NoError(t, sh.InsertLine(0))
	assert.Equal(t, 0, sh.Formulas().Len())
	_, ok := sh.Store().Cell(MaxLines-1, 0)
	assert.False(t, ok)
	assert.Equal(t, 1, sh.Store().Len())
}

func TestSheetCircular(t *testing.T) {
	sh := sampleSheet(t)
	require.NoError(t, sh.SetValue(5, 0, "=B6+1"))
	err := sh.SetValue(5, 1, "=A6+1")
	assert.ErrorIs(t, err, formula.ErrCircular)
	_, ok := sh.Store().Cell(5, 1)
	assert.False(t, ok)
}

func TestSheetInsertLine(t *testing.T) {
	sh := sampleSheet(t)
	require.NoError(t, sh.SetValue(2, 0, "=SUM(A1:B2)"))
	require.NoError(t, sh.InsertLine(1))

	raw, ok := sh.Store().Cell(3, 0)
	require.True(t, ok)
	assert.Equal(t, "=SUM(A1:B3)", raw)
	assert.Equal(t, value.Float(50), sh.Value(3, 0))

	v, ok := sh.Formulas().Value(3, 0)
	require.True(t, ok)
	assert.Equal(t, value.Float(50), v)
}

func TestSheetDeleteLine(t *testing.T) {
	sh := sampleSheet(t)
	require.NoError(t, sh.SetValue(4, 0, "=A1+A4"))
	require.NoError(t, sh.SetValue(3, 0, 1))

	require.NoError(t, sh.DeleteLine(1))
	raw, _ := sh.Store().Cell(3, 0)
	assert.Equal(t, "=A1+A3", raw)
	assert.Equal(t, value.Float(11), sh.Value(3, 0))

	require.NoError(t, sh.SetValue(5, 0, "=B1"))
	err := sh.DeleteLine(0)
	assert.ErrorIs(t, err, eval.ErrDeletedRef)
	raw, _ = sh.Store().Cell(0, 1)
	assert.Equal(t, 20, raw)
}

func TestSheetColumns(t *testing.T) {
	sh := sampleSheet(t)
	require.NoError(t, sh.SetValue(0, 3, "=A1+B1"))
	require.NoError(t, sh.InsertColumn(1))

	raw, _ := sh.Store().Cell(0, 4)
	assert.Equal(t, "=A1+C1", raw)
	assert.Equal(t, value.Float(30), sh.Value(0, 4))

	require.NoError(t, sh.DeleteColumn(1))
	raw, _ = sh.Store().Cell(0, 3)
	assert.Equal(t, "=A1+B1", raw)

	assert.ErrorIs(t, sh.DeleteColumn(0), eval.ErrDeletedRef)
}

func TestSheetLoad(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.SetCell(0, 0, 2.0))
	require.NoError(t, store.SetCell(0, 1, "=A1*3"))
	require.NoError(t, store.SetCell(0, 2, "=SUM("))

	sh, err := NewSheet(WithStore(store))
	require.Error(t, err)
	assert.Equal(t, value.Float(6), sh.Value(0, 1))
	assert.Equal(t, 1, sh.Formulas().Len())
}
