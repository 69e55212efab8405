package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midbel/gridcalc/layout"
)

func TestShiftReference(t *testing.T) {
	tests := []struct {
		Ref   string
		Shift Shift
		Want  string
	}{
		{Ref: "B2", Shift: InsertLine(0), Want: "B3"},
		{Ref: "B2", Shift: InsertLine(1), Want: "B3"},
		{Ref: "B2", Shift: InsertLine(2), Want: "B2"},
		{Ref: "B$2", Shift: InsertLine(0), Want: "B$2"},
		{Ref: "B2", Shift: InsertColumn(1), Want: "C2"},
		{Ref: "$B2", Shift: InsertColumn(0), Want: "$B2"},
		{Ref: "B3", Shift: DeleteLine(1), Want: "B2"},
		{Ref: "B1", Shift: DeleteLine(1), Want: "B1"},
		{Ref: "B$2", Shift: DeleteLine(1), Want: "B$2"},
		{Ref: "C2", Shift: DeleteColumn(1), Want: "B2"},
		{Ref: "A2", Shift: DeleteColumn(1), Want: "A2"},
		{Ref: "A1", Shift: Offset(2, 3), Want: "D3"},
		{Ref: "$A1", Shift: Offset(2, 3), Want: "$A3"},
		{Ref: "C3", Shift: Offset(-1, -2), Want: "A2"},
	}
	for _, c := range tests {
		t.Run(c.Ref+" "+c.Shift.String(), func(t *testing.T) {
			got, err := ShiftReference(ref(c.Ref), c.Shift)
			require.NoError(t, err)
			assert.Equal(t, c.Want, FormatReference(got))
		})
	}
}

func TestShiftReferenceErrors(t *testing.T) {
	_, err := ShiftReference(ref("B2"), DeleteLine(1))
	require.ErrorIs(t, err, ErrDeletedRef)
	assert.Equal(t, "reference to deleted cell: B2", err.Error())

	_, err = ShiftReference(ref("B2"), DeleteColumn(1))
	require.ErrorIs(t, err, ErrDeletedRef)

	_, err = ShiftReference(ref("A1"), Offset(-1, 0))
	require.ErrorIs(t, err, ErrReference)
}

func TestShiftReferenceGridBound(t *testing.T) {
	last := ref("A1000000")
	_, err := ShiftReference(last, InsertLine(0))
	assert.ErrorIs(t, err, ErrReference)
	_, err = ShiftReference(last, Offset(1, 0))
	assert.ErrorIs(t, err, ErrReference)

	got, err := ShiftReference(ref("A$1000000"), InsertLine(0))
	require.NoError(t, err)
	assert.Equal(t, "A$1000000", FormatReference(got))

	got, err = ShiftReference(last, InsertLine(layout.MaxLines))
	require.NoError(t, err)
	assert.Equal(t, "A1000000", FormatReference(got))

	edge := ref(layout.ColumnLetter(layout.MaxColumns-1) + "1")
	_, err = ShiftReference(edge, InsertColumn(0))
	assert.ErrorIs(t, err, ErrReference)
}

func TestShiftRange(t *testing.T) {
	rg, err := ParseRange("A1:B5")
	require.NoError(t, err)

	got, err := ShiftRange(rg, InsertLine(2))
	require.NoError(t, err)
	assert.Equal(t, "A1:B6", FormatRange(got))

	got, err = ShiftRange(rg, DeleteLine(2))
	require.NoError(t, err)
	assert.Equal(t, "A1:B4", FormatRange(got))

	_, err = ShiftRange(rg, DeleteLine(4))
	assert.ErrorIs(t, err, ErrDeletedRef)
}

func TestRewrite(t *testing.T) {
	expr, err := Parse("=SUM(A1:A3)+$B$4*-C5")
	require.NoError(t, err)

	got, err := Rewrite(expr, InsertLine(0))
	require.NoError(t, err)
	assert.Equal(t, "SUM(A2:A4)+$B$4*-C6", Format(got))
	assert.Equal(t, "SUM(A1:A3)+$B$4*-C5", Format(expr))

	got, err = Rewrite(expr, InsertColumn(1))
	require.NoError(t, err)
	assert.Equal(t, "SUM(A1:A3)+$B$4*-D5", Format(got))

	_, err = Rewrite(expr, DeleteLine(4))
	assert.ErrorIs(t, err, ErrDeletedRef)
}

func TestDependencies(t *testing.T) {
	expr, err := Parse("SUM(A1:B2)+A1*C3")
	require.NoError(t, err)
	want := []layout.Position{
		layout.NewPosition(0, 0),
		layout.NewPosition(0, 1),
		layout.NewPosition(1, 0),
		layout.NewPosition(1, 1),
		layout.NewPosition(2, 2),
	}
	assert.Equal(t, want, Dependencies(expr))

	expr, err = Parse("1+2")
	require.NoError(t, err)
	assert.Empty(t, Dependencies(expr))
}
