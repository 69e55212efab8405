package csv

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midbel/gridcalc/format"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/value"
)

func TestReader(t *testing.T) {
	tests := []struct {
		Input string
		Want  [][]string
	}{
		{
			Input: "a,b,c\n1,2,3\n",
			Want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			Input: "a,,c\r\n,2,",
			Want:  [][]string{{"a", "", "c"}, {"", "2", ""}},
		},
		{
			Input: "\"x\"\"y\",\"multi\nline\",z\n",
			Want:  [][]string{{"x\"y", "multi\nline", "z"}},
		},
	}
	for _, c := range tests {
		got, err := NewReader(strings.NewReader(c.Input)).ReadAll()
		require.NoError(t, err, c.Input)
		assert.Equal(t, c.Want, got)
	}
}

func TestReaderErrors(t *testing.T) {
	_, err := NewReader(strings.NewReader("a,b\"c\n")).ReadAll()
	assert.ErrorIs(t, err, ErrQuote)

	_, err = NewReader(strings.NewReader("\"abc\n")).ReadAll()
	assert.Error(t, err)

	rs := NewReader(strings.NewReader("a,b\nc\n"))
	rs.FieldsPerLine = 2
	_, err = rs.Read()
	require.NoError(t, err)
	_, err = rs.Read()
	assert.ErrorIs(t, err, ErrFieldCount)
	assert.Equal(t, 2, rs.Line())

	rs = NewReader(strings.NewReader(""))
	_, err = rs.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	ws := NewWriter(&buf)
	err := ws.WriteAll([][]string{
		{"a", "b c", ""},
		{"x\"y", "1,2", " lead"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a,\"b c\",\n\"x\"\"y\",\"1,2\",\" lead\"\n", buf.String())
}

func TestImportExport(t *testing.T) {
	input := "10,20\n5,15\n=SUM(A1:B2),label\n"

	store := grid.NewStore()
	require.NoError(t, Import(strings.NewReader(input), store, 0))
	assert.Equal(t, 6, store.Len())

	got, _ := store.Cell(0, 0)
	assert.Equal(t, 10.0, got)
	got, _ = store.Cell(2, 1)
	assert.Equal(t, "label", got)

	sh, err := grid.NewSheet(grid.WithStore(store))
	require.NoError(t, err)
	assert.Equal(t, value.Float(50), sh.Value(2, 0))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sh))
	assert.Equal(t, "10,20\n5,15\n50,label\n", buf.String())

	buf.Reset()
	require.NoError(t, Export(&buf, sh, WithRaw(), WithComma(';')))
	assert.Equal(t, "10;20\n5;15\n=SUM(A1:B2);label\n", buf.String())

	vf := format.FormatValue()
	require.NoError(t, vf.Number("0.00"))
	buf.Reset()
	require.NoError(t, Export(&buf, sh, WithFormatter(vf)))
	assert.Equal(t, "10.00,20.00\n5.00,15.00\n50.00,label\n", buf.String())
}

func TestExportFormattedErrors(t *testing.T) {
	input := "1,2\n=A1:B1,=1/0\n=FOO(),#N/A\n"

	store := grid.NewStore()
	require.NoError(t, Import(strings.NewReader(input), store, 0))
	sh, err := grid.NewSheet(grid.WithStore(store))
	require.NoError(t, err)
	assert.Equal(t, value.ErrNA, sh.Value(2, 1))

	vf := format.FormatValue()
	require.NoError(t, vf.Number("0.00"))
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sh, WithFormatter(vf)))
	want := "1.00,2.00\n\"{1.00,2.00}\",#DIV/0!\n\"#ERROR: unknown function: FOO\",#N/A\n"
	assert.Equal(t, want, buf.String())
}

func TestImportSparse(t *testing.T) {
	store := grid.NewStore()
	require.NoError(t, Import(strings.NewReader("a;;true\n;;\n;2"), store, ';'))
	assert.Equal(t, 3, store.Len())

	got, _ := store.Cell(0, 2)
	assert.Equal(t, true, got)
	got, _ = store.Cell(2, 1)
	assert.Equal(t, 2.0, got)
}
