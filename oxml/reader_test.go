package oxml

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/value"
)

const (
	rootRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/></Relationships>`

	workbook = `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="data" sheetId="1" r:id="rId1"/><sheet name="totals" sheetId="2" r:id="rId2"/></sheets></workbook>`

	workbookRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/></Relationships>`

	sharedStrings = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2"><si><t>label</t></si><si><t>total</t></si></sst>`

	sheet1 = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
		`<row r="1"><c r="A1"><v>10</v></c><c r="B1"><v>20</v></c><c r="C1"><f t="shared" ref="C1:C2" si="0">A1+B1</f><v>30</v></c></row>` +
		`<row r="2"><c r="A2"><v>5</v></c><c r="B2"><v>15</v></c><c r="C2"><f t="shared" si="0"/><v>20</v></c></row>` +
		`<row r="3"><c r="A3" t="s"><v>0</v></c><c r="B3" t="b"><v>1</v></c><c r="C3"><f>sum(C1:C2)</f><v>50</v></c></row>` +
		`</sheetData></worksheet>`

	sheet2 = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData><row r="1"><c r="A1" t="s"><v>1</v></c></row></sheetData></worksheet>`
)

func buildArchive(t *testing.T) *zip.Reader {
	t.Helper()
	files := map[string]string{
		"_rels/.rels":                rootRels,
		"xl/workbook.xml":            workbook,
		"xl/_rels/workbook.xml.rels": workbookRels,
		"xl/sharedStrings.xml":       sharedStrings,
		"xl/worksheets/sheet1.xml":   sheet1,
		"xl/worksheets/sheet2.xml":   sheet2,
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	z, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return z
}

func TestReadSharedStrings(t *testing.T) {
	list, err := ReadSharedStrings(strings.NewReader(sharedStrings))
	require.NoError(t, err)
	assert.Equal(t, []string{"label", "total"}, list)

	_, err = ReadSharedStrings(strings.NewReader("<sst>"))
	assert.ErrorIs(t, err, ErrFile)
}

func TestReadArchive(t *testing.T) {
	store := grid.NewStore()
	err := ReadArchive(buildArchive(t), "", store)
	require.NoError(t, err)

	tests := []struct {
		Line   int64
		Column int64
		Want   any
	}{
		{Line: 0, Column: 0, Want: 10.0},
		{Line: 0, Column: 1, Want: 20.0},
		{Line: 0, Column: 2, Want: "=A1+B1"},
		{Line: 1, Column: 2, Want: "=A2+B2"},
		{Line: 2, Column: 0, Want: "label"},
		{Line: 2, Column: 1, Want: true},
		{Line: 2, Column: 2, Want: "=SUM(C1:C2)"},
	}
	for _, c := range tests {
		got, ok := store.Cell(c.Line, c.Column)
		require.True(t, ok, "cell %d,%d", c.Line, c.Column)
		assert.Equal(t, c.Want, got)
	}
	assert.Equal(t, 9, store.Len())
}

func TestReadArchiveByName(t *testing.T) {
	store := grid.NewStore()
	err := ReadArchive(buildArchive(t), "totals", store)
	require.NoError(t, err)

	got, ok := store.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, "total", got)
	assert.Equal(t, 1, store.Len())

	err = ReadArchive(buildArchive(t), "missing", grid.NewStore())
	assert.Error(t, err)
}

func TestLoadSheetIntoSheet(t *testing.T) {
	store := grid.NewStore()
	require.NoError(t, LoadSheet(strings.NewReader(sheet1), store, []string{"label"}))

	sh, err := grid.NewSheet(grid.WithStore(store))
	require.NoError(t, err)

	assert.Equal(t, value.Float(50), sh.Value(2, 2))
	assert.Equal(t, value.Float(20), sh.Value(1, 2))
}

func TestLoadSheetErrorCells(t *testing.T) {
	doc := `<worksheet><sheetData><row r="1">` +
		`<c r="A1" t="e"><v>#N/A</v></c><c r="B1" t="e"><v>#NAME?</v></c><c r="C1" t="e"><v>#NULL!</v></c>` +
		`</row></sheetData></worksheet>`
	store := grid.NewStore()
	require.NoError(t, LoadSheet(strings.NewReader(doc), store, nil))

	sh, err := grid.NewSheet(grid.WithStore(store))
	require.NoError(t, err)
	assert.Equal(t, value.ErrNA, sh.Value(0, 0))
	assert.Equal(t, value.ErrName, sh.Value(0, 1))
	assert.Equal(t, value.ErrNull, sh.Value(0, 2))
}

func TestLoadSheetBadSharedIndex(t *testing.T) {
	doc := `<worksheet><sheetData><row r="1"><c r="A1" t="s"><v>4</v></c></row></sheetData></worksheet>`
	err := LoadSheet(strings.NewReader(doc), grid.NewStore(), nil)
	assert.ErrorIs(t, err, ErrFile)
}
