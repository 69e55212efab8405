package doc

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midbel/gridcalc/grid"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		Name    string
		Content string
		Want    Format
	}{
		{Name: "data.csv", Content: "1,2\n3,4\n", Want: CSV},
		{Name: "empty.txt", Content: "", Want: CSV},
		{Name: "snapshot.json", Content: "  {\"blockSize\": 1000}", Want: JSON},
		{Name: "sheet1.xml", Content: "<?xml version=\"1.0\"?><worksheet/>", Want: XML},
	}
	for _, c := range tests {
		got, err := DetectFormat(writeFile(t, c.Name, c.Content))
		require.NoError(t, err, c.Name)
		assert.Equal(t, c.Want, got, c.Name)
	}

	file := filepath.Join(t.TempDir(), "book.xlsx")
	w, err := os.Create(file)
	require.NoError(t, err)
	z := zip.NewWriter(w)
	_, err = z.Create("xl/workbook.xml")
	require.NoError(t, err)
	require.NoError(t, z.Close())
	require.NoError(t, w.Close())

	got, err := DetectFormat(file)
	require.NoError(t, err)
	assert.Equal(t, OXML, got)

	_, err = DetectFormat(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	store := grid.NewStore()
	require.NoError(t, Load(writeFile(t, "data.csv", "1,2\n=A1+B1\n"), "", store))
	assert.Equal(t, 3, store.Len())
	got, _ := store.Cell(1, 0)
	assert.Equal(t, "=A1+B1", got)

	data, err := store.ExportJSON()
	require.NoError(t, err)

	other := grid.NewStore()
	require.NoError(t, Load(writeFile(t, "snapshot.json", string(data)), "", other))
	assert.Equal(t, 3, other.Len())

	xml := `<worksheet><sheetData><row r="1"><c r="B2"><v>7</v></c></row></sheetData></worksheet>`
	other = grid.NewStore()
	require.NoError(t, Load(writeFile(t, "sheet.xml", xml), "", other))
	got, _ = other.Cell(1, 1)
	assert.Equal(t, 7.0, got)
}
