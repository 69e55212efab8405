package doc

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/midbel/gridcalc/csv"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/oxml"
)

type Format int

const (
	Unknown Format = iota
	CSV
	OXML
	XML
	JSON
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case OXML:
		return "xlsx"
	case XML:
		return "xml"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// Load reads file into store after detecting its format. The sheet name is
// only used by workbooks.
func Load(file, sheet string, store *grid.Store) error {
	format, err := DetectFormat(file)
	if err != nil {
		return err
	}
	return LoadFormat(file, sheet, format, store)
}

func LoadFormat(file, sheet string, format Format, store *grid.Store) error {
	if format == OXML {
		return oxml.ReadFile(file, sheet, store)
	}
	r, err := os.Open(file)
	if err != nil {
		return err
	}
	defer r.Close()

	switch format {
	case CSV:
		return csv.Import(r, store, 0)
	case XML:
		return oxml.LoadSheet(r, store, nil)
	case JSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		return store.ImportJSON(data)
	default:
		return fmt.Errorf("%s: unsupported format", file)
	}
}

func DetectFormat(file string) (Format, error) {
	if ok, err := isZip(file); err != nil {
		return Unknown, err
	} else if ok {
		return detectZip(file)
	}
	return detectText(file)
}

func detectZip(file string) (Format, error) {
	z, err := zip.OpenReader(file)
	if err != nil {
		return Unknown, err
	}
	defer z.Close()
	for _, f := range z.File {
		switch f.Name {
		case "xl/workbook.xml", "[Content_Types].xml":
			return OXML, nil
		default:
		}
	}
	return Unknown, nil
}

func detectText(file string) (Format, error) {
	r, err := os.Open(file)
	if err != nil {
		return Unknown, err
	}
	defer r.Close()

	rs := bufio.NewReader(r)
	for {
		c, _, err := rs.ReadRune()
		if err != nil {
			if err == io.EOF {
				return CSV, nil
			}
			return Unknown, err
		}
		if unicode.IsSpace(c) || c == '\ufeff' {
			continue
		}
		switch c {
		case '{':
			return JSON, nil
		case '<':
			return XML, nil
		default:
			return CSV, nil
		}
	}
}

var magicZipBytes = [][]byte{
	{0x50, 0x4b, 0x03, 0x04},
	{0x50, 0x4b, 0x05, 0x06},
	{0x50, 0x4b, 0x07, 0x08},
}

func isZip(file string) (bool, error) {
	r, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer r.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return false, nil
	}
	for _, mzb := range magicZipBytes {
		if bytes.Equal(magic, mzb) {
			return true, nil
		}
	}
	return false, nil
}
