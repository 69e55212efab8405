package oxml

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/midbel/gridcalc/grid"
)

// ReadSharedStrings decodes the shared string table of a workbook.
func ReadSharedStrings(r io.Reader) ([]string, error) {
	var root xmlSharedStrings
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: fail to read shared strings", ErrFile)
	}
	list := make([]string, 0, len(root.Values))
	for _, s := range root.Values {
		list = append(list, s.String())
	}
	return list, nil
}

// Sheets returns the names of the worksheets of the workbook stored in file
// in the order they are declared.
func Sheets(file string) ([]string, error) {
	z, err := zip.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer z.Close()

	r := reader{
		reader: &z.Reader,
		base:   wbBaseDir,
	}
	wb := r.readWorkbook()
	if r.invalid() {
		return nil, r.err
	}
	var names []string
	for _, s := range wb.Sheets {
		names = append(names, s.Name)
	}
	return names, nil
}

// ReadFile loads the worksheet called sheet of the workbook stored in file
// into store. An empty sheet name selects the first worksheet.
func ReadFile(file, sheet string, store *grid.Store) error {
	z, err := zip.OpenReader(file)
	if err != nil {
		return err
	}
	defer z.Close()
	return ReadArchive(&z.Reader, sheet, store)
}

func ReadArchive(z *zip.Reader, sheet string, store *grid.Store) error {
	r := reader{
		reader: z,
		base:   wbBaseDir,
	}
	shared := r.readSharedStrings()
	wb := r.readWorkbook()
	if r.invalid() {
		return r.err
	}
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("%w: workbook has no sheet", ErrFile)
	}
	ix := 0
	if sheet != "" {
		ix = slices.IndexFunc(wb.Sheets, func(s xmlSheet) bool {
			return s.Name == sheet
		})
		if ix < 0 {
			return fmt.Errorf("%s: sheet not found", sheet)
		}
	}
	addr := r.locateSheet(wb.Sheets[ix].Id)
	if r.invalid() {
		return r.err
	}
	rc, err := r.openFile(r.fromBase(addr))
	if err != nil {
		return err
	}
	defer rc.Close()
	return LoadSheet(rc, store, shared)
}

type reader struct {
	reader *zip.Reader
	base   string

	err error
}

func (r *reader) readSharedStrings() []string {
	if r.invalid() {
		return nil
	}
	rc, err := r.openFile(r.fromBase("sharedStrings.xml"))
	if err != nil {
		return nil
	}
	defer rc.Close()

	list, err := ReadSharedStrings(rc)
	if err != nil {
		r.err = err
	}
	return list
}

func (r *reader) readWorkbook() xmlWorkbook {
	var root xmlWorkbook
	addr := r.readWorkbookLocation()
	if r.invalid() {
		return root
	}
	r.decodeXML(addr, &root)
	return root
}

func (r *reader) readWorkbookLocation() string {
	if r.invalid() {
		return ""
	}
	var root xmlRelations
	if err := r.decodeXML("_rels/.rels", &root); err != nil {
		return ""
	}
	ix := slices.IndexFunc(root.Relations, func(r xmlRelation) bool {
		return strings.HasSuffix(r.Type, "relationships/officeDocument")
	})
	if ix < 0 {
		r.err = fmt.Errorf("%w: workbook location not found", ErrFile)
		return ""
	}
	return strings.TrimPrefix(root.Relations[ix].Target, "/")
}

func (r *reader) locateSheet(id string) string {
	if r.invalid() {
		return ""
	}
	var root xmlRelations
	if err := r.decodeXML(r.fromBase("_rels/workbook.xml.rels"), &root); err != nil {
		return ""
	}
	ix := slices.IndexFunc(root.Relations, func(r xmlRelation) bool {
		return r.Id == id
	})
	if ix < 0 {
		r.err = fmt.Errorf("%w: no relation for sheet %s", ErrFile, id)
		return ""
	}
	return strings.TrimPrefix(root.Relations[ix].Target, "/"+r.base+"/")
}

func (r *reader) decodeXML(name string, ptr any) error {
	if r.invalid() {
		return r.err
	}
	rc, err := r.openFile(name)
	if err != nil {
		r.err = err
		return r.err
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(ptr); err != nil {
		r.err = fmt.Errorf("%w: fail to read data from %s", ErrFile, name)
	}
	return r.err
}

func (r *reader) openFile(name string) (io.ReadCloser, error) {
	ix := slices.IndexFunc(r.reader.File, func(f *zip.File) bool {
		return f.Name == name
	})
	if ix < 0 {
		return nil, fmt.Errorf("%w: %s not found", ErrFile, name)
	}
	return r.reader.File[ix].Open()
}

func (r *reader) fromBase(name string) string {
	return r.base + "/" + name
}

func (r *reader) invalid() bool {
	return r.err != nil
}
