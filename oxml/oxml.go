package oxml

import (
	"encoding/xml"
	"errors"
)

var ErrFile = errors.New("invalid workbook file")

const wbBaseDir = "xl"

// cell types, from the t attribute of the c element
const (
	TypeSharedStr = "s"
	TypeInlineStr = "inlineStr"
	TypeFormula   = "str"
	TypeDate      = "d"
	TypeError     = "e"
	TypeBool      = "b"
	TypeNumber    = "n"
)

type xmlWorkbook struct {
	XMLName xml.Name   `xml:"workbook"`
	Sheets  []xmlSheet `xml:"sheets>sheet"`
}

type xmlSheet struct {
	XMLName xml.Name `xml:"sheet"`
	Id      string   `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Name    string   `xml:"name,attr"`
	Index   int      `xml:"sheetId,attr"`
}

type xmlRelations struct {
	XMLName   xml.Name      `xml:"Relationships"`
	Relations []xmlRelation `xml:"Relationship"`
}

type xmlRelation struct {
	XMLName xml.Name `xml:"Relationship"`
	Target  string   `xml:",attr"`
	Id      string   `xml:",attr"`
	Type    string   `xml:",attr"`
}

type xmlSharedStrings struct {
	XMLName xml.Name          `xml:"sst"`
	Values  []xmlSharedString `xml:"si"`
}

type xmlSharedString struct {
	Value string   `xml:"t"`
	Runs  []string `xml:"r>t"`
}

func (s xmlSharedString) String() string {
	if len(s.Runs) == 0 {
		return s.Value
	}
	var str string
	for _, r := range s.Runs {
		str += r
	}
	return str
}
