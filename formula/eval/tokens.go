package eval

import (
	"strings"

	"github.com/xuri/efp"
)

// ExcelToken is a token of a formula as seen by an Excel compatible
// tokenizer. It is used to inspect formulas without parsing them.
type ExcelToken struct {
	Value   string
	Type    string
	SubType string
}

func ExcelTokens(formula string) []ExcelToken {
	var (
		ps   = efp.ExcelParser()
		list []ExcelToken
	)
	for _, tok := range ps.Parse(strings.TrimPrefix(formula, "=")) {
		et := ExcelToken{
			Value:   tok.TValue,
			Type:    tok.TType,
			SubType: tok.TSubType,
		}
		list = append(list, et)
	}
	return list
}

// ExcelReferences lists the cell and range operands of formula.
func ExcelReferences(formula string) []string {
	var list []string
	for _, tok := range ExcelTokens(formula) {
		if tok.Type != efp.TokenTypeOperand || tok.SubType != efp.TokenSubTypeRange {
			continue
		}
		list = append(list, tok.Value)
	}
	return list
}
