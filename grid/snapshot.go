package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/midbel/gridcalc/layout"
)

type snapshot struct {
	BlockSize  int                       `json:"blockSize"`
	TotalCells int                       `json:"totalCells"`
	Blocks     map[string]map[string]any `json:"blocks"`
}

// ExportJSON encodes the content of the store. Blocks are keyed by
// "<blockLine>_<blockColumn>" and cells, inside a block, by
// "<localLine>_<localColumn>".
func (s *Store) ExportJSON() ([]byte, error) {
	snap := snapshot{
		BlockSize:  int(s.blockSize),
		TotalCells: s.totalCells,
		Blocks:     make(map[string]map[string]any),
	}
	for _, key := range s.blockKeys() {
		cells := make(map[string]any)
		for local, v := range s.blocks[key] {
			cells[fmt.Sprintf("%d_%d", local.Line, local.Column)] = v
		}
		snap.Blocks[key.String()] = cells
	}
	return json.Marshal(snap)
}

// ImportJSON replaces the content of the store by the cells found in data.
// The store is cleared first: its content is lost if data is invalid.
func (s *Store) ImportJSON(data []byte) error {
	s.Clear()
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed json", ErrFormat)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("%w: object expected", ErrFormat)
	}
	if !gjson.GetBytes(data, "blocks").IsObject() {
		return fmt.Errorf("%w: blocks object missing", ErrFormat)
	}
	if bs := gjson.GetBytes(data, "blockSize"); bs.Exists() {
		if bs.Type != gjson.Number || bs.Int() <= 0 || float64(bs.Int()) != bs.Num {
			return fmt.Errorf("%w: invalid block size %s", ErrFormat, bs.Raw)
		}
		s.blockSize = bs.Int()
	}

	var blocks map[string]json.RawMessage
	if err := json.Unmarshal([]byte(gjson.GetBytes(data, "blocks").Raw), &blocks); err != nil {
		return fmt.Errorf("%w: %s", ErrFormat, err)
	}
	for k, raw := range blocks {
		key, err := parseKey(k)
		if err != nil {
			return err
		}
		if key.Line > (MaxLines-1)/s.blockSize || key.Column > (MaxColumns-1)/s.blockSize {
			return fmt.Errorf("%w: block %s outside of the grid", ErrFormat, k)
		}
		if !gjson.ParseBytes(raw).IsObject() {
			return fmt.Errorf("%w: block %s is not an object", ErrFormat, k)
		}
		var cells map[string]any
		if err := json.Unmarshal(raw, &cells); err != nil {
			return fmt.Errorf("%w: block %s: %s", ErrFormat, k, err)
		}
		for c, v := range cells {
			local, err := parseKey(c)
			if err != nil {
				return err
			}
			if local.Line >= s.blockSize || local.Column >= s.blockSize {
				return fmt.Errorf("%w: cell %s outside of block %s", ErrFormat, c, k)
			}
			pos := s.global(key, layout.NewPosition(local.Line, local.Column))
			if err := s.SetCell(pos.Line, pos.Column, v); err != nil {
				return fmt.Errorf("%w: %s", ErrFormat, err)
			}
		}
	}
	return nil
}

func parseKey(str string) (blockKey, error) {
	var key blockKey
	line, col, ok := strings.Cut(str, "_")
	if !ok {
		return key, fmt.Errorf("%w: malformed key %q", ErrFormat, str)
	}
	var err error
	if key.Line, err = strconv.ParseInt(line, 10, 64); err != nil || key.Line < 0 {
		return key, fmt.Errorf("%w: malformed key %q", ErrFormat, str)
	}
	if key.Column, err = strconv.ParseInt(col, 10, 64); err != nil || key.Column < 0 {
		return key, fmt.Errorf("%w: malformed key %q", ErrFormat, str)
	}
	return key, nil
}
