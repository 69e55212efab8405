package layout

// size of the grid
const (
	MaxLines   = 1_000_000
	MaxColumns = 1_000_000
)

type Dimension struct {
	Lines   int64
	Columns int64
}

func (d Dimension) Max(other Dimension) Dimension {
	if other.Lines > d.Lines {
		d.Lines = other.Lines
	}
	if other.Columns > d.Columns {
		d.Columns = other.Columns
	}
	return d
}

func (d Dimension) Cells() int64 {
	return d.Lines * d.Columns
}

func (d Dimension) Contains(pos Position) bool {
	return pos.Valid() && pos.Line < d.Lines && pos.Column < d.Columns
}
