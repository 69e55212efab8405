package grid

import (
	"fmt"
)

// estimated size in bytes of the structures of the store
const (
	blockOverhead = 48
	cellOverhead  = 40
)

type Stats struct {
	TotalCells  int
	TotalBlocks int
	// MemoryUsage is an estimation, in bytes, of the memory used by the
	// store.
	MemoryUsage int64
	BlockSize   int
	FillRatio   float64
}

func (s Stats) String() string {
	return fmt.Sprintf("cells: %d, blocks: %d, memory: %d bytes, block size: %d, fill ratio: %g",
		s.TotalCells,
		s.TotalBlocks,
		s.MemoryUsage,
		s.BlockSize,
		s.FillRatio,
	)
}

func (s *Store) Stats() Stats {
	st := Stats{
		TotalCells:  s.totalCells,
		TotalBlocks: len(s.blocks),
		BlockSize:   int(s.blockSize),
		FillRatio:   float64(s.totalCells) / (float64(MaxLines) * float64(MaxColumns)),
	}
	st.MemoryUsage = int64(st.TotalBlocks) * blockOverhead
	for _, b := range s.blocks {
		for _, v := range b {
			st.MemoryUsage += cellOverhead
			if str, ok := v.(string); ok {
				st.MemoryUsage += int64(len(str))
			}
		}
	}
	return st
}
