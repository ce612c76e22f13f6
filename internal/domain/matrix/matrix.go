// Package matrix builds the dense score matrix consumed by the IRT fit.
package matrix

import (
	"github.com/okian/tci/internal/domain/model"
)

// ScoreMatrix is a dense models-by-benchmarks view of the observed scores.
// Scores holds values normalized to [0,1]; Mask marks which cells were
// actually observed. Unobserved cells are zero-filled and must never
// contribute to any downstream computation.
type ScoreMatrix struct {
	Models     []string    // row order, same as the input record order
	Benchmarks []string    // column order, same as the configured key order
	Scores     [][]float64 // Scores[m][b] in [0,1]
	Mask       [][]bool    // Mask[m][b] true when observed
}

// ObservedCells returns the number of observed (masked-in) cells.
func (m *ScoreMatrix) ObservedCells() int {
	n := 0
	for _, row := range m.Mask {
		for _, ok := range row {
			if ok {
				n++
			}
		}
	}
	return n
}

// ObservedInRow returns the number of observed cells in row m.
func (sm *ScoreMatrix) ObservedInRow(m int) int {
	n := 0
	for _, ok := range sm.Mask[m] {
		if ok {
			n++
		}
	}
	return n
}

// Build converts an ordered record list into a ScoreMatrix over the given
// ordered benchmark keys. Pure transformation: input order is preserved
// and a missing score at (model, benchmark) becomes 0 with Mask=false.
func Build(records []model.BenchmarkRecord, benchmarks []string) *ScoreMatrix {
	sm := &ScoreMatrix{
		Models:     make([]string, len(records)),
		Benchmarks: append([]string(nil), benchmarks...),
		Scores:     make([][]float64, len(records)),
		Mask:       make([][]bool, len(records)),
	}
	for i, rec := range records {
		sm.Models[i] = rec.Model
		sm.Scores[i] = make([]float64, len(benchmarks))
		sm.Mask[i] = make([]bool, len(benchmarks))
		for j, key := range benchmarks {
			s, ok := rec.Score(key)
			if !ok {
				continue
			}
			sm.Scores[i][j] = s.Value / model.MaxScore
			sm.Mask[i][j] = true
		}
	}
	return sm
}
