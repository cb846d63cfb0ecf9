package evaluation

import (
	"fmt"
	"sync"

	"github.com/zpam/nbeval/pkg/corpus"
)

// ConfusionMatrix counts documents indexed [actual slot][predicted slot]
type ConfusionMatrix [corpus.NumSlots][corpus.NumSlots]int

// Total returns the number of recorded documents
func (m ConfusionMatrix) Total() int {
	var n int
	for _, row := range m {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// RowSum returns the number of documents whose actual class is in slot
func (m ConfusionMatrix) RowSum(actual corpus.Slot) int {
	return m[actual][corpus.PositiveSlot] + m[actual][corpus.NegativeSlot]
}

// Correct returns the number of documents on the diagonal
func (m ConfusionMatrix) Correct() int {
	return m[corpus.PositiveSlot][corpus.PositiveSlot] + m[corpus.NegativeSlot][corpus.NegativeSlot]
}

// Accuracy returns the fraction of correct predictions, 0 for an empty matrix
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Correct()) / float64(total)
}

// Merge returns the cell-wise sum of two matrices
func (m ConfusionMatrix) Merge(other ConfusionMatrix) ConfusionMatrix {
	for i := range m {
		for j := range m[i] {
			m[i][j] += other[i][j]
		}
	}
	return m
}

// String renders the matrix as [[a, b], [c, d]]
func (m ConfusionMatrix) String() string {
	return fmt.Sprintf("[[%d, %d], [%d, %d]]", m[0][0], m[0][1], m[1][0], m[1][1])
}

// Evaluator accumulates one confusion matrix. Record is safe for
// concurrent use.
type Evaluator struct {
	mu     sync.Mutex
	matrix ConfusionMatrix
}

// NewEvaluator creates an evaluator with an empty matrix
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Record counts one scored document
func (e *Evaluator) Record(actual, predicted corpus.Class) {
	e.mu.Lock()
	e.matrix[corpus.SlotOf(actual)][corpus.SlotOf(predicted)]++
	e.mu.Unlock()
}

// Matrix returns a snapshot of the counts
func (e *Evaluator) Matrix() ConfusionMatrix {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matrix
}
