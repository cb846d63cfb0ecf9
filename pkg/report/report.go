package report

import (
	"fmt"
	"io"

	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/evaluation"
	"github.com/zpam/nbeval/pkg/learning"
)

var numberWords = map[int]string{
	1: "one", 2: "two", 3: "three", 4: "four", 5: "five",
	6: "six", 7: "seven", 8: "eight", 9: "nine", 10: "ten",
}

// TopTerms writes the k most frequent terms of class c, highest first
func TopTerms(w io.Writer, table *learning.FrequencyTable, c corpus.Class, k int) {
	count, ok := numberWords[k]
	if !ok {
		count = fmt.Sprintf("%d", k)
	}

	fmt.Fprintf(w, "Top %s frequencies for class %s:\n", count, c)
	for _, tc := range learning.TopK(table, corpus.SlotOf(c), k) {
		fmt.Fprintf(w, "\t%s %d\n", tc.Term, tc.Count)
	}
}

// Matrix writes one evaluation result
func Matrix(w io.Writer, method, dataset string, m evaluation.ConfusionMatrix) {
	fmt.Fprintf(w, "%s confusion matrix for %s: %s\n", method, dataset, m)
	fmt.Fprintf(w, "  accuracy: %.4f (%d/%d)\n", m.Accuracy(), m.Correct(), m.Total())
}

// TableSummary writes the size of a freshly built table
func TableSummary(w io.Writer, name string, table *learning.FrequencyTable, totals learning.ClassTotals) {
	mass := table.Totals()
	fmt.Fprintf(w, "📚 Table %s\n", name)
	fmt.Fprintf(w, "  Vocabulary size: %d\n", table.Len())
	fmt.Fprintf(w, "  Documents: %d (class 1: %d, class -1: %d)\n",
		totals.Sum(), totals[corpus.PositiveSlot], totals[corpus.NegativeSlot])
	fmt.Fprintf(w, "  Counts: class 1: %d, class -1: %d\n",
		mass[corpus.PositiveSlot], mass[corpus.NegativeSlot])
}
