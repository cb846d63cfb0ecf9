package learning

import (
	"sort"

	"github.com/zpam/nbeval/pkg/corpus"
)

// Counts holds per-class counts in slot order
type Counts [corpus.NumSlots]int

// Sum returns the total over both slots
func (c Counts) Sum() int {
	return c[corpus.PositiveSlot] + c[corpus.NegativeSlot]
}

// ClassTotals is the number of training documents per class slot
type ClassTotals = Counts

// FrequencyTable maps terms to per-class counts. Terms are kept in the
// order they were first added.
type FrequencyTable struct {
	terms  []string
	index  map[string]int
	counts []Counts
}

// NewFrequencyTable creates an empty table
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{index: make(map[string]int)}
}

// Len returns the vocabulary size
func (t *FrequencyTable) Len() int {
	return len(t.terms)
}

// Terms returns a copy of the vocabulary in table order
func (t *FrequencyTable) Terms() []string {
	out := make([]string, len(t.terms))
	copy(out, t.terms)
	return out
}

// Has reports whether term is in the vocabulary
func (t *FrequencyTable) Has(term string) bool {
	_, ok := t.index[term]
	return ok
}

// Counts returns the counts for term and whether it is in the vocabulary
func (t *FrequencyTable) Counts(term string) (Counts, bool) {
	i, ok := t.index[term]
	if !ok {
		return Counts{}, false
	}
	return t.counts[i], true
}

// Each calls fn for every term in table order
func (t *FrequencyTable) Each(fn func(term string, c Counts)) {
	for i, term := range t.terms {
		fn(term, t.counts[i])
	}
}

// Totals returns the sum of every row per slot
func (t *FrequencyTable) Totals() Counts {
	var total Counts
	for _, c := range t.counts {
		total[corpus.PositiveSlot] += c[corpus.PositiveSlot]
		total[corpus.NegativeSlot] += c[corpus.NegativeSlot]
	}
	return total
}

// Set stores counts for term, appending it if it is new. Used by loaders.
func (t *FrequencyTable) Set(term string, c Counts) {
	i := t.ensure(term)
	t.counts[i] = c
}

func (t *FrequencyTable) ensure(term string) int {
	if i, ok := t.index[term]; ok {
		return i
	}
	t.index[term] = len(t.terms)
	t.terms = append(t.terms, term)
	t.counts = append(t.counts, Counts{})
	return len(t.terms) - 1
}

func (t *FrequencyTable) increment(term string, s corpus.Slot) {
	i := t.ensure(term)
	t.counts[i][s]++
}

// TermCount is one row of a top-K query
type TermCount struct {
	Term  string
	Count int
}

// TopK returns the k terms with the highest count in slot. Ties keep
// table order.
func TopK(t *FrequencyTable, slot corpus.Slot, k int) []TermCount {
	rows := make([]TermCount, 0, t.Len())
	t.Each(func(term string, c Counts) {
		rows = append(rows, TermCount{Term: term, Count: c[slot]})
	})

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	if k >= 0 && len(rows) > k {
		rows = rows[:k]
	}
	return rows
}
