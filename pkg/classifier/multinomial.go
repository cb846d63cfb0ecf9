package classifier

import (
	"math"

	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/learning"
)

// ScoreMode selects how the multinomial score is accumulated
type ScoreMode int

const (
	// LogSpace sums log probabilities
	LogSpace ScoreMode = iota
	// RawProduct multiplies probabilities directly. Long documents underflow.
	RawProduct
)

func (m ScoreMode) String() string {
	if m == RawProduct {
		return "product"
	}
	return "log"
}

// Multinomial is a Naive Bayes model over term frequencies
type Multinomial struct {
	mode     ScoreMode
	prior    [corpus.NumSlots]float64
	logPrior [corpus.NumSlots]float64
	cond     map[string][corpus.NumSlots]float64
	logCond  map[string][corpus.NumSlots]float64
}

// NewMultinomial derives the model from a term-frequency table and the
// training class totals.
//
// P(w|c) = (1 + freq(w,c)) / (1 + sum of freq(v,c) over the vocabulary)
func NewMultinomial(table *learning.FrequencyTable, totals learning.ClassTotals, mode ScoreMode) (*Multinomial, error) {
	docs := totals.Sum()
	if docs == 0 {
		return nil, ErrEmptyTrainingSet
	}

	m := &Multinomial{
		mode:    mode,
		cond:    make(map[string][corpus.NumSlots]float64, table.Len()),
		logCond: make(map[string][corpus.NumSlots]float64, table.Len()),
	}
	for s := range m.prior {
		m.prior[s] = float64(totals[s]) / float64(docs)
		m.logPrior[s] = math.Log(m.prior[s])
	}

	mass := table.Totals()
	table.Each(func(term string, c learning.Counts) {
		var p, lp [corpus.NumSlots]float64
		for s := range p {
			p[s] = float64(1+c[s]) / float64(1+mass[s])
			lp[s] = math.Log(p[s])
		}
		m.cond[term] = p
		m.logCond[term] = lp
	})

	return m, nil
}

// Prior returns P(c) for the class
func (m *Multinomial) Prior(c corpus.Class) float64 {
	return m.prior[corpus.SlotOf(c)]
}

// Conditional returns P(term|c) and whether term is in the vocabulary
func (m *Multinomial) Conditional(term string, c corpus.Class) (float64, bool) {
	p, ok := m.cond[term]
	return p[corpus.SlotOf(c)], ok
}

// Scores returns the per-class scores. In LogSpace mode these are logs of
// the RawProduct scores. Terms outside the vocabulary are skipped.
func (m *Multinomial) Scores(doc corpus.Document) [corpus.NumSlots]float64 {
	counts := doc.Counts()

	if m.mode == RawProduct {
		scores := m.prior
		for _, term := range doc.Distinct() {
			p, ok := m.cond[term]
			if !ok {
				continue
			}
			n := float64(counts[term])
			for s := range scores {
				scores[s] *= math.Pow(p[s], n)
			}
		}
		return scores
	}

	scores := m.logPrior
	for _, term := range doc.Distinct() {
		lp, ok := m.logCond[term]
		if !ok {
			continue
		}
		n := float64(counts[term])
		for s := range scores {
			scores[s] += n * lp[s]
		}
	}
	return scores
}

// Classify returns the class with the higher score, +1 on ties
func (m *Multinomial) Classify(doc corpus.Document) corpus.Class {
	return argmax(m.Scores(doc))
}
