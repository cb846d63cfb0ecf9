package classifier

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/learning"
)

// Bernoulli is a multivariate Bernoulli Naive Bayes model over document
// frequencies. Every vocabulary term contributes to the score, present or not.
type Bernoulli struct {
	vocab    []string
	logPrior [corpus.NumSlots]float64
	present  map[string][corpus.NumSlots]float64
	// sum over the vocabulary of log(1 - P(w|c))
	absent [corpus.NumSlots]float64
	// log P(w|c) - log(1 - P(w|c)), added when w is present
	delta map[string][corpus.NumSlots]float64
}

// NewBernoulli derives the model from a document-frequency table and the
// training class totals.
//
// P(w present|c) = (1 + df(w,c)) / (2 + totals[c])
func NewBernoulli(table *learning.FrequencyTable, totals learning.ClassTotals) (*Bernoulli, error) {
	docs := totals.Sum()
	if docs == 0 {
		return nil, ErrEmptyTrainingSet
	}

	b := &Bernoulli{
		vocab:   table.Terms(),
		present: make(map[string][corpus.NumSlots]float64, table.Len()),
		delta:   make(map[string][corpus.NumSlots]float64, table.Len()),
	}
	for s := range b.logPrior {
		b.logPrior[s] = math.Log(float64(totals[s]) / float64(docs))
	}

	absent := [corpus.NumSlots][]float64{
		make([]float64, 0, table.Len()),
		make([]float64, 0, table.Len()),
	}

	var err error
	table.Each(func(term string, c learning.Counts) {
		if err != nil {
			return
		}
		var p, d [corpus.NumSlots]float64
		for s := range p {
			if c[s] > totals[s] {
				err = errors.Errorf("term %q occurs in %d documents of class %s but the class has only %d",
					term, c[s], corpus.ClassAt(corpus.Slot(s)), totals[s])
				return
			}
			p[s] = float64(1+c[s]) / float64(2+totals[s])
			logAbsent := math.Log(1 - p[s])
			d[s] = math.Log(p[s]) - logAbsent
			absent[s] = append(absent[s], logAbsent)
		}
		b.present[term] = p
		b.delta[term] = d
	})
	if err != nil {
		return nil, errors.Wrap(err, "document-frequency table does not match class totals")
	}

	for s := range b.absent {
		b.absent[s] = floats.Sum(absent[s])
	}

	return b, nil
}

// Presence returns P(term present|c) and whether term is in the vocabulary
func (b *Bernoulli) Presence(term string, c corpus.Class) (float64, bool) {
	p, ok := b.present[term]
	return p[corpus.SlotOf(c)], ok
}

// Scores returns log P(c) plus the log-likelihood of the document's
// presence vector over the whole vocabulary
func (b *Bernoulli) Scores(doc corpus.Document) [corpus.NumSlots]float64 {
	var scores [corpus.NumSlots]float64
	for s := range scores {
		scores[s] = b.logPrior[s] + b.absent[s]
	}

	for _, term := range doc.Distinct() {
		d, ok := b.delta[term]
		if !ok {
			continue
		}
		for s := range scores {
			scores[s] += d[s]
		}
	}
	return scores
}

// VocabularyScores computes the same scores as Scores by visiting every
// vocabulary term. It is slower and kept for verification.
func (b *Bernoulli) VocabularyScores(doc corpus.Document) [corpus.NumSlots]float64 {
	inDoc := make(map[string]struct{}, len(doc.Terms))
	for _, term := range doc.Terms {
		inDoc[term] = struct{}{}
	}

	scores := b.logPrior
	for _, term := range b.vocab {
		p := b.present[term]
		_, ok := inDoc[term]
		for s := range scores {
			if ok {
				scores[s] += math.Log(p[s])
			} else {
				scores[s] += math.Log(1 - p[s])
			}
		}
	}
	return scores
}

// Classify returns the class with the higher score, +1 on ties
func (b *Bernoulli) Classify(doc corpus.Document) corpus.Class {
	return argmax(b.Scores(doc))
}
