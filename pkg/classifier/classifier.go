// Package classifier implements the Naive Bayes models and the baselines
// that are scored against a frequency table.
package classifier

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/zpam/nbeval/pkg/corpus"
)

var (
	// ErrEmptyTable is returned when a model needs at least one term
	ErrEmptyTable = errors.New("frequency table is empty")
	// ErrEmptyTrainingSet is returned when the class totals are both zero
	ErrEmptyTrainingSet = errors.New("training set has no documents")
)

// Classifier predicts the class of a document. Implementations are
// immutable once constructed and safe for concurrent use.
type Classifier interface {
	Classify(doc corpus.Document) corpus.Class
}

// Scorer is a classifier that exposes its per-class scores in slot order
type Scorer interface {
	Classifier
	Scores(doc corpus.Document) [corpus.NumSlots]float64
}

// argmax picks the slot with the highest score; the first slot wins ties
func argmax(scores [corpus.NumSlots]float64) corpus.Class {
	return corpus.ClassAt(corpus.Slot(floats.MaxIdx(scores[:])))
}
