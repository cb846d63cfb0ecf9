package classifier

import (
	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/learning"
)

// MajorityPrior predicts the most frequent training class for every document
type MajorityPrior struct {
	class corpus.Class
}

// NewMajorityPrior picks the class with the larger total, +1 on ties
func NewMajorityPrior(totals learning.ClassTotals) *MajorityPrior {
	class := corpus.Positive
	if totals[corpus.NegativeSlot] > totals[corpus.PositiveSlot] {
		class = corpus.Negative
	}
	return &MajorityPrior{class: class}
}

// Class returns the class predicted for every document
func (mp *MajorityPrior) Class() corpus.Class {
	return mp.class
}

// Classify ignores the document
func (mp *MajorityPrior) Classify(corpus.Document) corpus.Class {
	return mp.class
}

// Discriminator predicts from the presence of the single term whose class
// counts differ the most
type Discriminator struct {
	term      string
	counts    learning.Counts
	direction int
}

// NewDiscriminator selects the term maximising |freq(t,+1) - freq(t,-1)|,
// the first such term in table order winning ties.
func NewDiscriminator(table *learning.FrequencyTable) (*Discriminator, error) {
	if table.Len() == 0 {
		return nil, ErrEmptyTable
	}

	var d *Discriminator
	best := -1
	table.Each(func(term string, c learning.Counts) {
		if gap := abs(c[corpus.PositiveSlot] - c[corpus.NegativeSlot]); gap > best {
			best = gap
			d = &Discriminator{term: term, counts: c}
		}
	})

	diff := d.counts[corpus.NegativeSlot] - d.counts[corpus.PositiveSlot]
	d.direction = floorDiv(diff+1, abs(diff)+1)
	return d, nil
}

// Term returns the selected term
func (d *Discriminator) Term() string {
	return d.term
}

// Counts returns the selected term's per-class counts
func (d *Discriminator) Counts() learning.Counts {
	return d.counts
}

// Direction returns (diff+1) floor-divided by (|diff|+1), where diff is
// freq(t,-1) - freq(t,+1). It is 1, 0 or -1.
func (d *Discriminator) Direction() int {
	return d.direction
}

// Classify votes -direction, negated when the term is present. A zero
// vote is a tie and goes to +1.
func (d *Discriminator) Classify(doc corpus.Document) corpus.Class {
	vote := -d.direction
	if doc.Contains(d.term) {
		vote = -vote
	}
	if vote < 0 {
		return corpus.Negative
	}
	return corpus.Positive
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var (
	_ Classifier = (*MajorityPrior)(nil)
	_ Classifier = (*Discriminator)(nil)
	_ Scorer     = (*Multinomial)(nil)
	_ Scorer     = (*Bernoulli)(nil)
)
