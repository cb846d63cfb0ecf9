package learning

import (
	"strings"

	"github.com/zpam/nbeval/pkg/corpus"
)

// Mode selects how term occurrences are counted
type Mode int

const (
	// TermFrequency counts every occurrence of a term
	TermFrequency Mode = iota
	// DocumentFrequency counts a term at most once per document
	DocumentFrequency
)

func (m Mode) String() string {
	if m == DocumentFrequency {
		return "df"
	}
	return "tf"
}

// TermFilter decides whether a term is counted. A nil filter keeps every term.
type TermFilter func(term string) bool

// ExcludeHyphenated rejects any term containing a hyphen
func ExcludeHyphenated(term string) bool {
	return !strings.Contains(term, "-")
}

// Builder accumulates a frequency table one document at a time
type Builder struct {
	mode   Mode
	filter TermFilter
	table  *FrequencyTable
	totals ClassTotals
	docs   int
}

// NewBuilder creates a builder for the given mode and optional filter
func NewBuilder(mode Mode, filter TermFilter) *Builder {
	return &Builder{
		mode:   mode,
		filter: filter,
		table:  NewFrequencyTable(),
	}
}

// Add counts the terms of one document
func (b *Builder) Add(doc corpus.Document) {
	slot := doc.Slot()
	b.totals[slot]++
	b.docs++

	var seen map[string]struct{}
	if b.mode == DocumentFrequency {
		seen = make(map[string]struct{}, len(doc.Terms))
	}

	for _, term := range doc.Terms {
		if b.filter != nil && !b.filter(term) {
			continue
		}
		if seen != nil {
			if _, counted := seen[term]; counted {
				continue
			}
			seen[term] = struct{}{}
		}
		b.table.increment(term, slot)
	}
}

// Table returns the table built so far. The builder must not be used
// after the table has been handed to a classifier.
func (b *Builder) Table() *FrequencyTable {
	return b.table
}

// Totals returns the per-class document counts seen so far
func (b *Builder) Totals() ClassTotals {
	return b.totals
}

// Documents returns the number of documents added
func (b *Builder) Documents() int {
	return b.docs
}

// Build counts every document into a new table
func Build(docs []corpus.Document, mode Mode, filter TermFilter) *FrequencyTable {
	b := NewBuilder(mode, filter)
	for _, doc := range docs {
		b.Add(doc)
	}
	return b.Table()
}

// CountClasses returns the number of documents per class slot
func CountClasses(docs []corpus.Document) ClassTotals {
	var totals ClassTotals
	for _, doc := range docs {
		totals[doc.Slot()]++
	}
	return totals
}
