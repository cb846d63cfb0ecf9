package corpus

import "fmt"

// Class is a binary document label
type Class int

const (
	Positive Class = 1
	Negative Class = -1
)

// Slot is the fixed table/matrix index of a class: 0 for +1, 1 for -1
type Slot int

const (
	PositiveSlot Slot = 0
	NegativeSlot Slot = 1

	NumSlots = 2
)

// Classes lists both classes in slot order
var Classes = [NumSlots]Class{Positive, Negative}

// SlotOf maps a class to its slot. Anything that is not Negative maps to
// the positive slot.
func SlotOf(c Class) Slot {
	if c == Negative {
		return NegativeSlot
	}
	return PositiveSlot
}

// ClassAt is the inverse of SlotOf
func ClassAt(s Slot) Class {
	if s == NegativeSlot {
		return Negative
	}
	return Positive
}

// Valid reports whether c is one of the two labels
func (c Class) Valid() bool {
	return c == Positive || c == Negative
}

func (c Class) String() string {
	switch c {
	case Positive:
		return "1"
	case Negative:
		return "-1"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Document is a labeled sequence of terms
type Document struct {
	Label Class
	Terms []string
}

// NewDocument creates a document, copying the terms
func NewDocument(label Class, terms ...string) Document {
	cp := make([]string, len(terms))
	copy(cp, terms)
	return Document{Label: label, Terms: cp}
}

// Slot returns the slot of the document's label
func (d Document) Slot() Slot {
	return SlotOf(d.Label)
}

// Contains reports whether term occurs anywhere in the document
func (d Document) Contains(term string) bool {
	for _, t := range d.Terms {
		if t == term {
			return true
		}
	}
	return false
}

// Distinct returns the terms with duplicates removed, in first-occurrence order
func (d Document) Distinct() []string {
	seen := make(map[string]struct{}, len(d.Terms))
	out := make([]string, 0, len(d.Terms))
	for _, t := range d.Terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Counts returns the number of occurrences of each term
func (d Document) Counts() map[string]int {
	counts := make(map[string]int, len(d.Terms))
	for _, t := range d.Terms {
		counts[t]++
	}
	return counts
}
