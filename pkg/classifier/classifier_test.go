package classifier

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpam/nbeval/pkg/corpus"
	"github.com/zpam/nbeval/pkg/learning"
)

func scenarioDocs() []corpus.Document {
	return []corpus.Document{
		corpus.NewDocument(corpus.Positive, "buy", "now"),
		corpus.NewDocument(corpus.Negative, "hello", "world"),
	}
}

func spamDocs() []corpus.Document {
	lines := []string{
		"1 free money now click here",
		"1 win big prize now free",
		"1 cheap pills buy now",
		"1 free offer click buy",
		"-1 meeting tomorrow project update",
		"-1 weekly report attached please review",
		"-1 lunch tomorrow team",
		"-1 project deadline moved team meeting",
		"-1 please review the report",
	}
	docs := make([]corpus.Document, 0, len(lines))
	for _, l := range lines {
		doc, err := corpus.ParseLine(l)
		if err != nil {
			panic(err)
		}
		docs = append(docs, doc)
	}
	return docs
}

func TestMultinomialScenario(t *testing.T) {
	docs := scenarioDocs()
	table := learning.Build(docs, learning.TermFrequency, nil)
	m, err := NewMultinomial(table, learning.CountClasses(docs), RawProduct)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, m.Prior(corpus.Positive), 1e-12)
	assert.InDelta(t, 0.5, m.Prior(corpus.Negative), 1e-12)

	p, ok := m.Conditional("buy", corpus.Positive)
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, p, 1e-12)
	p, _ = m.Conditional("buy", corpus.Negative)
	assert.InDelta(t, 1.0/3.0, p, 1e-12)

	doc := corpus.NewDocument(corpus.Positive, "buy")
	scores := m.Scores(doc)
	assert.InDelta(t, 1.0/3.0, scores[corpus.PositiveSlot], 1e-12)
	assert.InDelta(t, 1.0/6.0, scores[corpus.NegativeSlot], 1e-12)
	assert.Equal(t, corpus.Positive, m.Classify(doc))
}

func TestMultinomialSkipsUnknownTerms(t *testing.T) {
	docs := scenarioDocs()
	table := learning.Build(docs, learning.TermFrequency, nil)
	m, err := NewMultinomial(table, learning.CountClasses(docs), RawProduct)
	require.NoError(t, err)

	scores := m.Scores(corpus.NewDocument(corpus.Negative, "unseen", "words"))
	assert.InDelta(t, 0.5, scores[corpus.PositiveSlot], 1e-12)
	assert.InDelta(t, 0.5, scores[corpus.NegativeSlot], 1e-12)
	// equal scores go to +1
	assert.Equal(t, corpus.Positive, m.Classify(corpus.NewDocument(corpus.Negative, "unseen")))
}

func TestMultinomialRepeatedTermsRaisePower(t *testing.T) {
	docs := scenarioDocs()
	table := learning.Build(docs, learning.TermFrequency, nil)
	m, err := NewMultinomial(table, learning.CountClasses(docs), RawProduct)
	require.NoError(t, err)

	scores := m.Scores(corpus.NewDocument(corpus.Positive, "buy", "hello", "buy"))
	assert.InDelta(t, 0.5*(2.0/3)*(2.0/3)*(1.0/3), scores[corpus.PositiveSlot], 1e-12)
	assert.InDelta(t, 0.5*(1.0/3)*(1.0/3)*(2.0/3), scores[corpus.NegativeSlot], 1e-12)
}

func TestMultinomialLogSpaceMatchesProduct(t *testing.T) {
	docs := spamDocs()
	table := learning.Build(docs, learning.TermFrequency, nil)
	totals := learning.CountClasses(docs)

	raw, err := NewMultinomial(table, totals, RawProduct)
	require.NoError(t, err)
	logm, err := NewMultinomial(table, totals, LogSpace)
	require.NoError(t, err)

	tests := []string{
		"free money click",
		"project meeting tomorrow",
		"please buy the report now",
		"nothing known here",
	}
	for _, text := range tests {
		doc := corpus.NewDocument(corpus.Positive, strings.Fields(text)...)
		r, l := raw.Scores(doc), logm.Scores(doc)
		for s := range r {
			assert.InDelta(t, math.Log(r[s]), l[s], 1e-9, text)
		}
		assert.Equal(t, raw.Classify(doc), logm.Classify(doc), text)
	}

	assert.Equal(t, corpus.Positive, logm.Classify(corpus.NewDocument(corpus.Positive, "free", "money", "click")))
	assert.Equal(t, corpus.Negative, logm.Classify(corpus.NewDocument(corpus.Negative, "project", "meeting", "tomorrow")))
}

func TestMultinomialLogSpaceSurvivesUnderflow(t *testing.T) {
	docs := []corpus.Document{
		corpus.NewDocument(corpus.Positive, "x", "y"),
		corpus.NewDocument(corpus.Negative, "x", "x", "x", "z"),
	}
	table := learning.Build(docs, learning.TermFrequency, nil)
	totals := learning.CountClasses(docs)

	terms := make([]string, 5000)
	for i := range terms {
		terms[i] = "x"
	}
	long := corpus.NewDocument(corpus.Negative, terms...)

	raw, err := NewMultinomial(table, totals, RawProduct)
	require.NoError(t, err)
	scores := raw.Scores(long)
	assert.Zero(t, scores[corpus.PositiveSlot])
	assert.Zero(t, scores[corpus.NegativeSlot])

	logm, err := NewMultinomial(table, totals, LogSpace)
	require.NoError(t, err)
	assert.Equal(t, corpus.Negative, logm.Classify(long))
}

func TestProbabilitiesStrictlyBetweenZeroAndOne(t *testing.T) {
	docs := spamDocs()
	totals := learning.CountClasses(docs)
	tf := learning.Build(docs, learning.TermFrequency, nil)
	df := learning.Build(docs, learning.DocumentFrequency, nil)

	m, err := NewMultinomial(tf, totals, LogSpace)
	require.NoError(t, err)
	b, err := NewBernoulli(df, totals)
	require.NoError(t, err)

	for _, term := range tf.Terms() {
		for _, c := range corpus.Classes {
			p, ok := m.Conditional(term, c)
			require.True(t, ok)
			assert.Greater(t, p, 0.0)
			assert.Less(t, p, 1.0)

			p, ok = b.Presence(term, c)
			require.True(t, ok)
			assert.Greater(t, p, 0.0)
			assert.Less(t, p, 1.0)
		}
	}
}

func TestEmptyTrainingSet(t *testing.T) {
	table := learning.NewFrequencyTable()

	_, err := NewMultinomial(table, learning.ClassTotals{}, LogSpace)
	assert.True(t, errors.Is(err, ErrEmptyTrainingSet))

	_, err = NewBernoulli(table, learning.ClassTotals{})
	assert.True(t, errors.Is(err, ErrEmptyTrainingSet))
}

func TestBernoulliScenario(t *testing.T) {
	docs := scenarioDocs()
	table := learning.Build(docs, learning.DocumentFrequency, nil)
	b, err := NewBernoulli(table, learning.CountClasses(docs))
	require.NoError(t, err)

	p, _ := b.Presence("buy", corpus.Positive)
	assert.InDelta(t, 2.0/3.0, p, 1e-12)
	p, _ = b.Presence("buy", corpus.Negative)
	assert.InDelta(t, 1.0/3.0, p, 1e-12)

	doc := corpus.NewDocument(corpus.Positive, "buy")
	scores := b.Scores(doc)
	wantPos := math.Log(0.5) + math.Log(2.0/3) + math.Log(1.0/3) + 2*math.Log(2.0/3)
	wantNeg := math.Log(0.5) + math.Log(1.0/3) + math.Log(2.0/3) + 2*math.Log(1.0/3)
	assert.InDelta(t, wantPos, scores[corpus.PositiveSlot], 1e-12)
	assert.InDelta(t, wantNeg, scores[corpus.NegativeSlot], 1e-12)
	assert.Equal(t, corpus.Positive, b.Classify(doc))
	assert.Equal(t, corpus.Negative, b.Classify(corpus.NewDocument(corpus.Negative, "world", "hello", "world")))
}

func TestBernoulliMatchesFullVocabularySum(t *testing.T) {
	docs := spamDocs()
	table := learning.Build(docs, learning.DocumentFrequency, nil)
	b, err := NewBernoulli(table, learning.CountClasses(docs))
	require.NoError(t, err)

	for _, doc := range append(docs, corpus.NewDocument(corpus.Positive, "free", "free", "unseen")) {
		fast, full := b.Scores(doc), b.VocabularyScores(doc)
		for s := range fast {
			assert.InDelta(t, full[s], fast[s], 1e-9)
		}
	}
}

func TestBernoulliScoringHasNoSideEffects(t *testing.T) {
	docs := spamDocs()
	table := learning.Build(docs, learning.DocumentFrequency, nil)
	b, err := NewBernoulli(table, learning.CountClasses(docs))
	require.NoError(t, err)

	probe := corpus.NewDocument(corpus.Negative, "team", "meeting")
	before := b.Scores(probe)
	for _, doc := range docs {
		b.Classify(doc)
	}
	assert.Equal(t, before, b.Scores(probe))
}

func TestBernoulliRejectsInconsistentTotals(t *testing.T) {
	table := learning.NewFrequencyTable()
	table.Set("a", learning.Counts{3, 0})

	_, err := NewBernoulli(table, learning.ClassTotals{1, 1})
	assert.Error(t, err)
}

func TestMajorityPrior(t *testing.T) {
	tests := []struct {
		totals   learning.ClassTotals
		expected corpus.Class
	}{
		{learning.ClassTotals{5, 3}, corpus.Positive},
		{learning.ClassTotals{2, 3}, corpus.Negative},
		{learning.ClassTotals{4, 4}, corpus.Positive},
		{learning.ClassTotals{0, 0}, corpus.Positive},
	}

	for _, tt := range tests {
		mp := NewMajorityPrior(tt.totals)
		assert.Equal(t, tt.expected, mp.Class())
		for _, doc := range spamDocs() {
			assert.Equal(t, tt.expected, mp.Classify(doc))
		}
	}
}

func TestDiscriminatorScenario(t *testing.T) {
	table := learning.NewFrequencyTable()
	table.Set("a", learning.Counts{5, 1})
	table.Set("b", learning.Counts{2, 2})

	d, err := NewDiscriminator(table)
	require.NoError(t, err)
	assert.Equal(t, "a", d.Term())
	assert.Equal(t, -1, d.Direction())

	assert.Equal(t, corpus.Positive, d.Classify(corpus.NewDocument(corpus.Positive, "b", "c")))
	assert.Equal(t, corpus.Negative, d.Classify(corpus.NewDocument(corpus.Positive, "c", "a")))
}

func TestDiscriminatorDirection(t *testing.T) {
	tests := []struct {
		name      string
		counts    learning.Counts
		direction int
		without   corpus.Class
		with      corpus.Class
	}{
		{"diff -5", learning.Counts{5, 0}, -1, corpus.Positive, corpus.Negative},
		{"diff -2", learning.Counts{2, 0}, -1, corpus.Positive, corpus.Negative},
		{"diff -1 degenerates to zero", learning.Counts{1, 0}, 0, corpus.Positive, corpus.Positive},
		{"diff 0", learning.Counts{2, 2}, 1, corpus.Negative, corpus.Positive},
		{"diff 3", learning.Counts{0, 3}, 1, corpus.Negative, corpus.Positive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := learning.NewFrequencyTable()
			table.Set("t", tt.counts)

			d, err := NewDiscriminator(table)
			require.NoError(t, err)
			assert.Equal(t, tt.direction, d.Direction())
			assert.Equal(t, tt.without, d.Classify(corpus.NewDocument(corpus.Positive, "x")))
			assert.Equal(t, tt.with, d.Classify(corpus.NewDocument(corpus.Positive, "x", "t")))
		})
	}
}

func TestDiscriminatorFirstSeenWinsTies(t *testing.T) {
	table := learning.NewFrequencyTable()
	table.Set("low", learning.Counts{1, 1})
	table.Set("x", learning.Counts{3, 0})
	table.Set("y", learning.Counts{0, 3})

	d, err := NewDiscriminator(table)
	require.NoError(t, err)
	assert.Equal(t, "x", d.Term())
	assert.Equal(t, learning.Counts{3, 0}, d.Counts())
}

func TestDiscriminatorEmptyTable(t *testing.T) {
	_, err := NewDiscriminator(learning.NewFrequencyTable())
	assert.Equal(t, ErrEmptyTable, err)
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{-3, 5, -1},
		{0, 2, 0},
		{1, 1, 1},
		{4, 4, 1},
		{-4, 6, -1},
		{7, 2, 3},
		{-7, 2, -4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorDiv(tt.a, tt.b), "%d // %d", tt.a, tt.b)
	}
}

func BenchmarkBernoulliClassify(b *testing.B) {
	docs := spamDocs()
	table := learning.Build(docs, learning.DocumentFrequency, nil)
	model, err := NewBernoulli(table, learning.CountClasses(docs))
	if err != nil {
		b.Fatal(err)
	}
	doc := corpus.NewDocument(corpus.Positive, "free", "money", "project", "review")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = model.Classify(doc)
	}
}

func BenchmarkMultinomialClassify(b *testing.B) {
	docs := spamDocs()
	table := learning.Build(docs, learning.TermFrequency, nil)
	model, err := NewMultinomial(table, learning.CountClasses(docs), LogSpace)
	if err != nil {
		b.Fatal(err)
	}
	doc := corpus.NewDocument(corpus.Positive, "free", "money", "project", "review")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = model.Classify(doc)
	}
}
