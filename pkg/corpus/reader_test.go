package corpus

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotMapping(t *testing.T) {
	assert.Equal(t, PositiveSlot, SlotOf(Positive))
	assert.Equal(t, NegativeSlot, SlotOf(Negative))
	assert.Equal(t, Positive, ClassAt(PositiveSlot))
	assert.Equal(t, Negative, ClassAt(NegativeSlot))

	for s, c := range Classes {
		assert.Equal(t, Slot(s), SlotOf(c))
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		label   Class
		terms   []string
		wantErr bool
	}{
		{name: "positive", line: "1 buy now", label: Positive, terms: []string{"buy", "now"}},
		{name: "explicit plus", line: "+1 buy", label: Positive, terms: []string{"buy"}},
		{name: "negative with repeats", line: "-1 hello hello world", label: Negative, terms: []string{"hello", "hello", "world"}},
		{name: "trailing newline and tabs", line: "-1\thello  world\n", label: Negative, terms: []string{"hello", "world"}},
		{name: "non-integer label", line: "spam buy now", wantErr: true},
		{name: "unknown label", line: "0 buy", wantErr: true},
		{name: "no terms", line: "1", wantErr: true},
		{name: "empty", line: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseLine(tt.line)
			if tt.wantErr {
				var fe *FormatError
				require.Error(t, err)
				assert.True(t, errors.As(err, &fe), "expected FormatError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, doc.Label)
			assert.Equal(t, tt.terms, doc.Terms)
		})
	}
}

func TestReaderSkipsBlankLinesAndReportsPosition(t *testing.T) {
	input := "1 buy now\n\n-1 hello world\n1\n"
	r := NewReader(strings.NewReader(input), "train.txt")

	doc, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Positive, doc.Label)

	doc, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, Negative, doc.Label)

	_, err = r.Next()
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "train.txt", fe.Source)
	assert.Equal(t, 4, fe.Line)
	assert.Contains(t, err.Error(), "train.txt:4")
}

func TestReadAllAdmitsNoPartialResult(t *testing.T) {
	r := NewReader(strings.NewReader("1 a b\nx c d\n-1 e\n"), "bad")
	docs, err := r.ReadAll()
	assert.Error(t, err)
	assert.Nil(t, docs)
}

func TestReaderEOF(t *testing.T) {
	r := NewReader(strings.NewReader("1 a\n"), "one")
	_, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 buy now\n-1 hello world\n"), 0644))

	docs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []string{"hello", "world"}, docs[1].Terms)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDocumentHelpers(t *testing.T) {
	doc := NewDocument(Negative, "a", "b", "a", "c", "b")

	assert.Equal(t, NegativeSlot, doc.Slot())
	assert.True(t, doc.Contains("c"))
	assert.False(t, doc.Contains("d"))
	assert.Equal(t, []string{"a", "b", "c"}, doc.Distinct())
	assert.Equal(t, map[string]int{"a": 2, "b": 2, "c": 1}, doc.Counts())
}
