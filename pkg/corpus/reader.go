package corpus

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FormatError reports a malformed document line
type FormatError struct {
	Source string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Source == "" {
		return "line " + strconv.Itoa(e.Line) + ": " + e.Reason
	}
	return e.Source + ":" + strconv.Itoa(e.Line) + ": " + e.Reason
}

// ParseLine parses one record: a class label followed by the terms.
// The returned error is a *FormatError without position information.
func ParseLine(line string) (Document, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Document{}, &FormatError{Reason: "empty record"}
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return Document{}, &FormatError{Reason: "non-integer class label " + strconv.Quote(fields[0])}
	}
	label := Class(n)
	if !label.Valid() {
		return Document{}, &FormatError{Reason: "class label must be 1 or -1, got " + fields[0]}
	}
	if len(fields) == 1 {
		return Document{}, &FormatError{Reason: "document has no terms"}
	}

	return Document{Label: label, Terms: fields[1:]}, nil
}

// Reader streams documents from a line-oriented source
type Reader struct {
	scanner *bufio.Scanner
	name    string
	line    int
}

// NewReader wraps r; name is used in error messages
func NewReader(r io.Reader, name string) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{scanner: scanner, name: name}
}

// Next returns the next document, or io.EOF when the source is exhausted.
// Blank lines are skipped.
func (r *Reader) Next() (Document, error) {
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		doc, err := ParseLine(text)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Source = r.name
				fe.Line = r.line
			}
			return Document{}, err
		}
		return doc, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Document{}, errors.Wrapf(err, "failed to read %s", r.name)
	}
	return Document{}, io.EOF
}

// ReadAll reads every remaining document. On error no documents are returned.
func (r *Reader) ReadAll() ([]Document, error) {
	var docs []Document
	for {
		doc, err := r.Next()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

// ReadFile loads every document in the file at path
func ReadFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open data file")
	}
	defer f.Close()

	return NewReader(f, path).ReadAll()
}
