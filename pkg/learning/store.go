package learning

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/zpam/nbeval/pkg/corpus"
)

// Table names used by the CLI
const (
	TermFrequencyTable     = "tf"
	DocumentFrequencyTable = "df"
)

// CSVHeader is the first row of a persisted table
var CSVHeader = []string{"term", "class 1 frequency", "class -1 frequency"}

// TableStore persists frequency tables by name
type TableStore interface {
	Save(ctx context.Context, name string, table *FrequencyTable) error
	Load(ctx context.Context, name string) (*FrequencyTable, error)
}

// MissingModelError is returned when a table that a classifier needs has
// not been built
type MissingModelError struct {
	Name     string
	Location string
	Err      error
}

func (e *MissingModelError) Error() string {
	msg := "frequency table " + strconv.Quote(e.Name) + " not found"
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + " (build it first)"
}

func (e *MissingModelError) Unwrap() error {
	return e.Err
}

// WriteCSV writes the table with its header row, in table order
func WriteCSV(w io.Writer, table *FrequencyTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	var werr error
	table.Each(func(term string, c Counts) {
		if werr != nil {
			return
		}
		werr = cw.Write([]string{
			term,
			strconv.Itoa(c[corpus.PositiveSlot]),
			strconv.Itoa(c[corpus.NegativeSlot]),
		})
	})
	if werr != nil {
		return errors.Wrap(werr, "failed to write row")
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush table")
}

// ReadCSV reads a table written by WriteCSV
func ReadCSV(r io.Reader) (*FrequencyTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.New("table has no header row")
		}
		return nil, errors.Wrap(err, "failed to read header")
	}

	table := NewFrequencyTable()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read row")
		}

		var c Counts
		for s := range c {
			n, err := strconv.Atoi(row[s+1])
			if err != nil || n < 0 {
				line, _ := cr.FieldPos(0)
				return nil, errors.Errorf("line %d: invalid count %q for term %q", line, row[s+1], row[0])
			}
			c[s] = n
		}
		table.Set(row[0], c)
	}
}

// FileStore keeps tables as <Dir>/<name>.csv
type FileStore struct {
	Dir string
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{Dir: dir}
}

// Path returns the file backing the named table
func (fs *FileStore) Path(name string) string {
	return filepath.Join(fs.Dir, name+".csv")
}

// Save writes the table, replacing any previous version
func (fs *FileStore) Save(ctx context.Context, name string, table *FrequencyTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(fs.Dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create table directory")
	}

	path := fs.Path(name)
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create table file")
	}

	if err := WriteCSV(file, table); err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return errors.Wrap(file.Close(), "failed to close table file")
}

// Load reads the named table
func (fs *FileStore) Load(ctx context.Context, name string) (*FrequencyTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := fs.Path(name)
	file, err := os.Open(path)
	if err != nil {
		return nil, &MissingModelError{Name: name, Location: path, Err: err}
	}
	defer file.Close()

	table, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return table, nil
}

var _ TableStore = (*FileStore)(nil)
var _ TableStore = (*RedisStore)(nil)
