// Package anki imports vocabulary from Anki "Notes in Plain Text" exports.
//
// An export is a tab separated file that starts with metadata lines
// (#separator:tab, #html:false) followed by one note per line. Fields are
// addressed by position, so a deck with a different note type needs a
// different Columns value.
package anki

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// MetadataLines is the number of header lines Anki writes before the notes.
	MetadataLines = 2
	// MinColumns is the narrowest note row that is imported.
	MinColumns = 15
)

// Columns maps note fields to their zero-based position in a row.
type Columns struct {
	Term        int
	Reading     int
	Pos         int
	Explanation int
	Example     int
}

// DefaultColumns is the layout of the JLPT vocabulary decks.
var DefaultColumns = Columns{
	Term:        1,
	Reading:     2,
	Pos:         3,
	Explanation: 5,
	Example:     10,
}

// Note is one raw row of an export.
type Note struct {
	Line        int
	Term        string
	Reading     string
	Pos         string
	Explanation string
	Example     string
}

// Reader yields notes from an export, skipping the metadata header and rows
// that are too short.
type Reader struct {
	csv     *csv.Reader
	columns Columns
	header  bool
	Skipped int
}

func NewReader(r io.Reader, columns Columns) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{csv: cr, columns: columns}
}

// Next returns the next usable note. It returns io.EOF when the export is
// exhausted.
func (r *Reader) Next() (*Note, error) {
	if !r.header {
		r.header = true
		for i := 0; i < MetadataLines; i++ {
			if _, err := r.csv.Read(); err != nil {
				return nil, r.wrap(err)
			}
		}
	}

	for {
		record, err := r.csv.Read()
		if err != nil {
			return nil, r.wrap(err)
		}
		line, _ := r.csv.FieldPos(0)
		if len(record) < MinColumns {
			r.Skipped++
			continue
		}
		return &Note{
			Line:        line,
			Term:        strings.TrimSpace(record[r.columns.Term]),
			Reading:     strings.TrimSpace(record[r.columns.Reading]),
			Pos:         strings.TrimSpace(record[r.columns.Pos]),
			Explanation: strings.TrimSpace(record[r.columns.Explanation]),
			Example:     strings.TrimSpace(record[r.columns.Example]),
		}, nil
	}
}

func (r *Reader) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("malformed row at line %d: %w", pe.StartLine, pe.Err)
	}
	return fmt.Errorf("failed to read export: %w", err)
}
