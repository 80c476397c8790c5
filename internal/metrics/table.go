// Package metrics reads the artifacts a training run leaves behind: the
// per-epoch results log, the rendered summary plot and the class-wise
// evaluation text.
package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrResultsNotFound = errors.New("results.csv not found in the training output directory")

type Row struct {
	table  *Table
	Values []string
}

// Float parses the cell under column. ok is false when the column is absent;
// err is set when the cell is present but not numeric.
func (r Row) Float(column string) (v float64, ok bool, err error) {
	idx, ok := r.table.index[column]
	if !ok {
		return 0, false, nil
	}

	cell := strings.TrimSpace(r.Values[idx])
	v, err = strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, true, fmt.Errorf("column %q: %w", column, err)
	}
	return v, true, nil
}

// Table is the results log, one row per epoch. Column names are trimmed
// because the framework pads its CSV header.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Last returns the final-epoch row.
func (t *Table) Last() (Row, error) {
	if t == nil || len(t.Rows) == 0 {
		return Row{}, errors.New("metrics table is empty")
	}
	return t.Rows[len(t.Rows)-1], nil
}

func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("results log has no header")
		}
		return nil, err
	}

	t := &Table{
		Columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := strings.TrimSpace(h)
		t.Columns[i] = name
		t.index[name] = i
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read results log: %w", err)
		}
		t.Rows = append(t.Rows, Row{table: t, Values: rec})
	}

	return t, nil
}

// LoadTable parses <runDir>/results.csv. A missing file is reported as
// ErrResultsNotFound.
func LoadTable(runDir string) (*Table, error) {
	f, err := os.Open(filepath.Join(runDir, "results.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrResultsNotFound
		}
		return nil, err
	}
	defer f.Close()

	return ParseTable(f)
}
