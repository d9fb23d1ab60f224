package opening

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

const (
	nameColumn  = "Opening"
	movesColumn = "moves_list"
)

// Table is an in-memory opening table.
type Table struct {
	names map[string]string
}

func NewTable() *Table {
	return &Table{names: make(map[string]string)}
}

// LoadCSV reads a table with "Opening" and "moves_list" columns. When a key
// appears twice the first row wins.
func LoadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	nameIdx, movesIdx := -1, -1
	for i, col := range header {
		switch col {
		case nameColumn:
			nameIdx = i
		case movesColumn:
			movesIdx = i
		}
	}
	if nameIdx < 0 || movesIdx < 0 {
		return nil, fmt.Errorf("%w: need %q and %q", ErrMissingColumn, nameColumn, movesColumn)
	}

	t := NewTable()
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if nameIdx >= len(row) || movesIdx >= len(row) {
			continue
		}
		if _, dup := t.names[row[movesIdx]]; !dup {
			t.names[row[movesIdx]] = row[nameIdx]
		}
	}
	return t, nil
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *Table) Add(key, name string) {
	t.names[key] = name
}

func (t *Table) Name(notations []string) (string, error) {
	if len(notations) == 0 {
		return StartingPosition, nil
	}
	if name, ok := t.names[Key(notations)]; ok {
		return name, nil
	}
	return "", ErrUnknownOpening
}

func (t *Table) Len() int {
	return len(t.names)
}

// Each visits every entry in key order and stops at the first error.
func (t *Table) Each(fn func(key, name string) error) error {
	keys := make([]string, 0, len(t.names))
	for k := range t.names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn(k, t.names[k]); err != nil {
			return err
		}
	}
	return nil
}
