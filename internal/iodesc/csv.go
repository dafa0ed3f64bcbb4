package iodesc

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
)

var bom = []byte("\xEF\xBB\xBF")

// table is a CSV file with a header line.
type table struct {
	path   string
	header []string
	index  map[string]int
	rows   [][]string
}

// readCSV reads a spreadsheet export. Line endings are normalized to LF
// and a leading UTF-8 byte order mark is dropped.
func readCSV(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	data = bytes.TrimPrefix(data, bom)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, ReadError(path, err)
	}

	res := &table{path: path, index: make(map[string]int)}
	if len(records) == 0 {
		return res, nil
	}
	res.header = records[0]
	for i, v := range res.header {
		v = strings.TrimSpace(v)
		if _, ok := res.index[v]; !ok && v != "" {
			res.index[v] = i
		}
	}
	res.rows = records[1:]
	return res, nil
}

func (t *table) has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// get returns the trimmed value of a column, or an empty string when
// the row is short or the column is absent.
func (t *table) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// raw returns the value of a column as it is.
func (t *table) raw(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
