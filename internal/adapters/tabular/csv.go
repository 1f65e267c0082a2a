// Package tabular parses uploaded review files into a domain.Table.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"insightify/internal/domain"
)

// naTokens are the cell values read as missing, matching the usual
// spreadsheet/pandas defaults.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func IsMissing(v string) bool {
	_, ok := naTokens[v]
	return ok
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a CSV stream with a header row.
func ReadCSV(r io.Reader) (*domain.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.MalformedInputError{Reason: "cannot read file", Err: err}
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.MalformedInputError{Reason: "no columns to parse from file"}
	}
	if err != nil {
		return nil, &domain.MalformedInputError{Reason: "cannot parse CSV header", Err: err}
	}

	t := &domain.Table{Columns: mangleDuplicates(header)}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.MalformedInputError{Reason: "cannot parse CSV", Columns: t.Columns, Err: err}
		}
		if len(rec) > len(t.Columns) {
			return nil, &domain.MalformedInputError{
				Reason:  fmt.Sprintf("line %d: expected %d fields, saw %d", line, len(t.Columns), len(rec)),
				Columns: t.Columns,
			}
		}
		row := make([]string, len(t.Columns))
		miss := make([]bool, len(t.Columns))
		for i := range row {
			if i < len(rec) {
				row[i] = rec[i]
			}
			miss[i] = i >= len(rec) || IsMissing(row[i])
		}
		t.Rows = append(t.Rows, row)
		t.Missing = append(t.Missing, miss)
	}
	return t, nil
}

// mangleDuplicates renames repeated headers to name, name.1, name.2, ...
// Blank headers become "Unnamed: <index>".
func mangleDuplicates(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for used[name] {
			seen[h]++
			name = h + "." + strconv.Itoa(seen[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// TextColumns returns the columns holding at least one present value that is
// neither numeric nor boolean, in header order.
func TextColumns(t *domain.Table) []string {
	var out []string
	for c, name := range t.Columns {
		if isTextual(t, c) {
			out = append(out, name)
		}
	}
	return out
}

func isTextual(t *domain.Table, col int) bool {
	for i, row := range t.Rows {
		if t.Missing[i][col] {
			continue
		}
		if !isScalar(row[col]) {
			return true
		}
	}
	return false
}

func isScalar(v string) bool {
	s := strings.TrimSpace(v)
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	switch s {
	case "True", "False", "TRUE", "FALSE", "true", "false":
		return true
	}
	return false
}
