package core

// parse.go is the tabular parsing adapter: it turns a raw comma-delimited
// payload into ordered rows of column-name/value pairs.
//
// The first line is always the header. Each data row keeps its 1-based
// source line number so error messages can point the operator at the
// offending line of the pasted text; the header counts as line 1, so the
// first data row reports as row 2.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Row is one parsed data line: its source line number plus the raw cell
// value for each header column. Missing trailing cells map to "".
type Row struct {
	Line   int
	Fields map[string]string
}

// ParseError indicates the payload could not be split into at least a
// header line.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse table: " + e.Reason
}

// ParseTable parses a raw tabular payload into a normalized header and
// ordered data rows. It is a pure function of its input: identical text
// always yields identical output.
func ParseTable(raw string) ([]string, []Row, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil, &ParseError{Reason: "input is empty"}
	}

	records, err := readCSV(raw)
	if err != nil {
		return nil, nil, &ParseError{Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, nil, &ParseError{Reason: "input has no header line"}
	}

	header := make([]string, len(records[0].cells))
	for i, h := range records[0].cells {
		header[i] = strings.ToLower(CleanCell(h))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRecord(record.cells) {
			continue
		}
		fields := make(map[string]string, len(header))
		for j, name := range header {
			if name == "" {
				continue
			}
			if j < len(record.cells) {
				fields[name] = CleanCell(record.cells[j])
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, Row{Line: record.line, Fields: fields})
	}

	return header, rows, nil
}

// csvRecord is one raw CSV record with the source line its first field
// starts on.
type csvRecord struct {
	line  int
	cells []string
}

// readCSV parses the payload with lenient quoting and ragged rows allowed.
// Column-count problems surface later as missing-field validation errors
// rather than aborting the whole parse.
//
// Records are read one at a time so each keeps its real source line; the
// reader drops blank lines, so indexing into the record slice would
// misnumber everything after one.
func readCSV(raw string) ([]csvRecord, error) {
	data := sanitizeUTF8([]byte(raw))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records []csvRecord
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed input: %w", err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, csvRecord{line: line, cells: cells})
	}
	return records, nil
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so downstream string handling stays well-formed.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
