// Package ingest turns uploaded activity CSV exports into validated
// transactions and persists them in bulk.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Column names as they appear in the export header. Matching is
// case-sensitive after trimming surrounding whitespace.
const (
	ColTransactionDate = "Transaction Date"
	ColPostDate        = "Post Date"
	ColDescription     = "Description"
	ColCategory        = "Category"
	ColType            = "Type"
	ColAmount          = "Amount"
	ColMemo            = "Memo"
)

var requiredColumns = []string{
	ColTransactionDate,
	ColPostDate,
	ColDescription,
	ColCategory,
	ColType,
	ColAmount,
	ColMemo,
}

// Row is one data record keyed by header name.
type Row map[string]string

// RowReader streams header-mapped rows from a CSV document. The first record
// is the header; every later record maps positionally onto it.
type RowReader struct {
	r      *csv.Reader
	header []string
	line   int
}

// NewRowReader reads the header record and verifies every required column is
// present.
func NewRowReader(src io.Reader) (*RowReader, error) {
	r := csv.NewReader(src)
	// Rows are validated against the header individually so one malformed
	// record does not abort the whole stream.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty document")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for _, col := range requiredColumns {
		if !contains(header, col) {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	return &RowReader{r: r, header: header, line: 1}, nil
}

// Next returns the next data row, or io.EOF when the stream is exhausted. A
// row whose field count does not match the header yields an error for that
// row only; the caller may keep iterating.
func (rr *RowReader) Next() (Row, error) {
	record, err := rr.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	rr.line++
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", rr.line, err)
	}
	if len(record) != len(rr.header) {
		return nil, fmt.Errorf("line %d: %d fields, header has %d", rr.line, len(record), len(rr.header))
	}

	row := make(Row, len(rr.header))
	for i, name := range rr.header {
		row[name] = record[i]
	}
	return row, nil
}

// Line reports the line number of the most recently returned row.
func (rr *RowReader) Line() int { return rr.line }

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
