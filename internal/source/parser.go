// Package source discovers and parses line item files.
package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/pilotbudget/internal/model"
)

// ErrNoItems is returned when a source contains no line items.
var ErrNoItems = errors.New("no line items")

// ParseCSV reads "name,amount" rows. A first row whose amount column holds
// no digits is treated as a header. Amounts may use "," or "_" digit
// separators when the field is quoted, e.g. "350,000". Errors name the file
// line, counting comment lines.
func ParseCSV(r io.Reader) (model.LineItemSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var items model.LineItemSet
	first := true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: want name,amount, got %d field(s)", line, len(rec))
		}

		isFirst := first
		first = false
		if isFirst && isHeader(rec[1]) {
			continue
		}

		amount, err := ParseAmount(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, model.LineItem{Name: strings.TrimSpace(rec[0]), Amount: amount})
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return items, nil
}

// isHeader reports whether an amount cell is a column title rather than a
// mistyped number.
func isHeader(cell string) bool {
	return !strings.ContainsAny(cell, "0123456789")
}

// ParseCSVFile opens path and parses it with ParseCSV.
func ParseCSVFile(path string) (model.LineItemSet, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user or the plans dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	items, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// ParseLines reads "name = amount" lines. Blank lines and lines starting
// with "#" are skipped.
func ParseLines(text string) (model.LineItemSet, error) {
	var items model.LineItemSet

	sc := bufio.NewScanner(strings.NewReader(text))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.LastIndex(line, "=")
		if idx < 0 {
			return nil, fmt.Errorf("line %d: want name = amount", n)
		}
		name := strings.TrimSpace(line[:idx])
		if name == "" {
			return nil, fmt.Errorf("line %d: missing name", n)
		}
		amount, err := ParseAmount(line[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		items = append(items, model.LineItem{Name: name, Amount: amount})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return items, nil
}

// ParseAmount parses a whole amount, ignoring "," "_" and space digit separators.
// Negative values parse; the aggregator rejects them.
func ParseAmount(s string) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ',', '_', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if clean == "" {
		return 0, errors.New("empty amount")
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", strings.TrimSpace(s))
	}
	return n, nil
}

// FormatLines renders items in the form ParseLines reads.
func FormatLines(items model.LineItemSet) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s = %d\n", it.Name, it.Amount)
	}
	return b.String()
}
