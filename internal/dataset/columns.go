package dataset

import (
	"fmt"
	"strings"

	"fundview/pkg/contracts/domain"
)

// symbolValues are the cell values that make up a currency symbol column.
var symbolValues = map[string]bool{"$": true, "USD": true, "US$": true, "": true}

// headerMap is the canonical sheet layout: source header to table column.
var headerMap = []struct {
	header string
	column string
}{
	{"Year", domain.ColumnYear},
	{"Number of Funds", domain.ColumnNumberOfFunds},
	{"Total Amount", domain.ColumnAmountClosed},
	{"Average Fund Size", domain.ColumnAverageFundSize},
}

// headerAliases are further exact header names accepted per table column.
var headerAliases = map[string][]string{
	domain.ColumnAmountClosed: {"Amount Closed"},
}

// column is one sheet column below the header row.
type column struct {
	index  int // 0-based position in the sheet
	header string
	cells  []string
}

// blank reports whether every data cell is empty.
func (c column) blank() bool {
	for _, v := range c.cells {
		if v != "" {
			return false
		}
	}
	return true
}

// symbolOnly reports whether the column's non-empty cells all trim to the
// same currency symbol (or to nothing).
func (c column) symbolOnly() bool {
	distinct := ""
	seen := false
	for _, v := range c.cells {
		if v == "" {
			continue
		}
		t := strings.TrimSpace(v)
		if !seen {
			distinct, seen = t, true
			continue
		}
		if t != distinct {
			return false
		}
	}
	return seen && symbolValues[distinct]
}

// buildColumns transposes rows into columns. Short rows are padded.
func buildColumns(headers []string, rows [][]string) []column {
	width := len(headers)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	cols := make([]column, width)
	for i := range cols {
		cols[i].index = i
		if i < len(headers) {
			cols[i].header = strings.TrimSpace(headers[i])
		}
		cols[i].cells = make([]string, len(rows))
		for j, r := range rows {
			if i < len(r) {
				cols[i].cells[j] = r[i]
			}
		}
	}
	return cols
}

// pruneColumns drops blank and symbol-only columns, keeping order.
func pruneColumns(cols []column) (kept []column, dropped []string) {
	kept = make([]column, 0, len(cols))
	for _, c := range cols {
		if c.blank() || c.symbolOnly() {
			dropped = append(dropped, c.label())
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

// label names a column for logs and metadata.
func (c column) label() string {
	if c.header != "" {
		return c.header
	}
	return fmt.Sprintf("Unnamed: %d", c.index)
}

// mapping is the chosen source column per table column.
type mapping struct {
	strategy domain.MappingStrategy
	columns  map[string]column
}

func (m mapping) sourceColumns() map[string]string {
	out := make(map[string]string, len(m.columns))
	for name, c := range m.columns {
		out[name] = c.label()
	}
	return out
}

// mapColumns locates the four table columns, trying exact header names,
// then keywords, then position. Headed is false for sheets whose first row
// is already data; those go straight to positional mapping.
func mapColumns(cols []column, headed bool) (mapping, error) {
	if headed {
		if m, ok := mapExact(cols); ok {
			return m, nil
		}
		if m, ok := mapFuzzy(cols); ok {
			return m, nil
		}
	}
	return mapPositional(cols)
}

func mapExact(cols []column) (mapping, bool) {
	byHeader := make(map[string]column, len(cols))
	for _, c := range cols {
		if _, dup := byHeader[c.header]; !dup && c.header != "" {
			byHeader[c.header] = c
		}
	}

	m := mapping{strategy: domain.MappingExact, columns: make(map[string]column, len(headerMap))}
	for _, hm := range headerMap {
		c, ok := byHeader[hm.header]
		if !ok {
			for _, alias := range headerAliases[hm.column] {
				if c, ok = byHeader[alias]; ok {
					break
				}
			}
		}
		if !ok {
			return mapping{}, false
		}
		m.columns[hm.column] = c
	}
	return m, true
}

// fuzzyRules are tried in order; each header is claimed at most once.
var fuzzyRules = []struct {
	column string
	match  func(h string) bool
}{
	{domain.ColumnYear, func(h string) bool {
		return strings.Contains(h, "year")
	}},
	{domain.ColumnNumberOfFunds, func(h string) bool {
		return containsAny(h, "number", "count", "#", "no.") && strings.Contains(h, "fund")
	}},
	{domain.ColumnAverageFundSize, func(h string) bool {
		return containsAny(h, "average", "avg", "mean", "size")
	}},
	{domain.ColumnAmountClosed, func(h string) bool {
		return containsAny(h, "amount", "total", "capital", "raised", "closed") &&
			!containsAny(h, "average", "avg", "mean", "size")
	}},
}

func mapFuzzy(cols []column) (mapping, bool) {
	m := mapping{strategy: domain.MappingFuzzy, columns: make(map[string]column, len(fuzzyRules))}
	used := make(map[int]bool, len(fuzzyRules))

	for _, rule := range fuzzyRules {
		found := false
		for _, c := range cols {
			if used[c.index] || c.header == "" {
				continue
			}
			if rule.match(strings.ToLower(c.header)) {
				m.columns[rule.column] = c
				used[c.index] = true
				found = true
				break
			}
		}
		if !found {
			return mapping{}, false
		}
	}
	return m, true
}

func mapPositional(cols []column) (mapping, error) {
	if len(cols) < len(domain.Columns) {
		return mapping{}, fmt.Errorf("%w: found %d", ErrTooFewColumns, len(cols))
	}
	m := mapping{strategy: domain.MappingPositional, columns: make(map[string]column, len(domain.Columns))}
	for i, name := range domain.Columns {
		m.columns[name] = cols[i]
	}
	return m, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
