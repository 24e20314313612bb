package importer

import "strings"

type field int

const (
	fieldTitle field = iota
	fieldAmount
	fieldCurrency
	fieldCategory
	fieldDate
	fieldDescription
)

// aliases lists the header names accepted for each column, lower-cased.
var aliases = map[field][]string{
	fieldTitle:       {"title", "name", "merchant", "payee"},
	fieldAmount:      {"amount", "value", "total", "sum"},
	fieldCurrency:    {"currency", "ccy"},
	fieldCategory:    {"category", "category name"},
	fieldDate:        {"date", "spent on", "transaction date"},
	fieldDescription: {"description", "notes", "note", "memo"},
}

var required = []field{fieldTitle, fieldAmount, fieldDate}

// columns maps each recognised field to its index in a row.
type columns map[field]int

// matchHeader returns the column layout of row when it carries every
// required header.
func matchHeader(row []string) (columns, bool) {
	cols := make(columns)

	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}

		for f, names := range aliases {
			if _, taken := cols[f]; taken {
				continue
			}

			for _, alias := range names {
				if name == alias {
					cols[f] = i
				}
			}
		}
	}

	for _, f := range required {
		if _, ok := cols[f]; !ok {
			return nil, false
		}
	}

	return cols, true
}

// value returns the trimmed cell for f, or "" when the column is absent or
// the row is short.
func (c columns) value(row []string, f field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
