package datastore

import "strings"

var columnReplacer = strings.NewReplacer(" ", "_", "(", "", ")", "")

// NormalizeColumn trims and lowercases a header, turns spaces into
// underscores and drops parentheses. Normalizing twice changes nothing.
func NormalizeColumn(name string) string {
	return columnReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// NormalizeColumns normalizes every header of a file
func NormalizeColumns(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeColumn(n)
	}
	return out
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
