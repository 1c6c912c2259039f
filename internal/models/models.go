package models

import "time"

// Record is a single weather observation after normalization
type Record struct {
	Date           time.Time `json:"date"`
	Year           int       `json:"year"`
	Month          int       `json:"month"` // 1-12
	Temperature    float64   `json:"temperature"`
	HasTemperature bool      `json:"has_temperature"`
	Source         string    `json:"source"`
}

// Table is the unified view over one or more year partitions
type Table struct {
	Columns []string
	Records []Record
}

// Len returns the number of rows in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// FilterMonth returns the rows observed in the given month
func (t *Table) FilterMonth(month int) *Table {
	return t.filter(func(r Record) bool { return r.Month == month })
}

// FilterYears returns the rows whose year lies in [start, end]
func (t *Table) FilterYears(start, end int) *Table {
	return t.filter(func(r Record) bool { return r.Year >= start && r.Year <= end })
}

func (t *Table) filter(keep func(Record) bool) *Table {
	out := &Table{Columns: t.Columns}
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Append adds the rows and any new columns of other to t
func (t *Table) Append(other *Table) {
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		seen[c] = true
	}
	for _, c := range other.Columns {
		if !seen[c] {
			seen[c] = true
			t.Columns = append(t.Columns, c)
		}
	}
	t.Records = append(t.Records, other.Records...)
}
