package models

import "time"

// TemperatureResult is a single aggregated temperature
type TemperatureResult struct {
	Value float64
}

// HottestDayResult is the row holding the highest temperature
type HottestDayResult struct {
	Date        time.Time
	Temperature float64
}

// HottestMonthResult is the month whose maximum is the highest of the year
type HottestMonthResult struct {
	Month       int
	Temperature float64
}

// ColdJanuaryResult combines the January minimum and the cold verdict
type ColdJanuaryResult struct {
	Minimum   float64
	Average   float64
	Threshold float64
	Cold      bool
}

// Relation orders two yearly averages
type Relation int

const (
	Equal Relation = iota
	Greater
	Less
)

// Word returns the Portuguese relational word used in answers
func (r Relation) Word() string {
	switch r {
	case Greater:
		return "maior"
	case Less:
		return "menor"
	default:
		return "igual"
	}
}

// ComparisonResult holds two independent yearly averages
type ComparisonResult struct {
	Year1    int
	Average1 float64
	Year2    int
	Average2 float64
}

// Difference is Average1 - Average2
func (c ComparisonResult) Difference() float64 {
	return c.Average1 - c.Average2
}

// Relation compares Average1 with Average2 using exact equality
func (c ComparisonResult) Relation() Relation {
	switch {
	case c.Average1 > c.Average2:
		return Greater
	case c.Average1 < c.Average2:
		return Less
	default:
		return Equal
	}
}
