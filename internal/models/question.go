package models

import "time"

// Intent is the classified type of a question
type Intent int

const (
	Unrecognized Intent = iota
	HottestDay
	MonthlyAverage
	YearlyAverage
	ColdJanuary
	CompareYears
	HottestMonth
	MaxInPeriod
)

var intentNames = map[Intent]string{
	Unrecognized:   "unrecognized",
	HottestDay:     "hottest_day",
	MonthlyAverage: "monthly_average",
	YearlyAverage:  "yearly_average",
	ColdJanuary:    "cold_january",
	CompareYears:   "compare_years",
	HottestMonth:   "hottest_month",
	MaxInPeriod:    "max_in_period",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unrecognized"
}

// YearRange is an inclusive span of years
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Params holds what was extracted from a question. Every field is optional.
type Params struct {
	Years []int      `json:"years,omitempty"` // order of appearance
	Range *YearRange `json:"range,omitempty"`
	Month int        `json:"month,omitempty"` // 0 when absent
}

// Year returns the first year mentioned
func (p Params) Year() (int, bool) {
	if len(p.Years) == 0 {
		return 0, false
	}
	return p.Years[0], true
}

// YearPair returns the first two years mentioned, for comparisons
func (p Params) YearPair() (int, int, bool) {
	if len(p.Years) < 2 {
		return 0, 0, false
	}
	return p.Years[0], p.Years[1], true
}

// HasMonth reports whether a month was extracted
func (p Params) HasMonth() bool {
	return p.Month >= 1 && p.Month <= 12
}

// QuestionEntry is an answered question as journaled and stored
type QuestionEntry struct {
	ID       int64     `json:"id"`
	AskedAt  time.Time `json:"asked_at"`
	Question string    `json:"question"`
	Intent   string    `json:"intent"`
	Mode     string    `json:"mode"` // "rules" or "llm"
	Answer   string    `json:"answer"`
	Error    string    `json:"error,omitempty"`
}
