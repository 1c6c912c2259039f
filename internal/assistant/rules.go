package assistant

import (
	"clima/internal/models"
	"regexp"
	"strings"
)

const (
	askYear   = "Por favor, especifique o ano."
	askMonth  = "Por favor, especifique o ano e o mês."
	askYears  = "Por favor, especifique dois anos para comparar."
	askPeriod = "Por favor, especifique o período (por exemplo, 2010 a 2020)."

	// NotUnderstood is returned for questions no rule recognizes
	NotUnderstood = "Pergunta não reconhecida. Por favor, formule a pergunta de forma diferente."
)

var (
	averageWord    = regexp.MustCompile(`\bm[ée]dia`)
	monthWord      = regexp.MustCompile(`\bm[êe]s\b`)
	hottestMonthRe = regexp.MustCompile(`\bm[êe]s mais quente`)
)

// rule maps a keyword predicate to an intent. Rules are evaluated in order
// and the first match wins, so narrower rules must come before the broader
// ones they overlap with ("média"+"mês" before "média").
type rule struct {
	intent  models.Intent
	matches func(q string) bool
	ready   func(p models.Params) bool
	ask     string
	answer  func(e *Engine, p models.Params) (string, error)
}

var rules = []rule{
	{
		intent:  models.CompareYears,
		matches: func(q string) bool { return strings.Contains(q, "compar") },
		ready:   func(p models.Params) bool { return len(p.Years) >= 2 },
		ask:     askYears,
		answer:  (*Engine).compareYears,
	},
	{
		intent:  models.HottestDay,
		matches: func(q string) bool { return strings.Contains(q, "dia mais quente") },
		ready:   hasYear,
		ask:     askYear,
		answer:  (*Engine).hottestDay,
	},
	{
		intent:  models.MonthlyAverage,
		matches: func(q string) bool { return averageWord.MatchString(q) && monthWord.MatchString(q) },
		ready:   func(p models.Params) bool { return len(p.Years) > 0 && p.HasMonth() },
		ask:     askMonth,
		answer:  (*Engine).monthlyAverage,
	},
	{
		intent:  models.YearlyAverage,
		matches: averageWord.MatchString,
		ready:   hasYear,
		ask:     askYear,
		answer:  (*Engine).yearlyAverage,
	},
	{
		intent:  models.ColdJanuary,
		matches: func(q string) bool { return strings.Contains(q, "frio") && strings.Contains(q, "janeiro") },
		ready:   hasYear,
		ask:     askYear,
		answer:  (*Engine).coldJanuary,
	},
	{
		intent:  models.HottestMonth,
		matches: hottestMonthRe.MatchString,
		ready:   hasYear,
		ask:     askYear,
		answer:  (*Engine).hottestMonth,
	},
	{
		intent:  models.MaxInPeriod,
		matches: func(q string) bool { return strings.Contains(q, "maior temperatura registrada") },
		ready:   func(p models.Params) bool { return p.Range != nil || len(p.Years) > 0 },
		ask:     askPeriod,
		answer:  (*Engine).maxInPeriod,
	},
}

func hasYear(p models.Params) bool {
	return len(p.Years) > 0
}

// classify returns the first rule matching the lowercased question
func classify(q string) (rule, bool) {
	for _, r := range rules {
		if r.matches(q) {
			return r, true
		}
	}
	return rule{}, false
}
