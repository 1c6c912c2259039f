package assistant

import (
	"clima/internal/models"
	"regexp"
	"strconv"
)

var (
	yearPattern  = regexp.MustCompile(`\b(\d{4})\b`)
	rangePattern = regexp.MustCompile(`\b(\d{4})\s+(?:a|até|e)\s+(\d{4})\b`)

	// a month number is only trusted after an explicit marker: "mês 3", "mes 03", "3/2020"
	monthMarkerPattern = regexp.MustCompile(`\bm(?:ês|es)\s+(?:de\s+)?(\d{1,2})\b`)
	monthSlashPattern  = regexp.MustCompile(`\b(\d{1,2})/\d{4}\b`)
	monthNamePattern   = regexp.MustCompile(`\b(janeiro|fevereiro|março|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\b`)
)

var monthNames = []string{
	"", "janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var monthByName = map[string]int{"marco": 3}

func init() {
	for i, name := range monthNames {
		if name != "" {
			monthByName[name] = i
		}
	}
}

// MonthName returns the Portuguese name of month (1-12)
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return strconv.Itoa(month)
	}
	return monthNames[month]
}

// ExtractParams pulls years, a year range and a month out of a lowercased question
func ExtractParams(q string) models.Params {
	var p models.Params

	for _, m := range yearPattern.FindAllStringSubmatch(q, -1) {
		year, _ := strconv.Atoi(m[1])
		p.Years = append(p.Years, year)
	}

	if m := rangePattern.FindStringSubmatch(q); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if start > end {
			start, end = end, start
		}
		p.Range = &models.YearRange{Start: start, End: end}
	}

	p.Month = extractMonth(q)
	return p
}

func extractMonth(q string) int {
	for _, re := range []*regexp.Regexp{monthMarkerPattern, monthSlashPattern} {
		if m := re.FindStringSubmatch(q); m != nil {
			if month, err := strconv.Atoi(m[1]); err == nil && month >= 1 && month <= 12 {
				return month
			}
		}
	}
	if m := monthNamePattern.FindStringSubmatch(q); m != nil {
		return monthByName[m[1]]
	}
	return 0
}
