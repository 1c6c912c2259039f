// Package assistant answers Portuguese weather questions with fixed keyword rules.
package assistant

import (
	"clima/internal/analysis"
	"clima/internal/metrics"
	"clima/internal/models"
	"fmt"
	"strings"
	"time"
)

const (
	OutcomeAnswered      = "answered"
	OutcomeMissingParams = "missing_params"
	OutcomeUnrecognized  = "unrecognized"
	OutcomeError         = "error"
)

// Response is a rendered answer plus how the question was understood
type Response struct {
	Intent  models.Intent
	Params  models.Params
	Text    string
	Outcome string
}

// Engine classifies questions and dispatches them to the analyzer.
// It holds no per-question state.
type Engine struct {
	analyzer *analysis.Analyzer
}

// NewEngine creates an engine over an analyzer
func NewEngine(analyzer *analysis.Analyzer) *Engine {
	return &Engine{analyzer: analyzer}
}

// Classify returns the intent and the parameters extracted from a question
func (e *Engine) Classify(question string) (models.Intent, models.Params) {
	q := strings.ToLower(question)
	params := ExtractParams(q)
	r, ok := classify(q)
	if !ok {
		return models.Unrecognized, params
	}
	return r.intent, params
}

// Answer returns the sentence answering question. Data errors are returned
// as errors; unknown questions and missing parameters are not errors.
func (e *Engine) Answer(question string) (string, error) {
	resp, err := e.Respond(question)
	return resp.Text, err
}

// Respond is Answer with the classification details
func (e *Engine) Respond(question string) (Response, error) {
	start := time.Now()
	resp, err := e.respond(question)
	metrics.RecordQuestion(resp.Intent.String(), "rules", resp.Outcome, time.Since(start))
	return resp, err
}

func (e *Engine) respond(question string) (Response, error) {
	q := strings.ToLower(question)
	params := ExtractParams(q)

	r, ok := classify(q)
	if !ok {
		return Response{Intent: models.Unrecognized, Params: params, Text: NotUnderstood, Outcome: OutcomeUnrecognized}, nil
	}

	resp := Response{Intent: r.intent, Params: params}
	if !r.ready(params) {
		resp.Text = r.ask
		resp.Outcome = OutcomeMissingParams
		return resp, nil
	}

	text, err := r.answer(e, params)
	if err != nil {
		resp.Outcome = OutcomeError
		return resp, err
	}
	resp.Text = text
	resp.Outcome = OutcomeAnswered
	return resp, nil
}

func (e *Engine) compareYears(p models.Params) (string, error) {
	y1, y2, _ := p.YearPair()
	c, err := e.analyzer.CompareYears(y1, y2)
	if err != nil {
		return "", err
	}
	connector := "que a"
	if c.Relation() == models.Equal {
		connector = "à"
	}
	return fmt.Sprintf("A temperatura média de %d (%s) foi %s %s de %d (%s).",
		c.Year1, formatTemp(c.Average1), c.Relation().Word(), connector, c.Year2, formatTemp(c.Average2)), nil
}

func (e *Engine) hottestDay(p models.Params) (string, error) {
	year, _ := p.Year()
	d, err := e.analyzer.HottestDayOfYear(year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("O dia mais quente de %d foi %s, com %s.", year, formatDate(d.Date), formatTemp(d.Temperature)), nil
}

func (e *Engine) monthlyAverage(p models.Params) (string, error) {
	year, _ := p.Year()
	avg, err := e.analyzer.MonthlyAverage(year, p.Month)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("A média de temperatura em %s de %d foi de %s.", MonthName(p.Month), year, formatTemp(avg.Value)), nil
}

func (e *Engine) yearlyAverage(p models.Params) (string, error) {
	year, _ := p.Year()
	avg, err := e.analyzer.AverageTemperature(year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("A média de temperatura em %d foi de %s.", year, formatTemp(avg.Value)), nil
}

func (e *Engine) coldJanuary(p models.Params) (string, error) {
	year, _ := p.Year()
	r, err := e.analyzer.ColdJanuaryReport(year)
	if err != nil {
		return "", err
	}
	verdict := "foi frio"
	if !r.Cold {
		verdict = "não foi frio"
	}
	return fmt.Sprintf("A menor temperatura registrada em janeiro de %d foi de %s. Com média de %s, janeiro de %d %s (limite de %s).",
		year, formatTemp(r.Minimum), formatTemp(r.Average), year, verdict, formatTemp(r.Threshold)), nil
}

func (e *Engine) hottestMonth(p models.Params) (string, error) {
	year, _ := p.Year()
	m, err := e.analyzer.HottestMonth(year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("O mês mais quente de %d foi %s, com máxima de %s.", year, MonthName(m.Month), formatTemp(m.Temperature)), nil
}

// maxInPeriod reads the whole dataset for a range; a single year only needs
// its own partition
func (e *Engine) maxInPeriod(p models.Params) (string, error) {
	if p.Range == nil {
		year, _ := p.Year()
		max, err := e.analyzer.MaxTemperature(year)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("A maior temperatura registrada em %d foi de %s.", year, formatTemp(max.Value)), nil
	}

	max, err := e.analyzer.MaxInPeriod(p.Range.Start, p.Range.End)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("A maior temperatura registrada entre %d e %d foi de %s.", p.Range.Start, p.Range.End, formatTemp(max.Value)), nil
}

func formatTemp(v float64) string {
	return fmt.Sprintf("%.2f°C", v)
}

func formatDate(d time.Time) string {
	return d.Format("02/01/2006")
}
