// Package analysis computes the temperature statistics behind each answer.
//
// The free functions in stats.go are pure and work on an already loaded
// table. Analyzer binds them to a datastore.Loader; every method loads its
// own slice of the dataset.
package analysis

import (
	"clima/internal/datastore"
	"clima/internal/models"
	"fmt"
)

// DefaultColdThreshold is the January average (°C) under which January counts as cold
const DefaultColdThreshold = 20.0

// Analyzer answers the aggregation questions over a loader
type Analyzer struct {
	loader        datastore.Loader
	coldThreshold float64
}

// NewAnalyzer creates an analyzer. A zero threshold uses DefaultColdThreshold.
func NewAnalyzer(loader datastore.Loader, coldThreshold float64) *Analyzer {
	if coldThreshold == 0 {
		coldThreshold = DefaultColdThreshold
	}
	return &Analyzer{
		loader:        loader,
		coldThreshold: coldThreshold,
	}
}

// MaxTemperature returns the highest temperature of the year
func (a *Analyzer) MaxTemperature(year int) (models.TemperatureResult, error) {
	table, err := a.loader.LoadYear(year)
	if err != nil {
		return models.TemperatureResult{}, err
	}
	v, err := Max(table)
	if err != nil {
		return models.TemperatureResult{}, fmt.Errorf("%w in %d", err, year)
	}
	return models.TemperatureResult{Value: v}, nil
}

// MonthlyAverage returns the mean temperature of one month of the year
func (a *Analyzer) MonthlyAverage(year, month int) (models.TemperatureResult, error) {
	table, err := a.loader.LoadYear(year)
	if err != nil {
		return models.TemperatureResult{}, err
	}
	v, err := Mean(table.FilterMonth(month))
	if err != nil {
		return models.TemperatureResult{}, fmt.Errorf("%w in %02d/%d", err, month, year)
	}
	return models.TemperatureResult{Value: v}, nil
}

// ColdJanuary returns the lowest January temperature of the year
func (a *Analyzer) ColdJanuary(year int) (models.TemperatureResult, error) {
	table, err := a.loader.LoadYear(year)
	if err != nil {
		return models.TemperatureResult{}, err
	}
	v, err := Min(table.FilterMonth(1))
	if err != nil {
		return models.TemperatureResult{}, fmt.Errorf("%w in 01/%d", err, year)
	}
	return models.TemperatureResult{Value: v}, nil
}

// HottestDayOfYear returns the date and value of the highest temperature
func (a *Analyzer) HottestDayOfYear(year int) (models.HottestDayResult, error) {
	table, err := a.loader.LoadYear(year)
	if err != nil {
		return models.HottestDayResult{}, err
	}
	r, err := HottestRecord(table)
	if err != nil {
		return models.HottestDayResult{}, fmt.Errorf("%w in %d", err, year)
	}
	return models.HottestDayResult{Date: r.Date, Temperature: r.Temperature}, nil
}

// HottestMonth returns the month holding the year's highest monthly maximum
func (a *Analyzer) HottestMonth(year int) (models.HottestMonthResult, error) {
	table, err := a.loader.LoadYear(year)
	if err != nil {
		return models.HottestMonthResult{}, err
	}
	result, err := HottestMonth(table)
	if err != nil {
		return models.HottestMonthResult{}, fmt.Errorf("%w in %d", err, year)
	}
	return result, nil
}

// MaxInPeriod loads the whole dataset and returns the highest temperature
// of the years in [start, end]
func (a *Analyzer) MaxInPeriod(start, end int) (models.TemperatureResult, error) {
	if start > end {
		start, end = end, start
	}
	table, err := a.loader.LoadAll()
	if err != nil {
		return models.TemperatureResult{}, err
	}
	v, err := Max(table.FilterYears(start, end))
	if err != nil {
		return models.TemperatureResult{}, fmt.Errorf("%w between %d and %d", err, start, end)
	}
	return models.TemperatureResult{Value: v}, nil
}

// AverageTemperature returns the mean temperature of the year
func (a *Analyzer) AverageTemperature(year int) (models.TemperatureResult, error) {
	table, err := a.loader.LoadYear(year)
	if err != nil {
		return models.TemperatureResult{}, err
	}
	v, err := Mean(table)
	if err != nil {
		return models.TemperatureResult{}, fmt.Errorf("%w in %d", err, year)
	}
	return models.TemperatureResult{Value: v}, nil
}

// CompareYears computes the two yearly averages independently
func (a *Analyzer) CompareYears(year1, year2 int) (models.ComparisonResult, error) {
	avg1, err := a.AverageTemperature(year1)
	if err != nil {
		return models.ComparisonResult{}, err
	}
	avg2, err := a.AverageTemperature(year2)
	if err != nil {
		return models.ComparisonResult{}, err
	}
	return models.ComparisonResult{
		Year1:    year1,
		Average1: avg1.Value,
		Year2:    year2,
		Average2: avg2.Value,
	}, nil
}

// IsJanuaryCold reports whether the January average is below the threshold
func (a *Analyzer) IsJanuaryCold(year int) (bool, float64, error) {
	avg, err := a.MonthlyAverage(year, 1)
	if err != nil {
		return false, 0, err
	}
	return avg.Value < a.coldThreshold, avg.Value, nil
}

// ColdJanuaryReport combines the January minimum with the cold verdict
func (a *Analyzer) ColdJanuaryReport(year int) (models.ColdJanuaryResult, error) {
	min, err := a.ColdJanuary(year)
	if err != nil {
		return models.ColdJanuaryResult{}, err
	}
	cold, avg, err := a.IsJanuaryCold(year)
	if err != nil {
		return models.ColdJanuaryResult{}, err
	}
	return models.ColdJanuaryResult{
		Minimum:   min.Value,
		Average:   avg,
		Threshold: a.coldThreshold,
		Cold:      cold,
	}, nil
}
