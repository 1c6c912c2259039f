package analysis

import (
	"clima/internal/models"
	"errors"
)

// ErrNoObservations is returned when a slice has no row with a temperature
var ErrNoObservations = errors.New("no temperature observations")

// temperatures returns the values of rows that carry a temperature
func temperatures(t *models.Table) []float64 {
	var values []float64
	for _, r := range t.Records {
		if r.HasTemperature {
			values = append(values, r.Temperature)
		}
	}
	return values
}

// Max returns the highest temperature of the table
func Max(t *models.Table) (float64, error) {
	r, err := HottestRecord(t)
	if err != nil {
		return 0, err
	}
	return r.Temperature, nil
}

// Min returns the lowest temperature of the table
func Min(t *models.Table) (float64, error) {
	values := temperatures(t)
	if len(values) == 0 {
		return 0, ErrNoObservations
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}

// Mean returns the average temperature of the table
func Mean(t *models.Table) (float64, error) {
	values := temperatures(t)
	if len(values) == 0 {
		return 0, ErrNoObservations
	}
	return calculateMean(values), nil
}

// HottestRecord returns the first row holding the highest temperature
func HottestRecord(t *models.Table) (models.Record, error) {
	var best models.Record
	found := false
	for _, r := range t.Records {
		if !r.HasTemperature {
			continue
		}
		if !found || r.Temperature > best.Temperature {
			best = r
			found = true
		}
	}
	if !found {
		return models.Record{}, ErrNoObservations
	}
	return best, nil
}

// MonthlyMax returns the highest temperature of each month present in the
// table. Months without observations are absent from the map.
func MonthlyMax(t *models.Table) map[int]float64 {
	maxByMonth := make(map[int]float64)
	for _, r := range t.Records {
		if !r.HasTemperature {
			continue
		}
		if current, ok := maxByMonth[r.Month]; !ok || r.Temperature > current {
			maxByMonth[r.Month] = r.Temperature
		}
	}
	return maxByMonth
}

// HottestMonth groups by month and returns the month whose maximum is the
// highest. Months are visited in calendar order so the first month
// reaching the maximum wins.
func HottestMonth(t *models.Table) (models.HottestMonthResult, error) {
	maxByMonth := MonthlyMax(t)
	if len(maxByMonth) == 0 {
		return models.HottestMonthResult{}, ErrNoObservations
	}

	var result models.HottestMonthResult
	for month := 1; month <= 12; month++ {
		v, ok := maxByMonth[month]
		if !ok {
			continue
		}
		if result.Month == 0 || v > result.Temperature {
			result = models.HottestMonthResult{Month: month, Temperature: v}
		}
	}
	return result, nil
}

func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
