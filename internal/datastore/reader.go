package datastore

import (
	"bufio"
	"clima/internal/models"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// INMET station files open with a block of "KEY:;value" lines before the
// header. A narrower row still counts as the header when it names the date column.
const minHeaderFields = 3

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// readFile parses one delimited file into a table. It returns the number of
// rows rejected for an unparseable date.
func (s *Store) readFile(path string) (*models.Table, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	delimiter, err := sniffDelimiter(br)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read header of %s: %w", path, err)
		}
		record[0] = strings.TrimPrefix(record[0], "\ufeff")
		if s.isHeader(record) {
			header = record
			break
		}
	}
	if header == nil {
		return nil, 0, fmt.Errorf("%w: %s has no header row", ErrMissingColumn, path)
	}

	columns := NormalizeColumns(header)

	dateIdx := columnIndex(columns, s.cfg.DateColumn)
	if dateIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q not found in %s", ErrMissingColumn, s.cfg.DateColumn, path)
	}
	tempIdx := columnIndex(columns, s.cfg.TemperatureColumn)
	if tempIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q not found in %s", ErrMissingColumn, s.cfg.TemperatureColumn, path)
	}

	table := &models.Table{Columns: columns}
	rejected := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rejected++
				continue
			}
			return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if dateIdx >= len(record) {
			rejected++
			continue
		}
		date, ok := parseDate(record[dateIdx])
		if !ok {
			rejected++
			continue
		}

		r := models.Record{
			Date:   date,
			Year:   date.Year(),
			Month:  int(date.Month()),
			Source: path,
		}
		if tempIdx < len(record) {
			r.Temperature, r.HasTemperature = s.parseTemperature(record[tempIdx])
		}
		table.Records = append(table.Records, r)
	}

	return table, rejected, nil
}

func (s *Store) isHeader(record []string) bool {
	if len(record) >= minHeaderFields {
		return true
	}
	return columnIndex(NormalizeColumns(record), s.cfg.DateColumn) >= 0
}

// sniffDelimiter peeks at the first line: ';' wins when it outnumbers ','
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	line, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, err
	}
	first := string(line)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';', nil
	}
	return ',', nil
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *Store) parseTemperature(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if s.missing[value] {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
