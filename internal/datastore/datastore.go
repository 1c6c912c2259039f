// Package datastore reads the yearly INMET partitions into one normalized table.
//
// A partition is a directory named <prefix><year> (weather_2020 by default)
// holding one or more delimited files. Every load re-reads the files; wrap a
// Store in a Cache to keep tables between calls.
package datastore

import (
	"clima/internal/config"
	"clima/internal/metrics"
	"clima/internal/models"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNoDataFound is returned when no partition matched the requested scope
	ErrNoDataFound = errors.New("no data files found")
	// ErrMissingColumn is returned when an expected column is absent after normalization
	ErrMissingColumn = errors.New("missing column")
)

// Loader is what the aggregations need from the data layer
type Loader interface {
	LoadYear(year int) (*models.Table, error)
	LoadAll() (*models.Table, error)
}

// Store loads partitions from disk
type Store struct {
	cfg     config.DataConfig
	missing map[string]bool
}

// NewStore creates a store over the configured data directory
func NewStore(cfg config.DataConfig) *Store {
	missing := make(map[string]bool, len(cfg.MissingValues))
	for _, v := range cfg.MissingValues {
		missing[strings.TrimSpace(v)] = true
	}
	return &Store{cfg: cfg, missing: missing}
}

// Load reads the partition of year, or every partition when year is nil
func (s *Store) Load(year *int) (*models.Table, error) {
	if year == nil {
		return s.LoadAll()
	}
	return s.LoadYear(*year)
}

// LoadYear reads only the partition of the given year
func (s *Store) LoadYear(year int) (*models.Table, error) {
	start := time.Now()
	table, err := s.load([]int{year})
	if err != nil && errors.Is(err, ErrNoDataFound) {
		err = fmt.Errorf("%w for year %d", ErrNoDataFound, year)
	}
	metrics.RecordLoad("year", time.Since(start), table.Len(), err)
	return table, err
}

// LoadAll reads and concatenates every partition of the historical range
func (s *Store) LoadAll() (*models.Table, error) {
	start := time.Now()
	var years []int
	for y := s.cfg.FirstYear; y <= s.cfg.LastYear; y++ {
		years = append(years, y)
	}
	table, err := s.load(years)
	metrics.RecordLoad("all", time.Since(start), table.Len(), err)
	return table, err
}

// PartitionDir returns the directory holding the given year
func (s *Store) PartitionDir(year int) string {
	return filepath.Join(s.cfg.Dir, fmt.Sprintf("%s%d", s.cfg.PartitionPrefix, year))
}

// HasPartitions reports whether any partition directory of the range exists
func (s *Store) HasPartitions() bool {
	for y := s.cfg.FirstYear; y <= s.cfg.LastYear; y++ {
		if isDir(s.PartitionDir(y)) {
			return true
		}
	}
	return false
}

func (s *Store) load(years []int) (*models.Table, error) {
	var files []string
	for _, year := range years {
		partitionFiles, err := s.partitionFiles(year)
		if err != nil {
			return nil, err
		}
		files = append(files, partitionFiles...)
	}

	if len(files) == 0 {
		return nil, ErrNoDataFound
	}

	table := &models.Table{}
	for _, r := range s.readFiles(files) {
		if r.err != nil {
			return nil, r.err
		}
		if r.rejected > 0 {
			log.Printf("Warning: %s: rejected %d rows without a parseable date", r.path, r.rejected)
			metrics.RecordRejectedRows(r.rejected)
		}
		table.Append(r.table)
	}

	return table, nil
}

// partitionFiles lists the csv files of one partition, sorted by name.
// A missing directory yields no files.
func (s *Store) partitionFiles(year int) ([]string, error) {
	dir := s.PartitionDir(year)
	if !isDir(dir) {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list partition %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
