package datastore

import (
	"clima/internal/models"
	"sync"
)

const defaultWorkers = 8

type readJob struct {
	index int
	path  string
}

type readResult struct {
	index    int
	path     string
	table    *models.Table
	rejected int
	err      error
}

// readFiles parses paths with a bounded worker pool. Results come back in
// the order of paths regardless of which worker finished first.
func (s *Store) readFiles(paths []string) []readResult {
	numWorkers := s.cfg.Workers
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if len(paths) < numWorkers {
		numWorkers = len(paths)
	}

	jobs := make(chan readJob, len(paths))
	results := make(chan readResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go s.reader(jobs, results, &wg)
	}

	for i, path := range paths {
		jobs <- readJob{index: i, path: path}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]readResult, len(paths))
	for r := range results {
		ordered[r.index] = r
	}
	return ordered
}

func (s *Store) reader(jobs <-chan readJob, results chan<- readResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		table, rejected, err := s.readFile(job.path)
		results <- readResult{
			index:    job.index,
			path:     job.path,
			table:    table,
			rejected: rejected,
			err:      err,
		}
	}
}
