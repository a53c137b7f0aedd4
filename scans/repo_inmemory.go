package scans

import (
	"fmt"
	"sync"

	"github.com/jrsteele09/go-library-checkin/checkin"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory implementation of Repo. Results are kept in scan order
// and lost when the process exits.
type InMemoryRepo struct {
	mu      sync.RWMutex
	results []checkin.Result
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{}
}

// Append adds a processed scan to the end of the log
func (r *InMemoryRepo) Append(result checkin.Result) error {
	if result.ScanID == "" {
		return fmt.Errorf("scanID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

// List returns a copy of the log, oldest first
func (r *InMemoryRepo) List() ([]checkin.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]checkin.Result, len(r.results))
	copy(results, r.results)
	return results, nil
}

// Count is the running "Total Books Scanned"
func (r *InMemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}
