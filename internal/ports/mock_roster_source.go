package ports

import (
	"context"
	"sync"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// MockRosterSource is a flexible test double for RosterSource.
// This is the canonical mock implementation used across all tests.
//
// Usage with a function field:
//
//	mock := &ports.MockRosterSource{
//	    FetchRecordsFunc: func(ctx context.Context) ([]domain.Record, error) {
//	        return nil, domain.ErrConnection
//	    },
//	}
//
// Usage with builder pattern:
//
//	mock := ports.NewMockRosterSource().
//	    WithRecords([]domain.Record{{Row: 2, Date: "10-06-2024", Time: "09:00-10:00"}})
type MockRosterSource struct {
	FetchRecordsFunc func(ctx context.Context) ([]domain.Record, error)

	mu      sync.RWMutex
	records []domain.Record
	err     error
	calls   int
}

var _ RosterSource = (*MockRosterSource)(nil)

// NewMockRosterSource creates a new mock returning no records.
func NewMockRosterSource() *MockRosterSource {
	return &MockRosterSource{records: []domain.Record{}}
}

// WithRecords sets the records returned by FetchRecords.
func (m *MockRosterSource) WithRecords(records []domain.Record) *MockRosterSource {
	m.mu.Lock()
	m.records = records
	m.mu.Unlock()
	return m
}

// WithError makes FetchRecords fail with err until cleared with WithError(nil).
func (m *MockRosterSource) WithError(err error) *MockRosterSource {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
	return m
}

// Calls returns how many times FetchRecords was invoked.
func (m *MockRosterSource) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *MockRosterSource) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.FetchRecordsFunc != nil {
		return m.FetchRecordsFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}
