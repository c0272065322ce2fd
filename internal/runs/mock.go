package runs

import (
	"sync"

	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// MockStore is a mock implementation of the RunStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	SaveRunFunc           func(summary *tournament.Summary, withTrialMatches bool) error
	GetRunsFunc           func(limit int) ([]RunInfo, error)
	GetRunFunc            func(runID string) (*RunInfo, error)
	GetWinSharesFunc      func(runID string) ([]tournament.Share, error)
	GetFocusStatsFunc     func(runID string) (map[string]int, error)
	GetTrialMatchesFunc   func(runID string, trial int) ([]results.Row, error)
	UpsertKnownResultFunc func(result results.Result) error
	GetKnownResultsFunc   func() ([]results.Result, error)
	ClearKnownResultsFunc func() error

	SaveRunCalls []struct {
		Summary          *tournament.Summary
		WithTrialMatches bool
	}
	UpsertKnownResultCalls []results.Result
}

var _ RunStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SaveRun(summary *tournament.Summary, withTrialMatches bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRunCalls = append(m.SaveRunCalls, struct {
		Summary          *tournament.Summary
		WithTrialMatches bool
	}{summary, withTrialMatches})
	if m.SaveRunFunc != nil {
		return m.SaveRunFunc(summary, withTrialMatches)
	}
	return nil
}

func (m *MockStore) GetRuns(limit int) ([]RunInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRunsFunc != nil {
		return m.GetRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockStore) GetRun(runID string) (*RunInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRunFunc != nil {
		return m.GetRunFunc(runID)
	}
	return nil, ErrRunNotFound
}

func (m *MockStore) GetWinShares(runID string) ([]tournament.Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetWinSharesFunc != nil {
		return m.GetWinSharesFunc(runID)
	}
	return nil, nil
}

func (m *MockStore) GetFocusStats(runID string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFocusStatsFunc != nil {
		return m.GetFocusStatsFunc(runID)
	}
	return map[string]int{}, nil
}

func (m *MockStore) GetTrialMatches(runID string, trial int) ([]results.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTrialMatchesFunc != nil {
		return m.GetTrialMatchesFunc(runID, trial)
	}
	return nil, nil
}

func (m *MockStore) UpsertKnownResult(result results.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertKnownResultCalls = append(m.UpsertKnownResultCalls, result)
	if m.UpsertKnownResultFunc != nil {
		return m.UpsertKnownResultFunc(result)
	}
	return nil
}

func (m *MockStore) GetKnownResults() ([]results.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetKnownResultsFunc != nil {
		return m.GetKnownResultsFunc()
	}
	return nil, nil
}

func (m *MockStore) ClearKnownResults() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearKnownResultsFunc != nil {
		return m.ClearKnownResultsFunc()
	}
	return nil
}
