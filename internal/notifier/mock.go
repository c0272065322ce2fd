package notifier

import (
	"sync"

	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendForecastFunc           func(summary *tournament.Summary, top int, dryRun bool) error
	SendFixtureOddsFunc        func(odds *tournament.FixtureOdds, dryRun bool) error
	FormatForecastResponseFunc func(summary *tournament.Summary, top int) (any, error)

	// Call records
	SendForecastCalls []struct {
		Summary *tournament.Summary
		Top     int
		DryRun  bool
	}
	SendFixtureOddsCalls []*tournament.FixtureOdds
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendForecastCalls = nil
	m.SendFixtureOddsCalls = nil
}

func (m *Mock) SendForecast(summary *tournament.Summary, top int, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendForecastCalls = append(m.SendForecastCalls, struct {
		Summary *tournament.Summary
		Top     int
		DryRun  bool
	}{summary, top, dryRun})
	if m.SendForecastFunc != nil {
		return m.SendForecastFunc(summary, top, dryRun)
	}
	return nil
}

func (m *Mock) SendFixtureOdds(odds *tournament.FixtureOdds, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFixtureOddsCalls = append(m.SendFixtureOddsCalls, odds)
	if m.SendFixtureOddsFunc != nil {
		return m.SendFixtureOddsFunc(odds, dryRun)
	}
	return nil
}

func (m *Mock) FormatForecastResponse(summary *tournament.Summary, top int) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatForecastResponseFunc != nil {
		return m.FormatForecastResponseFunc(summary, top)
	}
	return "formatted_forecast", nil
}
