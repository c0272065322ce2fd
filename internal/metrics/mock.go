package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	trials           int
	matchesSimulated int
	matchesFromCache int
	groupDraws       int
	trialDurations   []float64
	runs             int
	runDurations     []float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncTrials() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trials++
}

func (m *Mock) IncMatchesSimulated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSimulated++
}

func (m *Mock) IncMatchesFromCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFromCache++
}

func (m *Mock) IncGroupDraws() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groupDraws++
}

func (m *Mock) ObserveTrialDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trialDurations = append(m.trialDurations, duration)
}

func (m *Mock) IncRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
}

func (m *Mock) ObserveRunDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runDurations = append(m.runDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Trials returns the number of times IncTrials was called.
func (m *Mock) Trials() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trials
}

// MatchesSimulated returns the number of times IncMatchesSimulated was called.
func (m *Mock) MatchesSimulated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSimulated
}

// MatchesFromCache returns the number of times IncMatchesFromCache was called.
func (m *Mock) MatchesFromCache() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFromCache
}

// GroupDraws returns the number of times IncGroupDraws was called.
func (m *Mock) GroupDraws() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groupDraws
}

// Runs returns the number of times IncRuns was called.
func (m *Mock) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StoreMock is an in-memory MetricsStore.
type StoreMock struct {
	mu     sync.Mutex
	values map[string]int
}

var _ MetricsStore = (*StoreMock)(nil)

func NewStoreMock() *StoreMock {
	return &StoreMock{values: make(map[string]int)}
}

func (m *StoreMock) Increment(key string) {
	m.Add(key, 1)
}

func (m *StoreMock) Add(key string, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] += delta
}

func (m *StoreMock) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}
