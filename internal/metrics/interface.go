package metrics

// Metrics defines the interface for collecting application metrics.
// It is a superset of what the tournament runner reports, so a Service can be
// handed straight to it.
type Metrics interface {
	IncTrials()
	IncMatchesSimulated()
	IncMatchesFromCache()
	IncGroupDraws()
	ObserveTrialDuration(duration float64)
	IncRuns()
	ObserveRunDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists counters that should survive restarts.
type MetricsStore interface {
	Increment(key string)
	Add(key string, delta int)
	GetAll() (map[string]int, error)
}
