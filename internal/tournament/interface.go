package tournament

// Metrics receives simulation events. It is satisfied by metrics.Metrics.
type Metrics interface {
	IncTrials()
	IncMatchesSimulated()
	IncMatchesFromCache()
	IncGroupDraws()
	ObserveTrialDuration(seconds float64)
}

type nopMetrics struct{}

func (nopMetrics) IncTrials()                   {}
func (nopMetrics) IncMatchesSimulated()         {}
func (nopMetrics) IncMatchesFromCache()         {}
func (nopMetrics) IncGroupDraws()               {}
func (nopMetrics) ObserveTrialDuration(float64) {}
