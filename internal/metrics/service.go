package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Trials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldcup_trials_total",
			Help: "The total number of simulated tournaments.",
		}),
		MatchesSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldcup_matches_simulated_total",
			Help: "The total number of fixtures decided by the outcome model.",
		}),
		MatchesFromCache: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldcup_matches_known_total",
			Help: "The total number of fixtures taken from known results.",
		}),
		GroupDraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldcup_group_draws_total",
			Help: "The total number of drawn group fixtures.",
		}),
		TrialDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldcup_trial_duration_seconds",
			Help:    "The duration of a single simulated tournament.",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldcup_runs_total",
			Help: "The total number of completed simulation runs.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldcup_run_duration_seconds",
			Help:    "The duration of a full simulation run.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldcup_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldcup_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldcup_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Trials,
		s.MatchesSimulated,
		s.MatchesFromCache,
		s.GroupDraws,
		s.TrialDuration,
		s.Runs,
		s.RunDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncTrials() {
	s.Trials.Inc()
}

func (s *Service) IncMatchesSimulated() {
	s.MatchesSimulated.Inc()
}

func (s *Service) IncMatchesFromCache() {
	s.MatchesFromCache.Inc()
}

func (s *Service) IncGroupDraws() {
	s.GroupDraws.Inc()
}

func (s *Service) ObserveTrialDuration(duration float64) {
	s.TrialDuration.Observe(duration)
}

func (s *Service) IncRuns() {
	s.Runs.Inc()
}

func (s *Service) ObserveRunDuration(duration float64) {
	s.RunDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
