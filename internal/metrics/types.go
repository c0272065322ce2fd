package metrics

import "github.com/prometheus/client_golang/prometheus"

// Keys of the persistent counters kept in the metrics table.
const (
	KeyRunsCompleted        = "runs_completed"
	KeyTrialsCompleted      = "trials_completed"
	KeySlackNotificationsOK = "slack_notifications_sent"
)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	Trials             prometheus.Counter
	MatchesSimulated   prometheus.Counter
	MatchesFromCache   prometheus.Counter
	GroupDraws         prometheus.Counter
	TrialDuration      prometheus.Histogram
	Runs               prometheus.Counter
	RunDuration        prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
