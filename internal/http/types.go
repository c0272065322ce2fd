package http

import (
	"net/http"

	"github.com/mauv0809/worldcup-sim/internal/config"
	"github.com/mauv0809/worldcup-sim/internal/metrics"
	"github.com/mauv0809/worldcup-sim/internal/notifier"
	"github.com/mauv0809/worldcup-sim/internal/processor"
	"github.com/mauv0809/worldcup-sim/internal/pubsub"
	"github.com/mauv0809/worldcup-sim/internal/runs"
)

type Server struct {
	Runs           runs.RunStore
	Counters       metrics.MetricsStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// pushMessage is the body Pub/Sub posts to a push subscription.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"` // base64-encoded message payload
		ID   string `json:"messageId"`
	} `json:"message"`
}

// runDetail is the response of /runs/shares.
type runDetail struct {
	Run        *runs.RunInfo  `json:"run"`
	Shares     any            `json:"shares"`
	FocusStats map[string]int `json:"focus_stats,omitempty"`
}
