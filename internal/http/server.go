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

func NewServer(store runs.RunStore, counters metrics.MetricsStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Runs:           store,
		Counters:       counters,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/simulate", Chain(s.SimulateHandler(), paramsMiddleware))
	s.Router.Handle("/odds", Chain(s.OddsHandler(), paramsMiddleware))
	s.Router.Handle("/runs", Chain(s.ListRunsHandler(), paramsMiddleware))
	s.Router.Handle("/runs/shares", Chain(s.RunSharesHandler(), paramsMiddleware))
	s.Router.Handle("/runs/matches", Chain(s.TrialMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/known-results", Chain(s.KnownResultsHandler(), paramsMiddleware))
	s.Router.Handle("/counters", Chain(s.CountersHandler(), paramsMiddleware))
	s.Router.Handle("/events/simulation-completed", Chain(s.SimulationCompletedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
