package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventSimulationCompleted EventType = "simulation-completed"
)

// SimulationCompleted is published once a run has been stored.
type SimulationCompleted struct {
	RunID         string    `msgpack:"run_id"`
	Tournament    string    `msgpack:"tournament"`
	Seed          int64     `msgpack:"seed"`
	Iterations    int       `msgpack:"iterations"`
	Favourite     string    `msgpack:"favourite"`
	FavouriteWins int       `msgpack:"favourite_wins"`
	DrawRate      float64   `msgpack:"draw_rate"`
	FinishedAt    time.Time `msgpack:"finished_at"`
}

// NewSimulationCompleted builds the event payload for a finished run.
func NewSimulationCompleted(s *tournament.Summary) SimulationCompleted {
	ev := SimulationCompleted{
		RunID:      s.RunID,
		Tournament: s.Tournament,
		Seed:       s.Seed,
		Iterations: s.Iterations,
		DrawRate:   s.DrawRate(),
		FinishedAt: s.StartedAt.Add(s.Duration),
	}
	if shares := s.Shares(); len(shares) > 0 {
		ev.Favourite = shares[0].Team
		ev.FavouriteWins = shares[0].Wins
	}
	return ev
}
