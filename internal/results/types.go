package results

import (
	"errors"
	"fmt"
	"strings"
)

// Draw is the winner recorded for a drawn fixture.
const Draw = "draw"

// DefaultDetail is recorded when a fixture carries no detail tag.
const DefaultDetail = "N/A"

// Stage is the phase of the competition a fixture belongs to.
type Stage string

const (
	StageGroup        Stage = "group"
	StageRoundOf16    Stage = "round-of-16"
	StageQuarterfinal Stage = "quarterfinal"
	StageSemifinal    Stage = "semifinal"
	StageFinal        Stage = "final"
)

// Stages lists the recognized stages in playing order.
var Stages = []Stage{StageGroup, StageRoundOf16, StageQuarterfinal, StageSemifinal, StageFinal}

var (
	ErrNotFound      = errors.New("result not found")
	ErrInvalidWinner = errors.New("winner is not one of the teams")
	ErrInvalidStage  = errors.New("unknown stage")
	ErrKnockoutDraw  = errors.New("draw recorded outside the group stage")
)

// ParseStage accepts the stage names above as well as the short tokens
// used by older result sheets ("8th", "quarter", "semi").
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "group":
		return StageGroup, nil
	case "round-of-16", "8th", "r16":
		return StageRoundOf16, nil
	case "quarterfinal", "quarter":
		return StageQuarterfinal, nil
	case "semifinal", "semi":
		return StageSemifinal, nil
	case "final":
		return StageFinal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
}

// Valid reports whether s is one of the recognized stages.
func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// AllowsDraw reports whether a fixture at this stage may end level.
func (s Stage) AllowsDraw() bool {
	return s == StageGroup
}

// Key identifies a fixture by the unordered pair of teams and the stage.
// Build it with NewKey so that both orderings compare equal.
type Key struct {
	Low   string
	High  string
	Stage Stage
}

// NewKey returns the key for a fixture between a and b at stage.
func NewKey(a, b string, stage Stage) Key {
	if b < a {
		a, b = b, a
	}
	return Key{Low: a, High: b, Stage: stage}
}

// Result is one recorded fixture.
type Result struct {
	Team1     string `json:"team1" yaml:"team1" msgpack:"team1"`
	Team2     string `json:"team2" yaml:"team2" msgpack:"team2"`
	Winner    string `json:"winner" yaml:"winner" msgpack:"winner"`
	Stage     Stage  `json:"stage" yaml:"stage" msgpack:"stage"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty" msgpack:"detail"`
	Simulated bool   `json:"simulated" yaml:"simulated" msgpack:"simulated"`
	Trial     int    `json:"trial" yaml:"trial,omitempty" msgpack:"trial"`
}

// Key returns the cache key of the result.
func (r Result) Key() Key {
	return NewKey(r.Team1, r.Team2, r.Stage)
}

// Row is one line of the flattened per-trial export.
type Row = Result

// ValidationError describes a result that cannot be recorded.
type ValidationError struct {
	Team1  string
	Team2  string
	Winner string
	Stage  Stage
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid result %s vs %s (%s, winner %q): %v", e.Team1, e.Team2, e.Stage, e.Winner, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks that winner is one of the teams (or Draw where a draw is
// allowed) and that stage is recognized.
func Validate(team1, team2, winner string, stage Stage) error {
	var err error
	switch {
	case !stage.Valid():
		err = ErrInvalidStage
	case winner != team1 && winner != team2 && winner != Draw:
		err = ErrInvalidWinner
	case winner == Draw && !stage.AllowsDraw():
		err = ErrKnockoutDraw
	}
	if err != nil {
		return &ValidationError{Team1: team1, Team2: team2, Winner: winner, Stage: stage, Err: err}
	}
	return nil
}
