package elo

import (
	"errors"
	"math"
)

// Rating constants, based on https://www.eloratings.net/about.
const (
	// Scale is the rating difference at which the stronger side is ten times as likely to win.
	Scale = 400.0
	// DefaultKFactor controls how far a single result moves a rating.
	DefaultKFactor = 40.0
	// GroupDrawStrength is calibrated to hit the 2018 group-stage draw share (8/48).
	GroupDrawStrength = 1710.0
	// DefaultHostBonus is added to the host nation's rating before simulating.
	DefaultHostBonus = 100.0
)

// ErrUndecided is returned when a fixture that must have a winner ends without one.
var ErrUndecided = errors.New("no winner was determined")

// Outcome is the result of a single fixture from the home (first) side's perspective.
type Outcome int

const (
	Unknown Outcome = iota
	HomeWin
	AwayWin
	Draw
)

func (o Outcome) String() string {
	switch o {
	case HomeWin:
		return "home"
	case AwayWin:
		return "away"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Scores returns the actual score credited to each side.
func (o Outcome) Scores() (home, away float64) {
	switch o {
	case HomeWin:
		return 1, 0
	case AwayWin:
		return 0, 1
	case Draw:
		return 0.5, 0.5
	default:
		return 0, 0
	}
}

// Weights returns the unnormalized weights of a home win, an away win and a draw.
// A known outcome zeroes every weight it rules out, so the decision is forced.
func Weights(ratingA, ratingB, drawStrength float64, known Outcome) (wa, wb, wd float64) {
	if known != AwayWin && known != Draw {
		wa = math.Pow(10, ratingA/Scale)
	}
	if known != HomeWin && known != Draw {
		wb = math.Pow(10, ratingB/Scale)
	}
	if known != HomeWin && known != AwayWin {
		wd = math.Pow(10, drawStrength/Scale) - 1
	}
	return wa, wb, wd
}

// Probabilities returns the normalized home win, away win and draw probabilities.
func Probabilities(ratingA, ratingB, drawStrength float64) (pa, pb, pd float64) {
	wa, wb, wd := Weights(ratingA, ratingB, drawStrength, Unknown)
	total := wa + wb + wd
	return wa / total, wb / total, wd / total
}

// Decide picks an outcome by comparing r, drawn uniformly from [0,1), against the
// cumulative normalized weights in the order home, away, draw.
func Decide(wa, wb, wd, r float64, drawAllowed bool) (Outcome, error) {
	total := wa + wb + wd
	if total <= 0 {
		return Unknown, ErrUndecided
	}
	// A zero weight never wins, even when r is exactly 0.
	switch {
	case wa > 0 && wa/total >= r:
		return HomeWin, nil
	case wb > 0 && (wa+wb)/total >= r:
		return AwayWin, nil
	case drawAllowed:
		return Draw, nil
	default:
		return Unknown, ErrUndecided
	}
}

// ExpectedScore is the expected score of a side rated rating against opponent.
func ExpectedScore(rating, opponent float64) float64 {
	return 1 / (math.Pow(10, -(rating-opponent)/Scale) + 1)
}
