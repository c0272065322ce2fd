package elo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeights_Monotonic(t *testing.T) {
	tests := []struct {
		name   string
		strong float64
		weak   float64
	}{
		{"close ratings", 1801, 1800},
		{"wide gap", 2169, 1540},
		{"low ratings", 900, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wa, wb, _ := Weights(tt.strong, tt.weak, 0, Unknown)
			assert.Greater(t, wa, wb)

			pa, pb, _ := Probabilities(tt.strong, tt.weak, GroupDrawStrength)
			assert.Greater(t, pa, pb)
		})
	}
}

func TestWeights_KnownOutcomeForcesDecision(t *testing.T) {
	wa, wb, wd := Weights(1500, 2000, GroupDrawStrength, HomeWin)
	assert.Greater(t, wa, 0.0)
	assert.Zero(t, wb)
	assert.Zero(t, wd)

	wa, wb, wd = Weights(2000, 1500, GroupDrawStrength, Draw)
	assert.Zero(t, wa)
	assert.Zero(t, wb)
	assert.Greater(t, wd, 0.0)

	// Even the most extreme draw still lands on the forced outcome.
	for _, r := range []float64{0, 0.5, 0.999999} {
		outcome, err := Decide(wa, wb, wd, r, true)
		require.NoError(t, err)
		assert.Equal(t, Draw, outcome)
	}
}

func TestWeights_NoDrawWithoutDrawStrength(t *testing.T) {
	_, _, wd := Weights(1800, 1800, 0, Unknown)
	assert.Zero(t, wd)
}

func TestDecide(t *testing.T) {
	// Home 0.5, away 0.3, draw 0.2 of the total.
	wa, wb, wd := 5.0, 3.0, 2.0

	tests := []struct {
		name        string
		r           float64
		drawAllowed bool
		want        Outcome
		wantErr     error
	}{
		{"low draw picks home", 0.1, true, HomeWin, nil},
		{"boundary is inclusive for home", 0.5, true, HomeWin, nil},
		{"middle picks away", 0.7, true, AwayWin, nil},
		{"boundary is inclusive for away", 0.8, true, AwayWin, nil},
		{"top picks draw", 0.9, true, Draw, nil},
		{"draw branch at knockout is an error", 0.9, false, Unknown, ErrUndecided},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(wa, wb, wd, tt.r, tt.drawAllowed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecide_ZeroWeightsIsUndecided(t *testing.T) {
	_, err := Decide(0, 0, 0, 0.3, true)
	assert.ErrorIs(t, err, ErrUndecided)
}

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1800, 1800), 1e-12)
	assert.InDelta(t, 1/(math.Pow(10, -0.25)+1), ExpectedScore(1900, 1800), 1e-12)
	assert.InDelta(t, 1.0, ExpectedScore(1900, 1800)+ExpectedScore(1800, 1900), 1e-12)
	assert.Greater(t, ExpectedScore(2000, 1800), ExpectedScore(1900, 1800))
}

func TestModel_UpdateIsZeroSum(t *testing.T) {
	m := NewModel(DefaultKFactor)
	for _, outcome := range []Outcome{HomeWin, AwayWin, Draw} {
		a, b := m.Update(1920, 1817, outcome)
		assert.InDelta(t, 1920+1817, a+b, 1e-9, outcome.String())
	}
}

func TestModel_UpdateMagnitudeDependsOnDifferenceOnly(t *testing.T) {
	m := NewModel(DefaultKFactor)
	a1, _ := m.Update(1500, 1400, HomeWin)
	a2, _ := m.Update(2100, 2000, HomeWin)
	assert.InDelta(t, a1-1500, a2-2100, 1e-9)
}

func TestModel_RepeatedDrawBetweenEqualsIsStable(t *testing.T) {
	m := NewModel(DefaultKFactor)
	a, b := 1750.0, 1750.0
	for i := 0; i < 10; i++ {
		a, b = m.Update(a, b, Draw)
	}
	assert.InDelta(t, 1750, a, 1e-9)
	assert.InDelta(t, 1750, b, 1e-9)
}

func TestModel_WinnerGainsRating(t *testing.T) {
	m := NewModel(DefaultKFactor)
	a, b := m.Update(1800, 1800, AwayWin)
	assert.InDelta(t, 1780, a, 1e-9)
	assert.InDelta(t, 1820, b, 1e-9)
}

func TestNewModel_DefaultsKFactor(t *testing.T) {
	assert.Equal(t, DefaultKFactor, NewModel(0).KFactor)
	assert.Equal(t, 20.0, NewModel(20).KFactor)
}

func TestModel_PlayUpdatesKnownOutcome(t *testing.T) {
	m := NewModel(DefaultKFactor)
	res, err := m.Play(1600, 2000, 0, 0.0001, AwayWin, false)
	require.NoError(t, err)
	assert.Equal(t, AwayWin, res.Outcome)
	assert.Less(t, res.RatingA, 1600.0)
	assert.Greater(t, res.RatingB, 2000.0)

	res, err = m.Play(1600, 2000, 0, 0, AwayWin, false)
	require.NoError(t, err)
	assert.Equal(t, AwayWin, res.Outcome, "a zero draw must not pick an excluded side")
}

func TestModel_PlayUndecidedKeepsRatings(t *testing.T) {
	m := NewModel(DefaultKFactor)
	res, err := m.Play(1600, 2000, 0, 0.5, Draw, false)
	assert.ErrorIs(t, err, ErrUndecided)
	assert.Equal(t, 1600.0, res.RatingA)
	assert.Equal(t, 2000.0, res.RatingB)
}

func TestModel_GroupDrawRateMatchesBenchmark(t *testing.T) {
	// At an average World Cup rating, the draw weight is calibrated to about 17%.
	const rating = 1865.0
	_, _, pd := Probabilities(rating, rating, GroupDrawStrength)
	assert.InDelta(t, 0.17, pd, 0.005)

	m := NewModel(DefaultKFactor)
	rng := rand.New(rand.NewSource(2018))
	const n = 50000
	draws := 0
	for i := 0; i < n; i++ {
		res, err := m.Play(rating, rating, GroupDrawStrength, rng.Float64(), Unknown, true)
		require.NoError(t, err)
		if res.Outcome == Draw {
			draws++
		}
	}
	assert.InDelta(t, 0.17, float64(draws)/n, 0.01)
}

func TestModel_WithDrawStrength(t *testing.T) {
	m := NewModel(DefaultKFactor)
	assert.Equal(t, GroupDrawStrength, m.DrawStrength)
	assert.Equal(t, 1500.0, m.WithDrawStrength(1500).DrawStrength)
	assert.Equal(t, GroupDrawStrength, m.DrawStrength, "the receiver is not modified")
}
