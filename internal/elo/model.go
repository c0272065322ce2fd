package elo

// Model applies the outcome weights and the rating update with a fixed K-factor.
// DrawStrength is the draw pseudo-rating used for fixtures that may end level.
type Model struct {
	KFactor      float64
	DrawStrength float64
}

// Result is what a played fixture produces: the outcome and both updated ratings.
type Result struct {
	Outcome Outcome
	RatingA float64
	RatingB float64
}

// NewModel returns a Model with the given K-factor, falling back to DefaultKFactor,
// and the calibrated GroupDrawStrength.
func NewModel(kFactor float64) Model {
	if kFactor <= 0 {
		kFactor = DefaultKFactor
	}
	return Model{KFactor: kFactor, DrawStrength: GroupDrawStrength}
}

// WithDrawStrength returns a copy of m using drawStrength for drawable fixtures.
func (m Model) WithDrawStrength(drawStrength float64) Model {
	m.DrawStrength = drawStrength
	return m
}

// Update moves both ratings towards the actual result.
func (m Model) Update(ratingA, ratingB float64, outcome Outcome) (float64, float64) {
	scoreA, scoreB := outcome.Scores()
	newA := ratingA + m.KFactor*(scoreA-ExpectedScore(ratingA, ratingB))
	newB := ratingB + m.KFactor*(scoreB-ExpectedScore(ratingB, ratingA))
	return newA, newB
}

// Play decides a fixture from r and updates both ratings. The update is applied
// for known outcomes too, so ratings drift the same way whether a result was
// simulated or taken from history.
func (m Model) Play(ratingA, ratingB, drawStrength, r float64, known Outcome, drawAllowed bool) (Result, error) {
	wa, wb, wd := Weights(ratingA, ratingB, drawStrength, known)
	outcome, err := Decide(wa, wb, wd, r, drawAllowed)
	if err != nil {
		return Result{Outcome: Unknown, RatingA: ratingA, RatingB: ratingB}, err
	}
	newA, newB := m.Update(ratingA, ratingB, outcome)
	return Result{Outcome: outcome, RatingA: newA, RatingB: newB}, nil
}
