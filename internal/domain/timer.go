package domain

// TimerPlan describes the per-round countdown durations for act-phases.
// Rounds shorten by StepSeconds each round until FloorSeconds is reached, so
// later rounds speed up without ever dropping below the floor.
type TimerPlan struct {
	BaseSeconds  int
	StepSeconds  int
	FloorSeconds int
}

// DurationForRound returns the countdown length in whole seconds for the
// given round index. The result is non-increasing in round and never below
// the floor.
func (p TimerPlan) DurationForRound(round int) int {
	d := p.BaseSeconds - round*p.StepSeconds
	if d < p.FloorSeconds {
		return p.FloorSeconds
	}
	return d
}
