package event

import "github.com/mpapenbr/bikechallenge/pkg/model"

type Phase int

const (
	PhasePending Phase = iota
	PhaseTriggered
	PhaseResolved
	PhaseRecorded
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseTriggered:
		return "triggered"
	case PhaseResolved:
		return "resolved"
	case PhaseRecorded:
		return "recorded"
	default:
		return "unknown"
	}
}

// Instance is a single occurrence of an event template.
// Transitions only move forward; out of order calls report false.
type Instance struct {
	Template    model.EventTemplate
	Phase       Phase
	Resolution  Resolution
	TriggeredAt float64 // race seconds
	Distance    float64
}

func NewInstance(t model.EventTemplate) *Instance {
	return &Instance{Template: t, Phase: PhasePending}
}

func (i *Instance) Trigger(state *model.RaceState) bool {
	if i.Phase != PhasePending {
		return false
	}
	i.TriggeredAt = state.TimeElapsed
	i.Distance = state.Distance
	i.Phase = PhaseTriggered
	return true
}

func (i *Instance) Resolve(
	choices []string,
	team model.Team,
	bike model.BikeLoadout,
) (bool, error) {
	if i.Phase != PhaseTriggered {
		return false, nil
	}
	res, err := Resolve(i.Template, choices, team, bike)
	if err != nil {
		return false, err
	}
	i.Resolution = res
	i.Phase = PhaseResolved
	return true, nil
}

// Record applies the resolution to state.
func (i *Instance) Record(state *model.RaceState) bool {
	if i.Phase != PhaseResolved {
		return false
	}
	Apply(state, i.Resolution)
	i.Phase = PhaseRecorded
	return true
}
