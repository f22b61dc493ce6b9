package formula

import "github.com/mpapenbr/bikechallenge/pkg/model"

type MoraleParams struct {
	Current     float64
	Events      []model.MoraleEvent
	Performance model.Performance
	Harmony     float64 // 0..100
	Fatigue     float64 // 0..100
	Weather     model.Weather
}

// MoraleEventDelta is the raw morale change of a discrete event.
//
//nolint:cyclop,exhaustive // table
func MoraleEventDelta(e model.MoraleEvent) float64 {
	switch e {
	case model.MoraleOvertake:
		return 10
	case model.MoraleGoodWeather:
		return 5
	case model.MoraleSuccessfulClimb:
		return 15
	case model.MoraleTeamworkSuccess:
		return 12
	case model.MoraleMysteryBonus:
		return 20
	case model.MoraleMechanicalFailure:
		return -15
	case model.MoraleBadWeather:
		return -10
	case model.MoraleDropped:
		return -20
	case model.MoraleConflict:
		return -25
	case model.MoraleExhaustion:
		return -30
	default:
		return 0
	}
}

// PerformanceDelta is the morale change caused by race progress.
//
//nolint:exhaustive // unknown performance is neutral
func PerformanceDelta(p model.Performance) float64 {
	switch p {
	case model.PerformanceLeading:
		return 5
	case model.PerformanceOnTarget:
		return 2
	case model.PerformanceBehind:
		return -5
	case model.PerformanceFarBehind:
		return -10
	default:
		return 0
	}
}

// MoraleChange computes the morale delta for the given situation.
func MoraleChange(p MoraleParams) float64 {
	delta := 0.0
	for _, e := range p.Events {
		delta += MoraleEventDelta(e)
	}
	delta += PerformanceDelta(p.Performance)
	delta *= 0.5 + clamp(p.Harmony, 0, 100)/100

	if p.Fatigue > 70 {
		if delta > 0 {
			delta *= 0.5
		} else {
			delta *= 1.5
		}
	}
	delta += WeatherMood(p.Weather)

	switch {
	case p.Current > 80 && delta > 0:
		delta *= 0.5
	case p.Current < 20 && delta < 0:
		delta *= 0.5
	}
	return delta
}

// MoraleModifiers are the fractional adjustments caused by a morale level.
type MoraleModifiers struct {
	Speed    float64
	Stamina  float64
	Recovery float64
	Teamwork float64
}

// MoraleEffects returns the modifiers of the morale band.
func MoraleEffects(morale float64) MoraleModifiers {
	switch {
	case morale >= 80:
		return MoraleModifiers{Speed: 0.10, Stamina: -0.10, Recovery: 0.20, Teamwork: 0.15}
	case morale >= 60:
		return MoraleModifiers{Speed: 0.05, Stamina: 0, Recovery: 0.10, Teamwork: 0.05}
	case morale >= 40:
		return MoraleModifiers{Speed: -0.05, Stamina: 0.10, Recovery: -0.10, Teamwork: -0.10}
	case morale >= 20:
		return MoraleModifiers{Speed: -0.15, Stamina: 0.20, Recovery: -0.30, Teamwork: -0.25}
	default:
		return MoraleModifiers{Speed: -0.30, Stamina: 0.40, Recovery: -0.50, Teamwork: -0.50}
	}
}
