package formula

import (
	"math"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const (
	MinSpeed = 10.0 // km/h
	MaxSpeed = 50.0 // km/h
)

type SpeedParams struct {
	CharacterSpeed float64 // km/h
	EquipmentBonus float64 // fraction
	Terrain        model.Terrain
	Stamina        float64
	Formation      model.Formation
	Position       model.Position
	Weather        model.Weather
	Abilities      []model.Ability
	EventModifier  float64 // fraction
}

// EffectiveSpeed combines all speed factors of a rider, clamped to [10,50] km/h.
func EffectiveSpeed(p SpeedParams) float64 {
	v := p.CharacterSpeed *
		(1 + p.EquipmentBonus) *
		TerrainMultiplier(p.Terrain) *
		StaminaEffect(p.Stamina) *
		(1 + FormationBonus(p.Formation, p.Position)) *
		WeatherEffect(p.Weather) *
		(1 + AbilityBonus(p.Abilities)) *
		(1 + p.EventModifier)
	if math.IsNaN(v) {
		return MinSpeed
	}
	return clamp(v, MinSpeed, MaxSpeed)
}

// StaminaEffect maps stamina (0..100) to a speed factor in [0.5,1].
func StaminaEffect(stamina float64) float64 {
	s := clamp(stamina, 0, 100)
	switch {
	case s >= 80:
		return 1.0
	case s >= 60:
		return 1 - (80-s)*0.0025
	case s >= 40:
		return 0.95 - (60-s)*0.005
	case s >= 20:
		return 0.85 - (40-s)*0.0075
	default:
		return math.Max(0.5, 0.70-(20-s)*0.015)
	}
}

func clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}
