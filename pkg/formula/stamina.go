package formula

import (
	"math"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const baseConsumption = 0.3 // percent per km at 25 km/h

type ConsumptionParams struct {
	Distance   float64 // km
	Speed      float64 // km/h
	Terrain    model.Terrain
	Formation  model.Formation
	Position   model.Position
	Weather    model.Weather
	BikeWeight float64 // kg
	Endurance  float64 // stamina stat 0..100
	IsLeading  bool
}

// StaminaConsumption is the stamina in percentage points used over the
// given distance, clamped to [0,100].
func StaminaConsumption(p ConsumptionParams) float64 {
	if p.Distance <= 0 || p.Speed <= 0 {
		return 0
	}
	c := baseConsumption * math.Pow(p.Speed/25, 1.5)
	c *= TerrainConsumption(p.Terrain)
	c *= 1 - FormationStaminaSaving(p.Formation, p.Position)
	if p.IsLeading {
		c *= 1.5
	}
	c *= WeatherConsumption(p.Weather)
	c *= math.Max(0.9, 1+(p.BikeWeight-7)*0.01)
	c *= 1 - clamp(p.Endurance, 0, 100)/100*0.3
	c *= p.Distance
	if math.IsNaN(c) {
		return 0
	}
	return clamp(c, 0, 100)
}
