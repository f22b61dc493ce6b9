package formula

import (
	"math"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const (
	MinRecovery = 0.1 // percent per minute
	MaxRecovery = 5.0
)

type RecoveryParams struct {
	BaseRecovery float64 // recovery stat 0..100
	Speed        float64 // km/h
	IsResting    bool
	RestDuration float64 // minutes
	HasSupplies  bool
	TeamSupport  float64 // 0..100
	Morale       float64 // 0..100
	Weather      model.Weather
}

// RecoveryRate is the stamina regained in percent per minute, clamped to [0.1,5].
// Riders above 30 km/h do not recover, the lower clamp still applies.
func RecoveryRate(p RecoveryParams) float64 {
	r := p.BaseRecovery / 100
	switch {
	case p.IsResting:
		r *= 2 + math.Log10(math.Max(0, p.RestDuration)+1)/math.Log10(11)
	case p.Speed < 15:
		r *= 0.5
	case p.Speed > 30:
		r = 0
	default:
		r *= 0.3
	}
	if p.HasSupplies {
		r *= 1.5
	}
	r *= 1 + clamp(p.TeamSupport, 0, 100)/100*0.3
	r *= 0.5 + clamp(p.Morale, 0, 100)/100
	r *= WeatherRecovery(p.Weather)
	if math.IsNaN(r) {
		return MinRecovery
	}
	return clamp(r, MinRecovery, MaxRecovery)
}
