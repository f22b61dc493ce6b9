package formula

import (
	"fmt"
	"math"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

type SegmentTimeParams struct {
	Distance     float64 // km
	AverageSpeed float64 // km/h
	Terrain      model.Terrain
	Weather      model.Weather
	EventDelays  float64 // minutes
}

// SegmentTime estimates the minutes needed for a segment.
func SegmentTime(p SegmentTimeParams) float64 {
	speed := p.AverageSpeed * TerrainMultiplier(p.Terrain) * WeatherEffect(p.Weather)
	if speed <= 0 {
		speed = MinSpeed
	}
	return p.Distance/speed*60 + math.Max(0, p.EventDelays)
}

type TimeBreakdown struct {
	SegmentTotal float64 `json:"segmentTotal"` // minutes
	Bonuses      float64 `json:"bonuses"`
	Penalties    float64 `json:"penalties"`
	Total        float64 `json:"total"`
}

// TotalTime sums segment minutes, subtracts bonuses and adds penalties.
// The total never drops below zero.
func TotalTime(segmentMinutes, bonuses, penalties []float64) TimeBreakdown {
	ret := TimeBreakdown{}
	for _, v := range segmentMinutes {
		ret.SegmentTotal += v
	}
	for _, v := range bonuses {
		ret.Bonuses += v
	}
	for _, v := range penalties {
		ret.Penalties += v
	}
	ret.Total = math.Max(0, ret.SegmentTotal-ret.Bonuses+ret.Penalties)
	return ret
}

// FormatDuration renders seconds as H:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
