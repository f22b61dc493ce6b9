package event

import (
	"sort"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

type Recommendation struct {
	OptionID string        `json:"optionId"`
	Label    string        `json:"label"`
	Score    int           `json:"score"`
	Risk     Risk          `json:"risk"`
	Effects  model.Effects `json:"effects"`
}

// Recommend rates the first layer options of t for the current situation,
// best first.
func Recommend(t model.EventTemplate, state *model.RaceState) []Recommendation {
	opts := t.Layers[model.FirstLayer]
	ret := make([]Recommendation, 0, len(opts))
	avgStamina := state.AverageStamina()
	for _, o := range opts {
		score := 50
		if o.Effects.TimeDelay > 600 {
			score -= 20
		}
		if o.CrashRisk > 0.2 {
			score -= 15
		}
		if o.Effects.StaminaDelta > 0 && avgStamina < 50 {
			score += 15
		}
		if o.Effects.MoraleDelta > 0 && state.Team.Morale < 50 {
			score += 10
		}
		ret = append(ret, Recommendation{
			OptionID: o.ID,
			Label:    o.Label,
			Score:    score,
			Risk:     riskOf(o.CrashRisk),
			Effects:  o.Effects,
		})
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].Score > ret[j].Score })
	return ret
}

func riskOf(crashRisk float64) Risk {
	switch {
	case crashRisk >= 0.3:
		return RiskHigh
	case crashRisk >= 0.1:
		return RiskMedium
	default:
		return RiskLow
	}
}
