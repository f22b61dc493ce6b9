package event

import (
	"math"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const defaultEffectDuration = 600 // seconds

// Apply merges a resolution into state. Stamina and morale are clamped to
// [0,100]; the event is appended to the history and marked as triggered.
func Apply(state *model.RaceState, res Resolution) {
	eff := res.Effects
	mod := res.Modifiers

	if eff.TimeDelay > 0 {
		state.TimeElapsed += math.Max(0, eff.TimeDelay-mod.TimeReduction*60)
	}
	if res.Repair {
		kept := make([]model.ActiveEffect, 0, len(state.ActiveEffects))
		for _, a := range state.ActiveEffects {
			if a.Category != model.CategoryMechanical {
				kept = append(kept, a)
			}
		}
		state.ActiveEffects = kept
	}
	if eff.Weather != "" {
		if eff.Weather.IsBad() && eff.Weather != state.Weather {
			state.Stats.WeatherChallenges++
		}
		state.Weather = eff.Weather
	}
	if eff.HasModifiers() {
		duration := eff.Duration
		if duration <= 0 {
			duration = defaultEffectDuration
		}
		speed := neutral(eff.SpeedModifier)
		if eff.SpeedModifier != 0 {
			speed += mod.SpeedBonus
		}
		state.ActiveEffects = append(state.ActiveEffects, model.ActiveEffect{
			Source:        res.Template.ID,
			Category:      res.Template.Category,
			SpeedModifier: speed,
			StaminaDrain:  neutral(eff.StaminaDrain),
			Supplies:      eff.Supplies,
			ExpiresAt:     state.TimeElapsed + duration,
			RevertWeather: eff.Weather != "" && eff.Weather != model.WeatherClear,
		})
	}
	if eff.StaminaDelta != 0 {
		delta := eff.StaminaDelta
		if delta < 0 {
			delta *= 1 - clamp(mod.StaminaReduction, 0, 1)
		}
		for i := range state.Team.Members {
			m := &state.Team.Members[i]
			if m.Dropped {
				continue
			}
			m.CurrentStamina = clamp(m.CurrentStamina+delta, 0, 100)
		}
	}
	if eff.MoraleDelta != 0 {
		state.Team.Morale = clamp(state.Team.Morale+eff.MoraleDelta, 0, 100)
	}
	if eff.FormationBreak && state.Team.Formation != model.FormationSolo {
		state.Team.Formation = model.FormationSolo
		state.Stats.FormationBreaks++
	}
	if eff.TeamDisband {
		state.TeamIntegrity = 0
	}

	state.Stats.EventsHandled++
	//nolint:exhaustive // only these categories are counted
	switch res.Template.Category {
	case model.CategoryMechanical:
		state.Stats.MechanicalFailures++
	case model.CategorySupply:
		if len(res.Choices) > 0 && res.Choices[0] != string(model.SupplySkip) {
			state.Stats.SupplyStops++
		}
	}

	state.Events = append(state.Events, model.EventRecord{
		EventID:     res.Template.ID,
		Name:        res.Template.Name,
		Category:    res.Template.Category,
		Timestamp:   state.TimeElapsed,
		Distance:    state.Distance,
		Choices:     res.Choices,
		Description: res.Description,
		Effects:     eff,
	})
	if res.Template.Category != model.CategorySupply && !state.HasTriggered(res.Template.ID) {
		state.TriggeredEvents = append(state.TriggeredEvents, res.Template.ID)
	}
	state.DistanceSinceLastEvent = 0
}

// RecentEvents returns up to n of the latest history entries, newest last.
func RecentEvents(state *model.RaceState, n int) []model.EventRecord {
	if n <= 0 {
		return nil
	}
	start := max(0, len(state.Events)-n)
	return append([]model.EventRecord(nil), state.Events[start:]...)
}

func neutral(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}
