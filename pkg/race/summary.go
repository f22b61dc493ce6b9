package race

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

// GetSummary projects a race state to the values used for scoring.
func GetSummary(state model.RaceState) model.Summary {
	members := state.Team.Members
	n := len(members)
	fatigue := 0.0
	if n > 0 {
		sum := lo.SumBy(members, func(m model.TeamMember) float64 { return m.CurrentStamina })
		fatigue = 1 - sum/(float64(n)*100)
	}
	budget := state.Bike.TotalCost() + lo.SumBy(members, func(m model.TeamMember) int {
		return m.Archetype.Cost
	})
	return model.Summary{
		Completed:      state.IsComplete && !state.Failed,
		Failed:         state.Failed,
		CompletionTime: state.TimeElapsed,
		FinalDistance:  state.Distance,
		TotalDistance:  state.TotalDistance,
		TeamFinished:   lo.CountBy(members, func(m model.TeamMember) bool { return !m.Dropped }),
		TotalTeamSize:  n,
		TeamIntegrity:  state.TeamIntegrity,
		AverageFatigue: fatigue,
		FinalMorale:    state.Team.Morale,
		Stats:          state.Stats,
		Difficulty:     state.Difficulty,
		BudgetUsed:     budget,
		Composition: lo.Map(members, func(m model.TeamMember, _ int) string {
			return m.Archetype.ID
		}),
	}
}
