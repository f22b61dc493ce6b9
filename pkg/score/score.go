// Package score turns a race summary into the final score and grade.
package score

import (
	"github.com/mpapenbr/bikechallenge/pkg/formula"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const (
	// DefaultTargetTime is the par time in minutes.
	DefaultTargetTime = float64(model.TargetTime) / 60
	// MountainKingSpeed is the average climb speed in km/h needed for the
	// mountainKing achievement.
	MountainKingSpeed = 22.0
)

// Input holds the scoring values; times are in minutes.
type Input = formula.ScoreParams

type Metrics struct {
	CompletionTime string  `json:"completionTime"`
	TimeSaved      float64 `json:"timeSaved"` // minutes
	TeamIntegrity  float64 `json:"teamIntegrity"`
	SuppliesUsed   int     `json:"suppliesUsed"`
	EventsHandled  int     `json:"eventsHandled"`
	Achievements   int     `json:"achievements"`
}

type Result struct {
	TotalScore   int                    `json:"totalScore"`
	Breakdown    formula.ScoreBreakdown `json:"breakdown"`
	Metrics      Metrics                `json:"metrics"`
	Grade        string                 `json:"grade"`
	Achievements []model.Achievement    `json:"achievements"`
}

func CalculateFinalScore(in Input) Result {
	total := formula.FinalScore(in)
	return Result{
		TotalScore: total,
		Breakdown:  formula.Breakdown(in),
		Metrics: Metrics{
			CompletionTime: formula.FormatDuration(in.CompletionTime * 60),
			TimeSaved:      max(0, in.TargetTime-in.CompletionTime),
			TeamIntegrity:  in.TeamIntegrity,
			SuppliesUsed:   in.SuppliesUsed,
			EventsHandled:  in.EventsHandled,
			Achievements:   len(in.SpecialAchievements),
		},
		Grade:        Grade(total),
		Achievements: in.SpecialAchievements,
	}
}

// FromSummary derives the scoring input of a race. Unfinished races get no
// time bonus and no achievements. target is in minutes, 0 selects
// DefaultTargetTime.
func FromSummary(s model.Summary, target float64) Input {
	if target <= 0 {
		target = DefaultTargetTime
	}
	in := Input{
		CompletionTime: s.CompletionTime / 60,
		TargetTime:     target,
		TeamIntegrity:  s.TeamIntegrity,
		SuppliesUsed:   s.Stats.SupplyStops,
		EventsHandled:  s.Stats.EventsHandled,
		Difficulty:     s.Difficulty,
	}
	if !s.Completed {
		in.CompletionTime = max(in.CompletionTime, target)
		return in
	}
	in.SpecialAchievements = Achievements(s, target)
	return in
}

// Achievements lists the special achievements earned in a completed race.
func Achievements(s model.Summary, target float64) []model.Achievement {
	ret := []model.Achievement{}
	if !s.Completed {
		return ret
	}
	minutes := s.CompletionTime / 60
	add := func(a model.Achievement, cond bool) {
		if cond {
			ret = append(ret, a)
		}
	}
	add(model.AchievementNoDropout, s.TeamFinished == s.TotalTeamSize)
	add(model.AchievementPerfectFormation,
		s.Stats.FormationChanges == 0 && s.Stats.FormationBreaks == 0)
	add(model.AchievementMountainKing, s.Stats.ClimbSpeed() >= MountainKingSpeed)
	add(model.AchievementSpeedDemon, minutes < 0.9*target)
	add(model.AchievementIronWill, s.AverageFatigue > 0.7)
	add(model.AchievementWeatherMaster, s.Stats.WeatherChallenges >= 2)
	add(model.AchievementMechanicalGenius, s.Stats.MechanicalFailures >= 1)
	add(model.AchievementTeamHarmony, s.FinalMorale >= 80)
	return ret
}

// Grade maps an absolute score to a letter grade.
func Grade(score int) string {
	switch {
	case score >= 20000:
		return "S"
	case score >= 17000:
		return "A"
	case score >= 14000:
		return "B"
	case score >= 12000:
		return "C"
	case score >= 10000:
		return "D"
	default:
		return "E"
	}
}

// Rank places score within a population of earlier scores.
func Rank(score int, population []int) formula.RankInfo {
	return formula.Ranking(score, population)
}
