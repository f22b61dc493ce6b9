package formula

import (
	"math"
	"sort"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const BaseScore = 10000

type ScoreParams struct {
	CompletionTime      float64 // minutes
	TargetTime          float64 // minutes
	TeamIntegrity       float64 // percent
	SuppliesUsed        int
	EventsHandled       int
	SpecialAchievements []model.Achievement
	Difficulty          model.Difficulty
}

type ScoreBreakdown struct {
	Base                 float64 `json:"base"`
	TimeBonus            float64 `json:"timeBonus"`
	TeamBonus            float64 `json:"teamBonus"`
	EfficiencyBonus      float64 `json:"efficiencyBonus"`
	EventBonus           float64 `json:"eventBonus"`
	AchievementBonus     float64 `json:"achievementBonus"`
	DifficultyMultiplier float64 `json:"difficultyMultiplier"`
}

func (b ScoreBreakdown) Subtotal() float64 {
	return b.Base + b.TimeBonus + b.TeamBonus + b.EfficiencyBonus + b.EventBonus +
		b.AchievementBonus
}

// Breakdown computes the individual score components.
func Breakdown(p ScoreParams) ScoreBreakdown {
	b := ScoreBreakdown{
		Base:                 BaseScore,
		TimeBonus:            math.Max(0, (p.TargetTime-p.CompletionTime)*10),
		TeamBonus:            clamp(p.TeamIntegrity, 0, 100) * 20,
		EfficiencyBonus:      math.Max(0, float64(20-p.SuppliesUsed)*50),
		EventBonus:           float64(max(0, p.EventsHandled) * 500),
		DifficultyMultiplier: DifficultyMultiplier(p.Difficulty),
	}
	for _, a := range p.SpecialAchievements {
		b.AchievementBonus += float64(AchievementBonus(a))
	}
	return b
}

// FinalScore is the floored, difficulty-scaled total.
func FinalScore(p ScoreParams) int {
	b := Breakdown(p)
	return int(math.Floor(b.Subtotal() * b.DifficultyMultiplier))
}

type RankInfo struct {
	Rank       int     `json:"rank"`
	Total      int     `json:"total"`
	Percentile float64 `json:"percentile"`
	Grade      string  `json:"grade"`
}

// Ranking places score within all scores. The rank is 1-based, the
// percentile counts the share of scores strictly below.
func Ranking(score int, all []int) RankInfo {
	sorted := append([]int(nil), all...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	rank := 1
	below := 0
	for _, s := range sorted {
		if s > score {
			rank++
		}
		if s < score {
			below++
		}
	}
	percentile := 100.0
	if len(sorted) > 0 {
		percentile = float64(below) / float64(len(sorted)) * 100
	}
	return RankInfo{
		Rank:       rank,
		Total:      len(sorted),
		Percentile: percentile,
		Grade:      GradeForPercentile(percentile),
	}
}

func GradeForPercentile(p float64) string {
	switch {
	case p >= 95:
		return "S"
	case p >= 85:
		return "A"
	case p >= 70:
		return "B"
	case p >= 50:
		return "C"
	case p >= 30:
		return "D"
	default:
		return "E"
	}
}
