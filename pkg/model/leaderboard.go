package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// LeaderboardEntry is an accepted result on the global leaderboard.
type LeaderboardEntry struct {
	ID              uuid.UUID       `json:"id"`
	PlayerID        string          `json:"playerId"`
	PlayerName      string          `json:"playerName"`
	TotalScore      int             `json:"totalScore"`
	CompletionTime  float64         `json:"completionTime"` // seconds
	AvgSpeed        decimal.Decimal `json:"avgSpeed"`       // km/h, two decimals
	TeamFinished    int             `json:"teamFinished"`
	TotalTeamSize   int             `json:"totalTeamSize"`
	TeamComposition []string        `json:"teamComposition"`
	Difficulty      Difficulty      `json:"difficulty"`
	Checksum        string          `json:"checksum"`
	SubmittedAt     time.Time       `json:"submittedAt"`
}

// Better reports whether e ranks ahead of other: higher score first, then
// faster completion, then earlier submission.
func (e *LeaderboardEntry) Better(other *LeaderboardEntry) bool {
	if e.TotalScore != other.TotalScore {
		return e.TotalScore > other.TotalScore
	}
	if e.CompletionTime != other.CompletionTime {
		return e.CompletionTime < other.CompletionTime
	}
	return e.SubmittedAt.Before(other.SubmittedAt)
}
