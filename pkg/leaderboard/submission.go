// Package leaderboard validates race results and ranks them on a global
// leaderboard.
package leaderboard

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/score"
)

const (
	MaxPlausibleScore = 100000
	MinCompletionTime = 6 * 3600  // seconds
	MaxCompletionTime = 24 * 3600 // seconds
	MinAvgSpeed       = 15.0      // km/h
	MaxAvgSpeed       = 65.0      // km/h
)

var ErrScoreValidation = errors.New("score validation failed")

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrScoreValidation, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrScoreValidation
}

// Submission is a finished race offered to the leaderboard.
type Submission struct {
	PlayerID        string           `json:"playerId"`
	PlayerName      string           `json:"playerName"`
	TotalScore      int              `json:"totalScore"`
	CompletionTime  float64          `json:"completionTime"` // seconds
	TeamFinished    int              `json:"teamFinished"`
	TotalTeamSize   int              `json:"totalTeamSize"`
	TeamComposition []string         `json:"teamComposition"`
	Difficulty      model.Difficulty `json:"difficulty"`
	Checksum        string           `json:"checksum"`
}

// NewSubmission builds a signed submission from a race summary and its score.
func NewSubmission(playerID, playerName string, s model.Summary, r score.Result) Submission {
	sub := Submission{
		PlayerID:        playerID,
		PlayerName:      playerName,
		TotalScore:      r.TotalScore,
		CompletionTime:  s.CompletionTime,
		TeamFinished:    s.TeamFinished,
		TotalTeamSize:   s.TotalTeamSize,
		TeamComposition: s.Composition,
		Difficulty:      s.Difficulty,
	}
	sub.Checksum = Checksum(sub)
	return sub
}

// AvgSpeed in km/h over the full route.
func (s Submission) AvgSpeed() float64 {
	if s.CompletionTime <= 0 {
		return 0
	}
	return model.TotalDistance / (s.CompletionTime / 3600)
}

// Checksum is the hex sha256 over the ranking relevant fields.
func Checksum(s Submission) string {
	canonical := fmt.Sprintf("%s|%d|%.3f|%d|%d|%s|%s",
		s.PlayerID, s.TotalScore, s.CompletionTime, s.TeamFinished,
		s.TotalTeamSize, strings.Join(s.TeamComposition, ","), s.Difficulty)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Validate rejects implausible submissions. An empty checksum is not verified.
func Validate(s Submission) error {
	fail := func(format string, args ...any) error {
		return &ValidationError{Reason: fmt.Sprintf(format, args...)}
	}
	switch {
	case s.PlayerID == "":
		return fail("missing player id")
	case s.TotalScore < 0 || s.TotalScore > MaxPlausibleScore:
		return fail("score %d out of range", s.TotalScore)
	case s.CompletionTime < MinCompletionTime || s.CompletionTime > MaxCompletionTime:
		return fail("completion time %.0fs out of range", s.CompletionTime)
	case s.AvgSpeed() < MinAvgSpeed || s.AvgSpeed() > MaxAvgSpeed:
		return fail("average speed %.1f km/h unrealistic", s.AvgSpeed())
	case s.TotalTeamSize < model.MinTeamSize || s.TotalTeamSize > model.MaxTeamSize:
		return fail("team size %d out of range", s.TotalTeamSize)
	case s.TeamFinished < 0 || s.TeamFinished > s.TotalTeamSize:
		return fail("%d of %d riders finished", s.TeamFinished, s.TotalTeamSize)
	case len(s.TeamComposition) > 0 && len(s.TeamComposition) != s.TotalTeamSize:
		return fail("composition lists %d riders, team has %d",
			len(s.TeamComposition), s.TotalTeamSize)
	case s.Difficulty != "" && !s.Difficulty.Valid():
		return fail("unknown difficulty %q", s.Difficulty)
	case s.Checksum != "" && s.Checksum != Checksum(s):
		return fail("checksum mismatch")
	}
	return nil
}
