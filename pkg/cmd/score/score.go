package score

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/bikechallenge/pkg/cmd/cmdutil"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/score"
)

var (
	completion   float64
	target       float64
	integrity    float64
	supplies     int
	events       int
	difficulty   string
	achievements []string
	population   []int
)

func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "computes the final score of a race result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdutil.SetupLogger()
			return printScore(cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64Var(&completion, "completion-time", 720,
		"completion time in minutes")
	cmd.Flags().Float64Var(&target, "target-time", score.DefaultTargetTime,
		"target time in minutes")
	cmd.Flags().Float64Var(&integrity, "team-integrity", 100,
		"share of riders finishing in percent")
	cmd.Flags().IntVar(&supplies, "supplies", 0, "supply stops used")
	cmd.Flags().IntVar(&events, "events", 0, "events handled")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(model.DifficultyNormal),
		"difficulty (easy, normal, hard, extreme)")
	cmd.Flags().StringSliceVar(&achievements, "achievements", []string{},
		"achievements earned")
	cmd.Flags().IntSliceVar(&population, "population", []int{},
		"earlier scores used to compute the rank")
	return cmd
}

func printScore(w io.Writer) error {
	d := model.Difficulty(difficulty)
	if !d.Valid() {
		return fmt.Errorf("unknown difficulty %q", difficulty)
	}
	in := score.Input{
		CompletionTime: completion,
		TargetTime:     target,
		TeamIntegrity:  integrity,
		SuppliesUsed:   supplies,
		EventsHandled:  events,
		Difficulty:     d,
	}
	for _, a := range achievements {
		in.SpecialAchievements = append(in.SpecialAchievements, model.Achievement(a))
	}
	result := score.CalculateFinalScore(in)
	rank := score.Rank(result.TotalScore, population)

	if cmdutil.JSONOutput() {
		return cmdutil.WriteJSON(w, map[string]any{"score": result, "rank": rank}, "")
	}
	b := result.Breakdown
	fmt.Fprintf(w, "Total score: %d (%s)\n", result.TotalScore, result.Grade)
	fmt.Fprintf(w, "  base %.0f, time %.0f, team %.0f, efficiency %.0f, events %.0f, achievements %.0f, x%.2f\n",
		b.Base, b.TimeBonus, b.TeamBonus, b.EfficiencyBonus, b.EventBonus,
		b.AchievementBonus, b.DifficultyMultiplier)
	if len(population) > 0 {
		fmt.Fprintf(w, "Rank %d of %d, percentile %.0f (%s)\n",
			rank.Rank, rank.Total, rank.Percentile, rank.Grade)
	}
	return nil
}
