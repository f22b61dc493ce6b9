package leaderboard

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/bikechallenge/pkg/cmd/cmdutil"
	"github.com/mpapenbr/bikechallenge/pkg/config"
	"github.com/mpapenbr/bikechallenge/pkg/leaderboard"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

var (
	submission leaderboard.Submission
	difficulty string
	page       int
	pageSize   int
)

func NewLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "global leaderboard commands",
	}
	cmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"adds the otel tracer to database queries")
	cmd.AddCommand(newSubmitCmd(), newTopCmd(), newBestCmd())
	return cmd
}

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "submits a race result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context,
				svc *leaderboard.Service,
			) error {
				submission.Difficulty = model.Difficulty(difficulty)
				res, err := svc.Submit(ctx, submission)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if cmdutil.JSONOutput() {
					return cmdutil.WriteJSON(w, res, "")
				}
				fmt.Fprintf(w, "Rank %d of %d (entry %s)\n",
					res.Rank, res.TotalPlayers, res.EntryID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&submission.PlayerID, "player-id", "", "player id")
	cmd.Flags().StringVar(&submission.PlayerName, "player-name", "", "display name")
	cmd.Flags().IntVar(&submission.TotalScore, "score", 0, "total score")
	cmd.Flags().Float64Var(&submission.CompletionTime, "completion-time", 0,
		"completion time in seconds")
	cmd.Flags().IntVar(&submission.TeamFinished, "team-finished", 0,
		"riders reaching the finish")
	cmd.Flags().IntVar(&submission.TotalTeamSize, "team-size", 0, "riders at the start")
	cmd.Flags().StringSliceVar(&submission.TeamComposition, "composition", []string{},
		"archetype ids of the team")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(model.DifficultyNormal),
		"difficulty")
	cmd.Flags().StringVar(&submission.Checksum, "checksum", "",
		"checksum of the result (verified when present)")
	return cmd
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "shows a leaderboard page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context,
				svc *leaderboard.Service,
			) error {
				p, err := svc.Page(ctx, page, pageSize)
				if err != nil {
					return err
				}
				printPage(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "size", leaderboard.DefaultPageSize, "page size")
	return cmd
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best playerId",
		Short: "shows the personal best of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context,
				svc *leaderboard.Service,
			) error {
				e, err := svc.PersonalBest(ctx, args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if cmdutil.JSONOutput() {
					return cmdutil.WriteJSON(w, e, "")
				}
				printEntry(w, 0, e)
				return nil
			})
		},
	}
	return cmd
}

func withService(
	ctx context.Context,
	f func(ctx context.Context, svc *leaderboard.Service) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cmdutil.SetupLogger()
	pool, err := cmdutil.ConnectDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	svc := leaderboard.NewService(leaderboard.NewPostgresStore(pool),
		leaderboard.WithLogger(logger.Named("leaderboard")))
	return f(ctx, svc)
}

func printPage(w io.Writer, p *leaderboard.Page) {
	if cmdutil.JSONOutput() {
		_ = cmdutil.WriteJSON(w, p, "")
		return
	}
	fmt.Fprintf(w, "Page %d of %d (%d entries)\n", p.Page, max(p.TotalPages, 1), p.Total)
	for i, e := range p.Entries {
		printEntry(w, (p.Page-1)*p.PageSize+i+1, e)
	}
}

func printEntry(w io.Writer, rank int, e *model.LeaderboardEntry) {
	prefix := "    "
	if rank > 0 {
		prefix = fmt.Sprintf("%3d.", rank)
	}
	h := int(e.CompletionTime) / 3600
	m := int(e.CompletionTime) % 3600 / 60
	s := int(e.CompletionTime) % 60
	fmt.Fprintf(w, "%s %-20s %6d  %02d:%02d:%02d  %s km/h  %d/%d  %s\n",
		prefix, e.PlayerName, e.TotalScore, h, m, s, e.AvgSpeed.StringFixed(1),
		e.TeamFinished, e.TotalTeamSize, e.Difficulty)
}
