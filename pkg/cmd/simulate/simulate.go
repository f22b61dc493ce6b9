package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/cmd/cmdutil"
	"github.com/mpapenbr/bikechallenge/pkg/config"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/score"
	"github.com/mpapenbr/bikechallenge/pkg/sim"
	"github.com/mpapenbr/bikechallenge/pkg/storage"
)

var (
	raceConfig     config.RaceConfig
	duration       time.Duration
	fps            int
	estimated      time.Duration
	withSnapshots  bool
	saveKey        string
	selectorFilter string
)

type output struct {
	Summary   model.Summary  `json:"summary"`
	Score     score.Result   `json:"score"`
	Frames    int            `json:"frames"`
	Snapshots []sim.Snapshot `json:"snapshots,omitempty"`
}

func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "runs a complete race in fast-forward mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmdutil.AddRaceFlags(cmd, &raceConfig)
	cmd.Flags().DurationVar(&duration, "duration", sim.DefaultTargetDuration,
		"wall-clock length of the compressed race")
	cmd.Flags().IntVar(&fps, "fps", sim.DefaultFPS, "frames per second")
	cmd.Flags().DurationVar(&estimated, "estimated-race-time",
		sim.DefaultEstimatedRaceTime, "race time used to compute the frame step")
	cmd.Flags().BoolVar(&withSnapshots, "snapshots", false,
		"include the snapshots in the output")
	cmd.Flags().StringVar(&saveKey, "save-key", "",
		"stores the final race state with this key")
	cmd.Flags().StringVar(&selectorFilter, "select", "",
		"JSONPath applied to json output, for example '$.summary'")
	return cmd
}

func runSimulation(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cmdutil.SetupLogger()
	cat := catalog.Default()
	setup, err := cmdutil.BuildRace(cat, &raceConfig)
	if err != nil {
		return err
	}

	res, err := sim.RunFastForward(ctx, sim.FastForwardConfig{
		Team:              setup.Team,
		Bike:              setup.Bike,
		Strategy:          setup.Strategy,
		Difficulty:        setup.Difficulty,
		TargetDuration:    duration,
		FPS:               fps,
		EstimatedRaceTime: estimated,
		Seed:              seed(),
		Catalog:           cat,
		Logger:            logger.Named("sim"),
	})
	switch {
	case errors.Is(err, sim.ErrUnreachableTermination):
		logger.Warn("race did not finish", log.ErrorField(err))
	case err != nil:
		return err
	}

	if saveKey != "" {
		saveState(ctx, res)
	}

	result := score.CalculateFinalScore(
		score.FromSummary(res.Summary, score.DefaultTargetTime))
	out := output{Summary: res.Summary, Score: result, Frames: res.TotalFrames}
	if withSnapshots {
		out.Snapshots = res.Snapshots
	}
	if cmdutil.JSONOutput() {
		return cmdutil.WriteJSON(w, out, selectorFilter)
	}
	printText(w, res, result)
	return nil
}

func seed() uint64 {
	if raceConfig.Seed != 0 {
		return raceConfig.Seed
	}
	return uint64(time.Now().UnixNano())
}

func saveState(ctx context.Context, res *sim.FastForwardResult) {
	store, closer, err := cmdutil.StateStore(ctx)
	if err != nil {
		log.Warn("state store not available", log.ErrorField(err))
		return
	}
	defer closer()
	storage.NewResilient(store).Save(ctx, saveKey, res.FinalState)
	log.Info("race state saved", log.String("key", saveKey))
}

func printText(w io.Writer, res *sim.FastForwardResult, r score.Result) {
	s := res.Summary
	status := "finished"
	switch {
	case s.Failed:
		status = "abandoned"
	case !s.Completed:
		status = "unfinished"
	}
	fmt.Fprintf(w, "Race %s after %s (%d frames)\n",
		status, time.Duration(s.CompletionTime*float64(time.Second)).Round(time.Second),
		res.TotalFrames)
	fmt.Fprintf(w, "Distance:   %.1f / %.1f km\n", s.FinalDistance, s.TotalDistance)
	fmt.Fprintf(w, "Team:       %d of %d riders, integrity %.0f%%, morale %.0f\n",
		s.TeamFinished, s.TotalTeamSize, s.TeamIntegrity, s.FinalMorale)
	fmt.Fprintf(w, "Events:     %d, supply stops %d, formation changes %d\n",
		s.Stats.EventsHandled, s.Stats.SupplyStops, s.Stats.FormationChanges)
	fmt.Fprintf(w, "Score:      %d (%s)\n", r.TotalScore, r.Grade)
	for _, a := range r.Achievements {
		fmt.Fprintf(w, "  * %s\n", a)
	}
	if withSnapshots {
		for i := range res.Snapshots {
			snap := &res.Snapshots[i]
			fmt.Fprintf(w, "%5d %7.1f km %6.1f km/h morale %5.1f %s\n",
				snap.Frame, snap.Distance, snap.Speed, snap.Morale, snap.Terrain)
		}
	}
}
