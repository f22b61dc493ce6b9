package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/cmd/cmdutil"
	"github.com/mpapenbr/bikechallenge/pkg/config"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/race"
	"github.com/mpapenbr/bikechallenge/pkg/score"
	"github.com/mpapenbr/bikechallenge/pkg/sim"
	"github.com/mpapenbr/bikechallenge/pkg/storage"
	"github.com/mpapenbr/bikechallenge/pkg/utils/broadcast"
)

var (
	raceConfig     config.RaceConfig
	speed          float64
	tickInterval   time.Duration
	reportDistance float64
	saveInterval   float64
	resumeKey      string
	stream         bool
)

func NewPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "runs a race in real time",
		Long: `Runs a race against the wall clock. The speed multiplier compresses
the race time (1, 5, 10 or 50). Progress is logged and the race state is
saved periodically so an interrupted race can be resumed with --resume.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()
			return play(ctx, cmd.OutOrStdout())
		},
	}
	cmdutil.AddRaceFlags(cmd, &raceConfig)
	cmd.Flags().Float64Var(&speed, "speed", 50,
		"speed multiplier (1, 5, 10, 50)")
	cmd.Flags().DurationVar(&tickInterval, "tick", 100*time.Millisecond,
		"wall-clock interval between frames")
	cmd.Flags().Float64Var(&reportDistance, "report-every", 10,
		"progress report interval in km")
	cmd.Flags().Float64Var(&saveInterval, "save-every", 25,
		"race state save interval in km (0 disables saving)")
	cmd.Flags().StringVar(&resumeKey, "resume", "",
		"resume the race stored with this key")
	cmd.Flags().BoolVar(&stream, "stream", false,
		"writes every snapshot as a json line to stdout")
	return cmd
}

//nolint:funlen // many tasks to do here
func play(ctx context.Context, w io.Writer) error {
	logger := cmdutil.SetupLogger()
	cat := catalog.Default()
	simOpts := []race.Option{race.WithLogger(logger.Named("race"))}
	if raceConfig.Seed != 0 {
		simOpts = append(simOpts, race.WithSeed(raceConfig.Seed))
	}
	s := race.NewSimulator(cat, simOpts...)

	store, closer, err := cmdutil.StateStore(ctx)
	if err != nil {
		logger.Warn("state store not available, keeping states in memory", log.ErrorField(err))
		store, closer = storage.NewMemoryStore(), func() {}
	}
	defer closer()
	states := storage.NewResilient(store)

	state, key, err := startState(ctx, cat, states)
	if err != nil {
		return err
	}

	snapshots := make(chan sim.Snapshot, 1)
	driver := sim.NewRealtimeDriver(s, state,
		sim.WithSpeedMultiplier(speed),
		sim.WithSnapshotSink(snapshots),
		sim.WithFrameHook(periodicSave(ctx, states, key, state.Distance)),
		sim.WithDriverLogger(logger.Named("sim")))
	if driver.SpeedMultiplier() != speed {
		return fmt.Errorf("%w: %v", sim.ErrInvalidMultiplier, speed)
	}

	fanout := broadcast.NewBroadcastServer("play", snapshots,
		broadcast.WithSendTimeout[sim.Snapshot](time.Second),
		broadcast.WithLogger[sim.Snapshot](logger.Named("broadcast")))
	defer fanout.Close()
	var wg sync.WaitGroup
	progress := fanout.Subscribe()
	wg.Go(func() { reportProgress(logger, progress) })
	if stream {
		lines := fanout.Subscribe()
		wg.Go(func() { streamSnapshots(w, lines) })
	}

	logger.Info("race started",
		log.String("key", key),
		log.Float64("speed", driver.SpeedMultiplier()))
	ticker := time.NewTicker(tickInterval)
	runErr := driver.Run(ctx, ticker.C)
	ticker.Stop()
	// the server forwards what is still buffered and closes the subscribers
	close(snapshots)
	wg.Wait()

	final := driver.State()
	if errors.Is(runErr, context.Canceled) {
		states.Save(context.Background(), key, final)
		logger.Info("race interrupted, state saved", log.String("key", key))
		return nil
	}
	if runErr != nil {
		return runErr
	}
	states.Delete(ctx, key)

	summary := race.GetSummary(final)
	result := score.CalculateFinalScore(
		score.FromSummary(summary, score.DefaultTargetTime))
	if cmdutil.JSONOutput() {
		return cmdutil.WriteJSON(w, map[string]any{
			"summary": summary,
			"score":   result,
		}, "")
	}
	fmt.Fprintf(w, "Race complete: %.1f km in %s, %d of %d riders, score %d (%s)\n",
		summary.FinalDistance,
		time.Duration(summary.CompletionTime*float64(time.Second)).Round(time.Second),
		summary.TeamFinished, summary.TotalTeamSize, result.TotalScore, result.Grade)
	return nil
}

func startState(
	ctx context.Context,
	cat *catalog.Catalog,
	states *storage.Resilient,
) (state model.RaceState, key string, err error) {
	if resumeKey != "" {
		if st, ok := states.Load(ctx, resumeKey); ok {
			return race.TogglePause(st, false), resumeKey, nil
		}
		return state, "", fmt.Errorf("%w: %s", storage.ErrNotFound, resumeKey)
	}
	setup, err := cmdutil.BuildRace(cat, &raceConfig)
	if err != nil {
		return state, "", err
	}
	opts := []race.InitOption{
		race.WithCatalog(cat),
		race.WithDifficulty(setup.Difficulty),
		race.WithID(uuid.NewString()),
	}
	if raceConfig.BudgetCheck {
		opts = append(opts, race.WithBudgetCheck())
	}
	state, err = race.InitializeRaceState(setup.Team, setup.Bike, setup.Strategy, opts...)
	if err != nil {
		return state, "", err
	}
	return state, state.ID, nil
}

func reportProgress(logger *log.Logger, ch <-chan sim.Snapshot) {
	next := 0.0
	for snap := range ch {
		if snap.Distance < next && !snap.Complete {
			continue
		}
		next = snap.Distance + reportDistance
		logger.Info("progress",
			log.Float64("km", snap.Distance),
			log.Float64("speed", snap.Speed),
			log.Float64("morale", snap.Morale),
			log.String("terrain", string(snap.Terrain)),
			log.String("weather", string(snap.Weather)),
			log.Duration("elapsed", time.Duration(snap.TimeElapsed*float64(time.Second))))
	}
}

// periodicSave returns a frame hook which saves the state every
// saveInterval km.
func periodicSave(
	ctx context.Context,
	states *storage.Resilient,
	key string,
	start float64,
) func(model.RaceState) {
	nextSave := start + saveInterval
	return func(state model.RaceState) {
		if saveInterval <= 0 || state.IsComplete || state.Distance < nextSave {
			return
		}
		nextSave = state.Distance + saveInterval
		states.Save(ctx, key, state)
	}
}

func streamSnapshots(w io.Writer, ch <-chan sim.Snapshot) {
	for snap := range ch {
		if err := cmdutil.WriteJSONLine(w, snap); err != nil {
			log.Warn("could not write snapshot", log.ErrorField(err))
		}
	}
}
