package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/event"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/race"
)

var ErrUnreachableTermination = errors.New("race did not finish within the frame limit")

const (
	DefaultTargetDuration    = 30 * time.Second
	DefaultFPS               = 30
	DefaultEstimatedRaceTime = model.TargetTime * time.Second
	DefaultMaxSnapshots      = 100
)

type FastForwardConfig struct {
	Team       model.TeamConfig
	Bike       model.BikeLoadout
	Strategy   model.StrategyConfig
	Difficulty model.Difficulty
	// TargetDuration is the wall-clock length of the replay.
	TargetDuration    time.Duration
	FPS               int
	EstimatedRaceTime time.Duration
	Seed              uint64
	Rand              event.RandSource // takes precedence over Seed
	MaxSnapshots      int
	Catalog           *catalog.Catalog
	Logger            *log.Logger
}

type FastForwardResult struct {
	Snapshots      []Snapshot           `json:"snapshots"`
	Summary        model.Summary        `json:"summary"`
	FinalState     model.RaceState      `json:"finalState"`
	TotalFrames    int                  `json:"totalFrames"`
	TargetDuration time.Duration        `json:"targetDuration"`
	FPS            int                  `json:"fps"`
	Strategy       model.StrategyConfig `json:"strategy"`
}

func (c FastForwardConfig) withDefaults() FastForwardConfig {
	if c.TargetDuration <= 0 {
		c.TargetDuration = DefaultTargetDuration
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.EstimatedRaceTime <= 0 {
		c.EstimatedRaceTime = DefaultEstimatedRaceTime
	}
	if c.MaxSnapshots <= 0 {
		c.MaxSnapshots = DefaultMaxSnapshots
	}
	if c.Difficulty == "" {
		c.Difficulty = model.DifficultyNormal
	}
	if c.Catalog == nil {
		c.Catalog = catalog.Default()
	}
	if c.Logger == nil {
		c.Logger = log.Default().Named("sim")
	}
	c.Strategy = c.Strategy.WithDefaults()
	return c
}

// RunFastForward simulates a whole race compressed into
// TargetDuration·FPS frames. Runs which do not finish within twice that
// many frames return the partial result along with ErrUnreachableTermination.
//
//nolint:funlen // many tasks to do here
func RunFastForward(ctx context.Context, cfg FastForwardConfig) (*FastForwardResult, error) {
	cfg = cfg.withDefaults()
	state, err := race.InitializeRaceState(cfg.Team, cfg.Bike, cfg.Strategy,
		race.WithDifficulty(cfg.Difficulty),
		race.WithCatalog(cfg.Catalog))
	if err != nil {
		return nil, err
	}

	simOpts := []race.Option{race.WithLogger(cfg.Logger.Named("race"))}
	if cfg.Rand != nil {
		simOpts = append(simOpts, race.WithRand(cfg.Rand))
	} else {
		simOpts = append(simOpts, race.WithSeed(cfg.Seed))
	}
	s := race.NewSimulator(cfg.Catalog, simOpts...)
	m := newMetrics("fastforward", cfg.Logger)
	route := cfg.Catalog.Route()

	compression := cfg.EstimatedRaceTime.Seconds() / cfg.TargetDuration.Seconds()
	dt := compression / float64(cfg.FPS)
	plannedFrames := int(math.Ceil(cfg.TargetDuration.Seconds() * float64(cfg.FPS)))
	maxFrames := plannedFrames * 2
	interval := max(1, int(math.Ceil(float64(plannedFrames)/float64(cfg.MaxSnapshots))))

	cfg.Logger.Debug("fast forward",
		log.Float64("compression", compression),
		log.Float64("dt", dt),
		log.Int("maxFrames", maxFrames),
		log.Int("interval", interval))

	snapshots := []Snapshot{TakeSnapshot(0, state, route)}
	frame := 0
	for frame < maxFrames && !state.IsComplete {
		if err := ctx.Err(); err != nil {
			return result(cfg, snapshots, state, frame), err
		}
		before := len(state.Events)
		state = s.Tick(state, dt)
		frame++
		m.frame(ctx, len(state.Events)-before)
		if frame%interval == 0 || state.IsComplete {
			snapshots = append(snapshots, TakeSnapshot(frame, state, route))
		}
	}
	if snapshots[len(snapshots)-1].Frame != frame {
		snapshots = append(snapshots, TakeSnapshot(frame, state, route))
	}
	ret := result(cfg, thin(snapshots, cfg.MaxSnapshots), state, frame)
	if !state.IsComplete {
		return ret, fmt.Errorf("%w: %d frames, %.1f of %.1f km",
			ErrUnreachableTermination, frame, state.Distance, state.TotalDistance)
	}
	m.run(ctx)
	cfg.Logger.Debug("fast forward done",
		log.Int("frames", frame),
		log.Int("snapshots", len(ret.Snapshots)),
		log.Bool("failed", state.Failed))
	return ret, nil
}

func result(
	cfg FastForwardConfig,
	snapshots []Snapshot,
	state model.RaceState,
	frames int,
) *FastForwardResult {
	return &FastForwardResult{
		Snapshots:      snapshots,
		Summary:        race.GetSummary(state),
		FinalState:     state,
		TotalFrames:    frames,
		TargetDuration: cfg.TargetDuration,
		FPS:            cfg.FPS,
		Strategy:       cfg.Strategy,
	}
}
