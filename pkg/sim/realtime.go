package sim

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/race"
)

var ErrInvalidMultiplier = errors.New("invalid speed multiplier")

// SpeedMultipliers are the supported real-time compression factors.
var SpeedMultipliers = []float64{1, 5, 10, 50}

type (
	// RealtimeDriver advances a race with the elapsed wall-clock time.
	// It owns its state and is not safe for concurrent use.
	RealtimeDriver struct {
		sim        *race.Simulator
		state      model.RaceState
		multiplier float64
		frame      int
		sink       chan<- Snapshot
		hook       func(model.RaceState)
		m          *metrics
		l          *log.Logger
	}
	DriverOption func(*RealtimeDriver)
)

func WithSpeedMultiplier(m float64) DriverOption {
	return func(d *RealtimeDriver) {
		if slices.Contains(SpeedMultipliers, m) {
			d.multiplier = m
		}
	}
}

// WithSnapshotSink publishes a snapshot after every frame. Snapshots are
// dropped while the receiver is busy, except the terminal one, which is
// always delivered.
func WithSnapshotSink(ch chan<- Snapshot) DriverOption {
	return func(d *RealtimeDriver) {
		d.sink = ch
	}
}

// WithFrameHook calls hook with the new state after every frame that moved
// the race.
func WithFrameHook(hook func(model.RaceState)) DriverOption {
	return func(d *RealtimeDriver) {
		d.hook = hook
	}
}

func WithDriverLogger(l *log.Logger) DriverOption {
	return func(d *RealtimeDriver) {
		d.l = l
	}
}

func NewRealtimeDriver(
	s *race.Simulator,
	state model.RaceState,
	opts ...DriverOption,
) *RealtimeDriver {
	ret := &RealtimeDriver{
		sim:        s,
		state:      state,
		multiplier: 1,
		l:          log.Default().Named("sim"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.m = newMetrics("realtime", ret.l)
	return ret
}

// Frame advances the race by wallDelta times the speed multiplier.
// The returned flag reports whether the race moved.
func (d *RealtimeDriver) Frame(wallDelta time.Duration) (model.RaceState, bool) {
	if d.state.IsPaused || d.state.IsComplete || wallDelta <= 0 {
		return d.state, false
	}
	before := len(d.state.Events)
	d.state = d.sim.Tick(d.state, wallDelta.Seconds()*d.multiplier)
	d.frame++
	d.m.frame(context.Background(), len(d.state.Events)-before)
	d.publish()
	if d.hook != nil {
		d.hook(d.state)
	}
	if d.state.IsComplete {
		d.m.run(context.Background())
		d.l.Info("race finished",
			log.Bool("failed", d.state.Failed),
			log.Float64("distance", d.state.Distance),
			log.Float64("time", d.state.TimeElapsed))
	}
	return d.state, true
}

func (d *RealtimeDriver) publish() {
	if d.sink == nil {
		return
	}
	snap := TakeSnapshot(d.frame, d.state, d.sim.Catalog().Route())
	if d.state.IsComplete {
		d.sink <- snap
		return
	}
	select {
	case d.sink <- snap:
	default:
	}
}

func (d *RealtimeDriver) Pause() {
	d.state = race.TogglePause(d.state, true)
}

func (d *RealtimeDriver) Resume() {
	d.state = race.TogglePause(d.state, false)
}

func (d *RealtimeDriver) Paused() bool {
	return d.state.IsPaused
}

func (d *RealtimeDriver) State() model.RaceState {
	return d.state
}

func (d *RealtimeDriver) SpeedMultiplier() float64 {
	return d.multiplier
}

func (d *RealtimeDriver) SetSpeedMultiplier(m float64) error {
	if !slices.Contains(SpeedMultipliers, m) {
		return fmt.Errorf("%w: %v", ErrInvalidMultiplier, m)
	}
	d.multiplier = m
	return nil
}

// Run advances the race on every tick until it completes or ctx is done.
func (d *RealtimeDriver) Run(ctx context.Context, ticks <-chan time.Time) error {
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			delta := now.Sub(last)
			last = now
			if state, _ := d.Frame(delta); state.IsComplete {
				return nil
			}
		}
	}
}
