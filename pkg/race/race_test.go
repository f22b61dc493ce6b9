//nolint:thelper,funlen,lll // ok for tests
package race

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/testsupport/basedata"
)

// quietRand never lets an ambient event pass its roll.
type quietRand struct{}

func (quietRand) Float64() float64 { return 0.999999 }
func (quietRand) IntN(int) int     { return 0 }

func newQuietSimulator() *Simulator {
	return NewSimulator(catalog.Default(), WithRand(quietRand{}), WithLogger(log.Nop()))
}

func sampleState(t *testing.T) model.RaceState {
	state, err := InitializeRaceState(
		basedata.SampleTeam(), basedata.SampleBike(), basedata.SampleStrategy(),
		WithID("test"))
	require.NoError(t, err)
	return state
}

func countEvents(state model.RaceState, id string) int {
	ret := 0
	for _, e := range state.Events {
		if e.EventID == id {
			ret++
		}
	}
	return ret
}

func TestInitializeRaceState(t *testing.T) {
	state := sampleState(t)
	assert.Equal(t, "test", state.ID)
	assert.InDelta(t, 380.0, state.TotalDistance, 1e-9)
	assert.Len(t, state.Team.Members, 4)
	for _, m := range state.Team.Members {
		assert.InDelta(t, 100.0, m.CurrentStamina, 1e-9)
		assert.False(t, m.Dropped)
	}
	assert.InDelta(t, 100.0, state.Team.Morale, 1e-9)
	assert.Equal(t, 0, state.Team.CurrentLeader)
	assert.Equal(t, model.WeatherClear, state.Weather)
	assert.Equal(t, model.DifficultyNormal, state.Difficulty)
	assert.Equal(t, []bool{false, false, false, false, false}, state.StationsReached)
	assert.Equal(t, model.FormationSingleLine, state.Team.BaseFormation)

	generated, err := InitializeRaceState(basedata.SampleTeam(), basedata.SampleBike(), model.StrategyConfig{})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)
	assert.Equal(t, model.DefaultStrategy(), generated.Strategy)
}

func TestInitializeRaceStateInvalid(t *testing.T) {
	team := basedata.SampleTeam()
	bike := basedata.SampleBike()
	strategy := basedata.SampleStrategy()

	tests := []struct {
		name     string
		team     model.TeamConfig
		bike     model.BikeLoadout
		strategy model.StrategyConfig
		opts     []InitOption
		problems int
	}{
		{
			name:     "team too small",
			team:     model.TeamConfig{Members: team.Members[:1]},
			bike:     bike,
			strategy: strategy,
			problems: 1,
		},
		{
			name:     "team too large",
			team:     model.TeamConfig{Members: append(append([]model.CharacterArchetype{}, team.Members...), team.Members[0])},
			bike:     bike,
			strategy: strategy,
			problems: 1,
		},
		{
			name:     "unknown archetype and formation",
			team:     model.TeamConfig{Members: []model.CharacterArchetype{team.Members[0], {ID: "ghost"}}, Formation: "blob"},
			bike:     bike,
			strategy: strategy,
			problems: 2,
		},
		{
			name:     "incomplete bike",
			team:     team,
			bike:     model.BikeLoadout{},
			strategy: strategy,
			problems: 3,
		},
		{
			name:     "bad strategy",
			team:     team,
			bike:     bike,
			strategy: model.StrategyConfig{Pace: "crazy", RotationThreshold: 10},
			problems: 2,
		},
		{
			name:     "budget",
			team:     team,
			bike:     bike,
			strategy: strategy,
			opts:     []InitOption{WithBudgetCheck()},
			problems: 1,
		},
		{
			name:     "difficulty",
			team:     team,
			bike:     bike,
			strategy: strategy,
			opts:     []InitOption{WithDifficulty("nightmare")},
			problems: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InitializeRaceState(tt.team, tt.bike, tt.strategy, tt.opts...)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Len(t, cfgErr.Problems, tt.problems, cfgErr.Problems)
		})
	}
}

func TestTickNoop(t *testing.T) {
	s := newQuietSimulator()
	base := sampleState(t)

	tests := []struct {
		name  string
		state model.RaceState
		dt    float64
	}{
		{name: "paused", state: TogglePause(base, true), dt: 60},
		{name: "complete", state: func() model.RaceState { x := base.Clone(); x.IsComplete = true; return x }(), dt: 60},
		{name: "zero step", state: base, dt: 0},
		{name: "negative step", state: base, dt: -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Tick(tt.state, tt.dt)
			if diff := cmp.Diff(tt.state, got); diff != "" {
				t.Errorf("Tick() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTickDoesNotModifyInput(t *testing.T) {
	s := newQuietSimulator()
	state := sampleState(t)
	before := state.Clone()
	next := s.Tick(state, 60)
	if diff := cmp.Diff(before, state); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
	assert.Greater(t, next.Distance, 0.0)
	assert.InDelta(t, 60.0, next.TimeElapsed, 1e-9)
	assert.Greater(t, next.Speed, 0.0)
}

func TestRotateLeader(t *testing.T) {
	tests := []struct {
		name      string
		leader    int
		stamina   []float64
		dropped   []bool
		want      int
		rotations int
	}{
		{name: "leader above threshold", leader: 0, stamina: []float64{31, 90, 90, 90}, want: 0},
		{name: "freshest takes over", leader: 0, stamina: []float64{25, 60, 80, 80}, want: 2, rotations: 1},
		{name: "nobody fresher", leader: 0, stamina: []float64{25, 20, 10, 5}, want: 0},
		{name: "tie with leader", leader: 1, stamina: []float64{25, 25, 10, 10}, want: 1},
		{name: "dropped leader", leader: 3, stamina: []float64{10, 20, 15, 0}, dropped: []bool{false, false, false, true}, want: 1, rotations: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newQuietSimulator()
			state := sampleState(t)
			state.Team.CurrentLeader = tt.leader
			for i := range state.Team.Members {
				state.Team.Members[i].CurrentStamina = tt.stamina[i]
				if tt.dropped != nil {
					state.Team.Members[i].Dropped = tt.dropped[i]
				}
			}
			s.rotateLeader(&state)
			assert.Equal(t, tt.want, state.Team.CurrentLeader)
			assert.Equal(t, tt.rotations, state.Stats.LeaderRotations)
		})
	}
}

func TestStationsOncePerRace(t *testing.T) {
	s := newQuietSimulator()
	state := sampleState(t)
	state.Distance = 49.9

	state = s.Tick(state, 60)
	require.Greater(t, state.Distance, 50.0)
	assert.True(t, state.StationsReached[0])
	assert.Equal(t, 1, countEvents(state, "supply_station_rest"))

	state = TogglePause(state, true)
	paused := s.Tick(state, 60)
	assert.InDelta(t, state.Distance, paused.Distance, 1e-9)
	state = TogglePause(paused, false)

	// crossing the station again does not fire it a second time
	state.Distance = 49.9
	state = s.Tick(state, 60)
	assert.Equal(t, 1, countEvents(state, "supply_station_rest"))
	assert.Equal(t, 1, state.Stats.SupplyStops)
}

func TestClimbingFormation(t *testing.T) {
	tests := []struct {
		name      string
		climbing  model.ClimbingPreset
		onClimb   model.Formation
		wantSwaps int
	}{
		{name: "double", climbing: model.ClimbingDouble, onClimb: model.FormationDoublePaceline, wantSwaps: 2},
		{name: "single", climbing: model.ClimbingSingle, onClimb: model.FormationSingleLine, wantSwaps: 0},
		{name: "maintain", climbing: model.ClimbingMaintain, onClimb: model.FormationSingleLine, wantSwaps: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newQuietSimulator()
			state := sampleState(t)
			state.Strategy.Climbing = tt.climbing
			state.Distance = 60
			state = s.Tick(state, 60)
			assert.Equal(t, tt.onClimb, state.Team.Formation)

			state.Distance = 95
			state = s.Tick(state, 60)
			assert.Equal(t, model.FormationSingleLine, state.Team.Formation)
			assert.Equal(t, tt.wantSwaps, state.Stats.FormationChanges)
		})
	}

	t.Run("broken formation stays solo", func(t *testing.T) {
		s := newQuietSimulator()
		state := sampleState(t)
		state.Strategy.Climbing = model.ClimbingDouble
		state.Team.Formation = model.FormationSolo
		state.Distance = 60
		state = s.Tick(state, 60)
		assert.Equal(t, model.FormationSolo, state.Team.Formation)
		assert.Equal(t, 0, state.Stats.FormationChanges)
	})
}

func TestExpiredEffectRevertsWeather(t *testing.T) {
	s := newQuietSimulator()
	state := sampleState(t)
	state.TimeElapsed = 1000
	state.Weather = model.WeatherRain
	state.ActiveEffects = []model.ActiveEffect{
		{Source: "weather_rain", Category: model.CategoryWeather, SpeedModifier: 0.9, StaminaDrain: 1.1, ExpiresAt: 1000, RevertWeather: true},
		{Source: "road_smooth", Category: model.CategoryRoad, SpeedModifier: 1.1, StaminaDrain: 1, ExpiresAt: 5000},
	}
	state = s.Tick(state, 60)
	assert.Equal(t, model.WeatherClear, state.Weather)
	require.Len(t, state.ActiveEffects, 1)
	assert.Equal(t, "road_smooth", state.ActiveEffects[0].Source)
}

func TestTerminationWithinTimeLimit(t *testing.T) {
	s := newQuietSimulator()
	state := sampleState(t)
	const dt = 60.0
	for i := 0; i < int(model.TimeLimit/dt); i++ {
		state = s.Tick(state, dt)
	}
	require.True(t, state.IsComplete)
	assert.False(t, state.Failed)
	assert.Equal(t, 380.0, state.Distance)
	assert.Less(t, state.TimeElapsed, float64(model.TimeLimit))
	assert.Equal(t, []bool{true, true, true, true, true}, state.StationsReached)
	assert.Equal(t, 5, countEvents(state, "supply_station_rest"))
	assert.Equal(t, 1, countEvents(state, "morale_milestone"))
}

func TestFailedWhenExhausted(t *testing.T) {
	s := newQuietSimulator()
	state := sampleState(t)
	state.Team.Morale = 1
	state = s.Tick(state, 1)
	assert.True(t, state.IsComplete)
	assert.True(t, state.Failed)
	assert.False(t, GetSummary(state).Completed)
}

func TestFailedOnFinishingTick(t *testing.T) {
	s := newQuietSimulator()
	state := sampleState(t)
	state.Distance = 379.9
	state.StationsReached = []bool{true, true, true, true, true}
	state.TriggeredEvents = append(state.TriggeredEvents, "morale_milestone")
	state.Team.Morale = 0
	state = s.Tick(state, 60)
	assert.True(t, state.IsComplete)
	assert.True(t, state.Failed)
	assert.Equal(t, 380.0, state.Distance)
	summary := GetSummary(state)
	assert.False(t, summary.Completed)
	assert.True(t, summary.Failed)
}

func TestClimbStats(t *testing.T) {
	s := newQuietSimulator()
	state := sampleState(t)
	cat := catalog.Default()
	for _, seg := range cat.Route().Segments {
		if seg.Terrain.IsClimb() {
			state.Distance = seg.StartKm + 0.1
			break
		}
	}
	require.Positive(t, state.Distance, "route has a climb")
	next := s.Tick(state, 60)
	assert.InDelta(t, 60.0, next.Stats.ClimbTime, 1e-9)
	assert.InDelta(t, next.Distance-state.Distance, next.Stats.ClimbDistance, 1e-9)

	flat := sampleState(t)
	flat = s.Tick(flat, 60)
	assert.Zero(t, flat.Stats.ClimbTime)
}

func TestSeededRunsAreReproducible(t *testing.T) {
	run := func() model.RaceState {
		s := NewSimulator(catalog.Default(), WithSeed(42), WithLogger(log.Nop()))
		state := sampleState(t)
		for i := 0; i < 600; i++ {
			state = s.Tick(state, 60)
		}
		return state
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("seeded runs differ (-first +second):\n%s", diff)
	}
}

func TestGetSummary(t *testing.T) {
	state := sampleState(t)
	state.IsComplete = true
	state.TimeElapsed = 43200
	state.Distance = 380
	state.Team.Members[0].CurrentStamina = 0
	state.Team.Members[0].Dropped = true
	state.Team.Members[1].CurrentStamina = 40
	state.Team.Members[2].CurrentStamina = 60
	state.Team.Members[3].CurrentStamina = 100

	got := GetSummary(state)
	want := model.Summary{
		Completed:      true,
		CompletionTime: 43200,
		FinalDistance:  380,
		TotalDistance:  380,
		TeamFinished:   3,
		TotalTeamSize:  4,
		TeamIntegrity:  100,
		AverageFatigue: 0.5,
		FinalMorale:    100,
		Difficulty:     model.DifficultyNormal,
		BudgetUsed:     4700 + 3600,
		Composition:    []string{"climber", "sprinter", "domestique", "allrounder"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetSummary() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(got, GetSummary(state)); diff != "" {
		t.Errorf("GetSummary() not idempotent (-first +second):\n%s", diff)
	}
}
