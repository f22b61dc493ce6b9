//nolint:thelper,funlen,lll,dupl // ok for tests
package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

// scriptedRand replays floats in a loop. An empty script never fires.
type scriptedRand struct {
	floats []float64
	idx    int
	intn   int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.999999
	}
	v := s.floats[s.idx%len(s.floats)]
	s.idx++
	return v
}

func (s *scriptedRand) IntN(n int) int {
	return s.intn % n
}

func sampleState(t *testing.T, cat *catalog.Catalog) model.RaceState {
	members := []model.TeamMember{}
	for _, id := range []string{"climber", "sprinter", "domestique", "allrounder"} {
		ch, ok := cat.Character(id)
		require.True(t, ok)
		members = append(members, model.TeamMember{
			ID: id, Name: ch.Name, Archetype: ch, CurrentStamina: 80,
		})
	}
	frame, _ := cat.Item(model.SlotFrame, "carbon_endurance")
	wheels, _ := cat.Item(model.SlotWheels, "aluminum_training")
	gears, _ := cat.Item(model.SlotGears, "mechanical_11speed")
	return model.RaceState{
		TotalDistance: cat.TotalDistance(),
		Team: model.Team{
			Members: members, Formation: model.FormationSingleLine,
			BaseFormation: model.FormationSingleLine, Morale: 70,
		},
		Bike:            model.BikeLoadout{}.WithFrame(frame).WithWheels(wheels).WithGears(gears),
		Weather:         model.WeatherClear,
		Difficulty:      model.DifficultyNormal,
		Strategy:        model.DefaultStrategy(),
		StationsReached: make([]bool, len(cat.Stations())),
		TeamIntegrity:   100,
	}
}

func newTestEngine(rnd RandSource) (*Engine, *catalog.Catalog) {
	cat := catalog.Default()
	return NewEngine(cat, rnd, WithLogger(log.Nop())), cat
}

func TestProbability(t *testing.T) {
	e, cat := newTestEngine(&scriptedRand{})
	tailwind, _ := cat.Event("weather_tailwind")
	puncture, _ := cat.Event("mechanical_puncture")

	tests := []struct {
		name   string
		tmpl   model.EventTemplate
		modify func(s *model.RaceState)
		want   float64
	}{
		{name: "clear normal", tmpl: tailwind, want: 0.15 * 0.8},
		{name: "drought doubles", tmpl: tailwind, modify: func(s *model.RaceState) { s.DistanceSinceLastEvent = 60 }, want: 0.15 * 0.8 * 2},
		{name: "hard storm", tmpl: tailwind, modify: func(s *model.RaceState) {
			s.Difficulty = model.DifficultyHard
			s.Weather = model.WeatherStorm
		}, want: 0.15 * 1.5 * 2},
		{name: "capped", tmpl: model.EventTemplate{Probability: 0.9}, modify: func(s *model.RaceState) {
			s.Difficulty = model.DifficultyExtreme
			s.Weather = model.WeatherStorm
		}, want: 1},
		{name: "default probability", tmpl: model.EventTemplate{}, modify: func(s *model.RaceState) { s.Weather = model.WeatherCloudy }, want: 0.1},
		{name: "mechanical uses durability", tmpl: puncture, want: 0.08 * 0.8 * (1 - (90.0+95+98)/3/200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState(t, cat)
			if tt.modify != nil {
				tt.modify(&s)
			}
			assert.InDelta(t, tt.want, e.Probability(tt.tmpl, &s), 1e-9)
		})
	}
}

func TestCheckTriggers(t *testing.T) {
	e, cat := newTestEngine(&scriptedRand{floats: []float64{0}})
	s := sampleState(t, cat)
	s.Distance = 10
	s.Team.Morale = 100

	ids := func(list []model.EventTemplate) []string {
		ret := []string{}
		for _, x := range list {
			ret = append(ret, x.ID)
		}
		return ret
	}
	want := []string{
		"weather_tailwind", "weather_headwind", "weather_rain", "weather_clear",
		"mechanical_puncture", "mechanical_chain", "mechanical_brake",
		"road_smooth", "road_rough", "road_traffic",
	}
	got := ids(e.CheckTriggers(&s, cat.Segment(s.Distance)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CheckTriggers() mismatch (-want +got):\n%s", diff)
	}

	// already triggered events never fire again
	s.TriggeredEvents = []string{"weather_rain", "road_traffic"}
	got = ids(e.CheckTriggers(&s, cat.Segment(s.Distance)))
	assert.NotContains(t, got, "weather_rain")
	assert.NotContains(t, got, "road_traffic")

	// terrain gating and morale threshold
	s.Distance = 55
	s.Team.Morale = 30
	got = ids(e.CheckTriggers(&s, cat.Segment(s.Distance)))
	assert.Contains(t, got, "road_climb_attack")
	assert.Contains(t, got, "morale_conflict")
	assert.Contains(t, got, "morale_cheering")

	// failing rolls
	e2, _ := newTestEngine(&scriptedRand{})
	assert.Empty(t, e2.CheckTriggers(&s, cat.Segment(s.Distance)))
}

func TestPickAmbient(t *testing.T) {
	e, cat := newTestEngine(&scriptedRand{floats: []float64{0}, intn: 1})
	s := sampleState(t, cat)
	s.Distance = 10
	s.Team.Morale = 100
	got, ok := e.PickAmbient(&s, cat.Segment(s.Distance))
	require.True(t, ok)
	assert.Equal(t, "weather_headwind", got.ID)

	e2, _ := newTestEngine(&scriptedRand{})
	_, ok = e2.PickAmbient(&s, cat.Segment(s.Distance))
	assert.False(t, ok)
}

func TestCheckFixed(t *testing.T) {
	e, cat := newTestEngine(&scriptedRand{})
	s := sampleState(t, cat)

	s.Distance = 185
	assert.Empty(t, e.CheckFixed(&s, 180))

	s.Distance = 189.6
	hits := e.CheckFixed(&s, 189.4)
	require.Len(t, hits, 1)
	assert.Equal(t, "morale_milestone", hits[0].ID)

	// jumping across the location still hits
	s.Distance = 195
	assert.Len(t, e.CheckFixed(&s, 185), 1)

	_, err := e.Handle(&s, hits[0], nil)
	require.NoError(t, err)
	assert.Empty(t, e.CheckFixed(&s, 185))
	assert.InDelta(t, 90.0, s.Team.Morale, 1e-9)
	assert.InDelta(t, 90.0, s.Team.Members[0].CurrentStamina, 1e-9)
}

func TestCheckSupplyStations(t *testing.T) {
	e, cat := newTestEngine(&scriptedRand{})
	s := sampleState(t, cat)

	s.Distance = 50.1
	hits := e.CheckSupplyStations(&s, 49.9)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Index)
	assert.Equal(t, "Zhongli", hits[0].Station.Name)

	s.Distance = 140
	hits = e.CheckSupplyStations(&s, 40)
	assert.Len(t, hits, 2)

	_, ok := e.HandleStation(&s, hits[0])
	require.True(t, ok)
	hits = e.CheckSupplyStations(&s, 40)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Index)
}

func TestHandleStation(t *testing.T) {
	e, cat := newTestEngine(&scriptedRand{})
	s := sampleState(t, cat)
	s.Strategy.Supply = model.SupplyFull
	s.ActiveEffects = []model.ActiveEffect{
		{Source: "mechanical_brake", Category: model.CategoryMechanical, SpeedModifier: 0.9, StaminaDrain: 1, ExpiresAt: 5000},
		{Source: "weather_tailwind", Category: model.CategoryWeather, SpeedModifier: 1.15, StaminaDrain: 0.9, ExpiresAt: 5000},
	}
	s.Team.Members[0].CurrentStamina = 20
	taichung := cat.Stations()[2]

	res, ok := e.HandleStation(&s, StationHit{Index: 2, Station: taichung})
	require.True(t, ok)
	assert.Equal(t, []string{"full"}, res.Choices)
	assert.True(t, s.StationsReached[2])
	// 50 from the full stop plus 10 for the rest area
	assert.InDelta(t, 80.0, s.Team.Members[0].CurrentStamina, 1e-9)
	assert.InDelta(t, 1200.0, s.TimeElapsed, 1e-9)
	assert.Equal(t, 1, s.Stats.SupplyStops)
	// repair clears the mechanical effect, supply effect appended
	sources := []string{}
	for _, a := range s.ActiveEffects {
		sources = append(sources, a.Source)
	}
	assert.Equal(t, []string{"weather_tailwind", "supply_station_rest"}, sources)
	assert.Empty(t, s.TriggeredEvents)
	assert.Contains(t, s.Events[0].Description, "Taichung")
}

func TestResolve(t *testing.T) {
	cat := catalog.Default()
	s := sampleState(t, cat)
	puncture, _ := cat.Event("mechanical_puncture")
	chain, _ := cat.Event("mechanical_chain")
	tailwind, _ := cat.Event("weather_tailwind")

	tests := []struct {
		name    string
		tmpl    model.EventTemplate
		choices []string
		want    model.Effects
		wantMod model.Modifier
		wantErr bool
	}{
		{
			name:    "two layers, later overrides",
			tmpl:    puncture,
			choices: []string{"thorough_repair", "spare_tube"},
			want:    model.Effects{TimeDelay: 180},
			wantMod: model.Modifier{TimeReduction: 1},
		},
		{
			name:    "single layer",
			tmpl:    puncture,
			choices: []string{"continue"},
			want:    model.Effects{SpeedModifier: 0.8, Duration: 600, MoraleDelta: -10},
			wantMod: model.Modifier{TimeReduction: 1},
		},
		{
			name:    "no choice takes template effects",
			tmpl:    puncture,
			want:    model.Effects{TimeDelay: 180, MoraleDelta: -10},
			wantMod: model.Modifier{TimeReduction: 1},
		},
		{
			name:    "equipment modifier",
			tmpl:    chain,
			choices: []string{"quick_fix"},
			want:    model.Effects{TimeDelay: 60, MoraleDelta: -5},
			wantMod: model.Modifier{TimeReduction: 0.5},
		},
		{
			name: "ambient event",
			tmpl: tailwind,
			want: model.Effects{SpeedModifier: 1.15, StaminaDrain: 0.9, Duration: 600, Weather: model.WeatherTailwind},
		},
		{
			name:    "preset for template without options",
			tmpl:    model.EventTemplate{ID: "x", Category: model.CategoryMechanical},
			choices: []string{"thorough_repair"},
			want:    model.Effects{TimeDelay: 900},
		},
		{
			name:    "unknown option",
			tmpl:    puncture,
			choices: []string{"pray"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.tmpl, tt.choices, s.Team, s.Bike)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownOption)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Effects)
			assert.Equal(t, tt.wantMod, got.Modifiers)
		})
	}

	got, err := Resolve(puncture, []string{"thorough_repair", "spare_tube"}, s.Team, s.Bike)
	require.NoError(t, err)
	assert.Equal(t, "Puncture: Thorough repair > Use the spare tube", got.Description)
}

func TestAutoChoices(t *testing.T) {
	cat := catalog.Default()
	supply, _ := cat.SupplyEvent()
	puncture, _ := cat.Event("mechanical_puncture")
	climb, _ := cat.Event("road_climb_attack")
	tailwind, _ := cat.Event("weather_tailwind")

	strategy := model.DefaultStrategy()
	assert.Equal(t, []string{"quick"}, AutoChoices(supply, strategy))
	assert.Equal(t, []string{"quick_fix"}, AutoChoices(puncture, strategy))
	assert.Equal(t, []string{"steady"}, AutoChoices(climb, strategy))
	assert.Nil(t, AutoChoices(tailwind, strategy))

	strategy.Mechanical = model.MechanicalThoroughRepair
	strategy.Supply = model.SupplySkip
	assert.Equal(t, []string{"thorough_repair", "spare_tube"}, AutoChoices(puncture, strategy))
	assert.Equal(t, []string{"skip"}, AutoChoices(supply, strategy))
}

func TestApply(t *testing.T) {
	cat := catalog.Default()
	base := sampleState(t, cat)
	base.TimeElapsed = 1000
	base.Distance = 100
	base.DistanceSinceLastEvent = 42

	t.Run("time, modifiers and history", func(t *testing.T) {
		s := base.Clone()
		tmpl := model.EventTemplate{ID: "rain", Name: "Rain", Category: model.CategoryWeather}
		Apply(&s, Resolution{
			Template: tmpl,
			Effects: model.Effects{
				TimeDelay: 180, SpeedModifier: 0.9, StaminaDrain: 1.1, Duration: 1200,
				StaminaDelta: -100, MoraleDelta: 50, Weather: model.WeatherRain,
			},
			Modifiers:   model.Modifier{TimeReduction: 1, StaminaReduction: 0.5, SpeedBonus: 0.05},
			Description: "Rain",
		})
		assert.InDelta(t, 1120.0, s.TimeElapsed, 1e-9)
		require.Len(t, s.ActiveEffects, 1)
		active := s.ActiveEffects[0]
		assert.Equal(t, "rain", active.Source)
		assert.InDelta(t, 0.95, active.SpeedModifier, 1e-9)
		assert.InDelta(t, 1.1, active.StaminaDrain, 1e-9)
		assert.InDelta(t, 2320.0, active.ExpiresAt, 1e-9)
		assert.True(t, active.RevertWeather)
		assert.InDelta(t, 30.0, s.Team.Members[0].CurrentStamina, 1e-9)
		assert.InDelta(t, 100.0, s.Team.Morale, 1e-9)
		assert.Equal(t, model.WeatherRain, s.Weather)
		assert.Equal(t, 1, s.Stats.WeatherChallenges)
		assert.Equal(t, 1, s.Stats.EventsHandled)
		assert.Equal(t, []string{"rain"}, s.TriggeredEvents)
		require.Len(t, s.Events, 1)
		assert.InDelta(t, 100.0, s.Events[0].Distance, 1e-9)
		assert.InDelta(t, 0.0, s.DistanceSinceLastEvent, 1e-9)
		// the original is untouched
		assert.Empty(t, base.Events)
		assert.InDelta(t, 80.0, base.Team.Members[0].CurrentStamina, 1e-9)
	})

	t.Run("formation break and disband", func(t *testing.T) {
		s := base.Clone()
		Apply(&s, Resolution{
			Template: model.EventTemplate{ID: "split", Category: model.CategoryRoad},
			Effects:  model.Effects{FormationBreak: true, TeamDisband: true, MoraleDelta: -500},
		})
		assert.Equal(t, model.FormationSolo, s.Team.Formation)
		assert.Equal(t, 1, s.Stats.FormationBreaks)
		assert.InDelta(t, 0.0, s.TeamIntegrity, 1e-9)
		assert.InDelta(t, 0.0, s.Team.Morale, 1e-9)
		assert.Empty(t, s.ActiveEffects)
	})

	t.Run("mechanical counted", func(t *testing.T) {
		s := base.Clone()
		Apply(&s, Resolution{Template: model.EventTemplate{ID: "m", Category: model.CategoryMechanical}})
		assert.Equal(t, 1, s.Stats.MechanicalFailures)
	})
}

func TestInstanceLifecycle(t *testing.T) {
	cat := catalog.Default()
	s := sampleState(t, cat)
	tmpl, _ := cat.Event("road_smooth")
	inst := NewInstance(tmpl)

	assert.False(t, inst.Record(&s))
	ok, err := inst.Resolve(nil, s.Team, s.Bike)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, inst.Trigger(&s))
	assert.False(t, inst.Trigger(&s))
	ok, err = inst.Resolve(nil, s.Team, s.Bike)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, PhaseResolved, inst.Phase)
	assert.True(t, inst.Record(&s))
	assert.False(t, inst.Record(&s))
	assert.Equal(t, "recorded", inst.Phase.String())
	assert.Len(t, s.Events, 1)
}

func TestRecommend(t *testing.T) {
	cat := catalog.Default()
	s := sampleState(t, cat)
	puncture, _ := cat.Event("mechanical_puncture")
	got := Recommend(puncture, &s)
	require.Len(t, got, 3)
	assert.Equal(t, "continue", got[2].OptionID)
	assert.Equal(t, 35, got[2].Score)
	assert.Equal(t, RiskHigh, got[2].Risk)

	supply, _ := cat.SupplyEvent()
	s.Team.Morale = 30
	for i := range s.Team.Members {
		s.Team.Members[i].CurrentStamina = 30
	}
	got = Recommend(supply, &s)
	require.Len(t, got, 3)
	// full rest takes too long, the quick refill wins
	assert.Equal(t, "quick", got[0].OptionID)
	assert.Equal(t, 75, got[0].Score)
	assert.Equal(t, 55, got[1].Score)
}

func TestRecentEvents(t *testing.T) {
	s := model.RaceState{Events: []model.EventRecord{{EventID: "a"}, {EventID: "b"}, {EventID: "c"}}}
	assert.Equal(t, []model.EventRecord{{EventID: "b"}, {EventID: "c"}}, RecentEvents(&s, 2))
	assert.Len(t, RecentEvents(&s, 10), 3)
	assert.Nil(t, RecentEvents(&s, 0))
}
