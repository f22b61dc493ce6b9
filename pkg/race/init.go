// Package race holds the race state machine: construction of the initial
// state, the fixed-step Tick and the summary used for scoring.
package race

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

type (
	initConfig struct {
		cat         *catalog.Catalog
		difficulty  model.Difficulty
		budgetCheck bool
		id          string
	}
	InitOption func(*initConfig)
)

func WithDifficulty(d model.Difficulty) InitOption {
	return func(c *initConfig) {
		c.difficulty = d
	}
}

// WithBudgetCheck rejects configurations whose team and bike cost exceed
// model.BudgetLimit.
func WithBudgetCheck() InitOption {
	return func(c *initConfig) {
		c.budgetCheck = true
	}
}

func WithID(id string) InitOption {
	return func(c *initConfig) {
		c.id = id
	}
}

func WithCatalog(cat *catalog.Catalog) InitOption {
	return func(c *initConfig) {
		c.cat = cat
	}
}

// InitializeRaceState validates the configuration and creates the state at
// the start line. All problems are reported at once in a *ConfigError.
//
//nolint:funlen,cyclop // validation list
func InitializeRaceState(
	team model.TeamConfig,
	bike model.BikeLoadout,
	strategy model.StrategyConfig,
	opts ...InitOption,
) (model.RaceState, error) {
	cfg := &initConfig{difficulty: model.DifficultyNormal}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cat == nil {
		cfg.cat = catalog.Default()
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	problems := &ConfigError{}
	if n := len(team.Members); n < model.MinTeamSize || n > model.MaxTeamSize {
		problems.add(fmt.Sprintf("team size %d outside %d..%d",
			n, model.MinTeamSize, model.MaxTeamSize))
	}
	for i := range team.Members {
		a := team.Members[i]
		if a.ID == "" || !a.Type.Valid() {
			problems.add(fmt.Sprintf("member %d: unknown archetype %q", i, a.ID))
		}
	}
	formation := team.Formation
	if formation == "" {
		formation = model.FormationSingleLine
	}
	if !formation.Valid() {
		problems.add(fmt.Sprintf("unknown formation %q", team.Formation))
	}
	if bike.Frame == nil {
		problems.add("missing frame")
	}
	if bike.Wheels == nil {
		problems.add("missing wheels")
	}
	if bike.Gears == nil {
		problems.add("missing gears")
	}
	strategy = strategy.WithDefaults()
	if !strategy.Pace.Valid() {
		problems.add(fmt.Sprintf("unknown pace %q", strategy.Pace))
	}
	if !strategy.Supply.Valid() {
		problems.add(fmt.Sprintf("unknown supply preset %q", strategy.Supply))
	}
	if !strategy.Climbing.Valid() {
		problems.add(fmt.Sprintf("unknown climbing preset %q", strategy.Climbing))
	}
	if !strategy.Mechanical.Valid() {
		problems.add(fmt.Sprintf("unknown mechanical preset %q", strategy.Mechanical))
	}
	if strategy.RotationThreshold < model.MinRotationThreshold ||
		strategy.RotationThreshold > model.MaxRotationThreshold {
		problems.add(fmt.Sprintf("rotation threshold %.0f outside %.0f..%.0f",
			strategy.RotationThreshold,
			model.MinRotationThreshold, model.MaxRotationThreshold))
	}
	if !cfg.difficulty.Valid() {
		problems.add(fmt.Sprintf("unknown difficulty %q", cfg.difficulty))
	}
	if cfg.budgetCheck {
		if cost := team.Cost() + bike.TotalCost(); cost > model.BudgetLimit {
			problems.add(fmt.Sprintf("budget exceeded: %d > %d", cost, model.BudgetLimit))
		}
	}
	if err := problems.orNil(); err != nil {
		return model.RaceState{}, err
	}

	members := make([]model.TeamMember, 0, len(team.Members))
	for i := range team.Members {
		a := team.Members[i]
		members = append(members, model.TeamMember{
			ID:             fmt.Sprintf("%d-%s", i+1, a.ID),
			Name:           a.Name,
			Archetype:      a,
			CurrentStamina: 100,
		})
	}
	return model.RaceState{
		ID:            cfg.id,
		TotalDistance: cfg.cat.TotalDistance(),
		Team: model.Team{
			Members:       members,
			Formation:     formation,
			BaseFormation: formation,
			CurrentLeader: 0,
			Morale:        100,
		},
		Bike:            bike,
		Weather:         model.WeatherClear,
		Difficulty:      cfg.difficulty,
		Strategy:        strategy,
		Events:          []model.EventRecord{},
		TriggeredEvents: []string{},
		ActiveEffects:   []model.ActiveEffect{},
		StationsReached: make([]bool, len(cfg.cat.Stations())),
		CurrentSegment:  0,
		TeamIntegrity:   100,
	}, nil
}
