package race

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/event"
	"github.com/mpapenbr/bikechallenge/pkg/formula"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const (
	speedScale          = 0.3  // km/h per speed stat point
	formationSwitchCost = 30.0 // seconds
	ambientGate         = 0.001
	moraleInterval      = 600.0 // seconds
	performanceWarmup   = 600.0 // seconds
	exhaustedLevel      = 5.0
)

type (
	Simulator struct {
		cat    *catalog.Catalog
		rnd    event.RandSource
		events *event.Engine
		l      *log.Logger
	}
	Option func(*Simulator)

	// effectFold is the combined impact of all active effects.
	effectFold struct {
		speed    float64
		drain    float64
		supplies bool
	}
)

func WithRand(rnd event.RandSource) Option {
	return func(s *Simulator) {
		s.rnd = rnd
	}
}

// WithSeed makes the simulation reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		s.l = l
	}
}

func NewSimulator(cat *catalog.Catalog, opts ...Option) *Simulator {
	ret := &Simulator{
		cat: cat,
		l:   log.Default().Named("race"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		ret.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ret.events = event.NewEngine(cat, ret.rnd, event.WithLogger(ret.l.Named("event")))
	return ret
}

func (s *Simulator) Catalog() *catalog.Catalog {
	return s.cat
}

func (s *Simulator) Events() *event.Engine {
	return s.events
}

// Tick advances the race by dt seconds and returns the new state.
// The given state is not modified. Paused or completed races and
// non-positive steps are returned unchanged.
func (s *Simulator) Tick(state model.RaceState, dt float64) model.RaceState {
	if state.IsPaused || state.IsComplete || dt <= 0 {
		return state
	}
	next := state.Clone()

	fx := s.expireEffects(&next)
	seg := s.updateSegment(&next)
	next.Speed = s.teamSpeed(&next, seg, fx)

	prevDistance := next.Distance
	covered := next.Speed * dt / 3600
	next.Distance += covered
	next.DistanceSinceLastEvent += covered
	next.TimeElapsed += dt
	if seg.Terrain.IsClimb() {
		next.Stats.ClimbDistance += covered
		next.Stats.ClimbTime += dt
	}

	moraleEvents := s.updateStamina(&next, seg, fx, covered, dt)
	s.rotateLeader(&next)
	s.updateMorale(&next, dt, moraleEvents)

	for _, hit := range s.events.CheckSupplyStations(&next, prevDistance) {
		s.events.HandleStation(&next, hit)
	}
	for _, t := range s.events.CheckFixed(&next, prevDistance) {
		s.handle(&next, t)
	}
	if next.Distance < next.TotalDistance && s.rnd.Float64() < ambientGate*dt {
		if t, ok := s.events.PickAmbient(&next, seg); ok {
			s.handle(&next, t)
		}
	}
	s.checkTermination(&next)
	return next
}

// TogglePause returns a copy of state with the pause flag set.
func TogglePause(state model.RaceState, paused bool) model.RaceState {
	next := state.Clone()
	next.IsPaused = paused
	return next
}

func (s *Simulator) handle(state *model.RaceState, t model.EventTemplate) {
	if _, err := s.events.Handle(state, t, event.AutoChoices(t, state.Strategy)); err != nil {
		s.l.Warn("could not handle event", log.String("event", t.ID), log.ErrorField(err))
	}
}

func (s *Simulator) expireEffects(state *model.RaceState) effectFold {
	fx := effectFold{speed: 1, drain: 1}
	kept := make([]model.ActiveEffect, 0, len(state.ActiveEffects))
	revert := false
	for _, a := range state.ActiveEffects {
		if state.TimeElapsed >= a.ExpiresAt {
			revert = revert || a.RevertWeather
			continue
		}
		kept = append(kept, a)
		fx.speed *= a.SpeedModifier
		fx.drain *= a.StaminaDrain
		fx.supplies = fx.supplies || a.Supplies
	}
	if revert && !lo.SomeBy(kept, func(a model.ActiveEffect) bool { return a.RevertWeather }) {
		state.Weather = model.WeatherClear
	}
	state.ActiveEffects = kept
	return fx
}

func (s *Simulator) updateSegment(state *model.RaceState) model.RouteSegment {
	idx := s.cat.SegmentIndex(state.Distance)
	seg := s.cat.Segment(state.Distance)
	if idx >= 0 {
		state.CurrentSegment = idx
	}
	if state.Team.Formation == model.FormationSolo {
		return seg
	}
	climbFormation, ok := state.Strategy.Climbing.Formation()
	if !ok {
		return seg
	}
	target := state.Team.BaseFormation
	if seg.Terrain.IsClimb() {
		target = climbFormation
	}
	if target != state.Team.Formation {
		s.l.Debug("formation change",
			log.String("from", string(state.Team.Formation)),
			log.String("to", string(target)),
			log.String("segment", seg.ID))
		state.Team.Formation = target
		state.TimeElapsed += formationSwitchCost
		state.Stats.FormationChanges++
	}
	return seg
}

// ranks returns the riding member indices ordered from the leader backwards.
func ranks(state *model.RaceState) []int {
	riding := state.Riding()
	n := len(state.Team.Members)
	leader := state.Team.CurrentLeader
	ret := make([]int, 0, len(riding))
	for k := 0; k < n; k++ {
		i := (leader + k) % n
		if !state.Team.Members[i].Dropped {
			ret = append(ret, i)
		}
	}
	return ret
}

func abilities(m *model.TeamMember, terrain model.Terrain, leading bool) []model.Ability {
	//nolint:exhaustive // only these types have situational abilities
	switch m.Archetype.Type {
	case model.CharacterClimber:
		if terrain.IsClimb() {
			return []model.Ability{model.AbilityMountainAcceleration}
		}
	case model.CharacterSprinter:
		if terrain == model.TerrainFlat {
			return []model.Ability{model.AbilitySprintBurst}
		}
	case model.CharacterAllrounder:
		if m.CurrentStamina < 50 {
			return []model.Ability{model.AbilityEnduranceBoost}
		}
	case model.CharacterDomestique:
		if leading {
			return []model.Ability{model.AbilityTeamLeader, model.AbilityAeroSpecialist}
		}
	}
	return nil
}

func (s *Simulator) teamSpeed(
	state *model.RaceState,
	seg model.RouteSegment,
	fx effectFold,
) float64 {
	order := ranks(state)
	if len(order) == 0 {
		return 0
	}
	pace := state.Strategy.Pace.SpeedFactor()
	bonus := state.Bike.EquipmentBonus()
	moraleSpeed := formula.MoraleEffects(state.Team.Morale).Speed
	sum := 0.0
	for rank, i := range order {
		m := &state.Team.Members[i]
		sum += formula.EffectiveSpeed(formula.SpeedParams{
			CharacterSpeed: m.Archetype.Stats.Speed * speedScale * pace,
			EquipmentBonus: bonus,
			Terrain:        seg.Terrain,
			Stamina:        m.CurrentStamina,
			Formation:      state.Team.Formation,
			Position:       state.Team.Formation.PositionFor(rank),
			Weather:        state.Weather,
			Abilities:      abilities(m, seg.Terrain, rank == 0),
			EventModifier:  moraleSpeed,
		})
	}
	return sum / float64(len(order)) * fx.speed
}

func (s *Simulator) updateStamina(
	state *model.RaceState,
	seg model.RouteSegment,
	fx effectFold,
	covered, dt float64,
) []model.MoraleEvent {
	order := ranks(state)
	if len(order) == 0 {
		return nil
	}
	mods := formula.MoraleEffects(state.Team.Morale)
	teamwork := lo.MeanBy(order, func(i int) float64 {
		return state.Team.Members[i].Archetype.Stats.Teamwork
	})
	drain := fx.drain * state.Strategy.Pace.DrainFactor() * (1 + mods.Stamina)
	weight := state.Bike.TotalWeight()

	var moraleEvents []model.MoraleEvent
	for rank, i := range order {
		m := &state.Team.Members[i]
		consumption := formula.StaminaConsumption(formula.ConsumptionParams{
			Distance:   covered,
			Speed:      state.Speed,
			Terrain:    seg.Terrain,
			Formation:  state.Team.Formation,
			Position:   state.Team.Formation.PositionFor(rank),
			Weather:    state.Weather,
			BikeWeight: weight,
			Endurance:  m.Archetype.Stats.Stamina,
			IsLeading:  rank == 0,
		}) * drain
		recovery := formula.RecoveryRate(formula.RecoveryParams{
			BaseRecovery: m.Archetype.Stats.Recovery,
			Speed:        state.Speed,
			HasSupplies:  fx.supplies,
			TeamSupport:  teamwork,
			Morale:       state.Team.Morale,
			Weather:      state.Weather,
		}) * dt / 60 * (1 + mods.Recovery)

		m.CurrentStamina = clamp(m.CurrentStamina-consumption+recovery, 0, 100)
		if m.CurrentStamina <= 0 {
			m.Dropped = true
			moraleEvents = append(moraleEvents, model.MoraleDropped)
			s.l.Debug("member dropped",
				log.String("member", m.ID),
				log.Float64("distance", state.Distance))
		}
	}
	if len(moraleEvents) > 0 {
		total := float64(len(state.Team.Members))
		riding := float64(len(state.Riding()))
		state.TeamIntegrity = min(state.TeamIntegrity, riding/total*100)
	}
	return moraleEvents
}

// rotateLeader hands the lead to the freshest rider once the current leader
// falls below the rotation threshold. Ties go to the lowest index.
func (s *Simulator) rotateLeader(state *model.RaceState) {
	riding := state.Riding()
	if len(riding) == 0 {
		return
	}
	threshold := state.Strategy.RotationThreshold
	if threshold <= 0 {
		threshold = model.DefaultRotationThreshold
	}
	leader := state.Leader()
	if leader != nil && !leader.Dropped && leader.CurrentStamina >= threshold {
		return
	}
	best := lo.MaxBy(riding, func(a, b int) bool {
		return state.Team.Members[a].CurrentStamina > state.Team.Members[b].CurrentStamina
	})
	if best == state.Team.CurrentLeader {
		return
	}
	if leader != nil && !leader.Dropped &&
		state.Team.Members[best].CurrentStamina <= leader.CurrentStamina {
		return
	}
	s.l.Debug("leader rotated",
		log.Int("from", state.Team.CurrentLeader),
		log.Int("to", best),
		log.Float64("distance", state.Distance))
	state.Team.CurrentLeader = best
	state.Stats.LeaderRotations++
}

func performance(state *model.RaceState) model.Performance {
	if state.TimeElapsed < performanceWarmup {
		return model.PerformanceOnTarget
	}
	expected := state.TotalDistance * state.TimeElapsed / model.TimeLimit
	if expected <= 0 {
		return model.PerformanceOnTarget
	}
	ratio := state.Distance / expected
	switch {
	case ratio >= 1.05:
		return model.PerformanceLeading
	case ratio >= 0.95:
		return model.PerformanceOnTarget
	case ratio >= 0.8:
		return model.PerformanceBehind
	default:
		return model.PerformanceFarBehind
	}
}

func (s *Simulator) updateMorale(
	state *model.RaceState,
	dt float64,
	moraleEvents []model.MoraleEvent,
) {
	riding := state.Riding()
	harmony, stamina := 0.0, 0.0
	if len(riding) > 0 {
		harmony = lo.MeanBy(riding, func(i int) float64 {
			return state.Team.Members[i].Archetype.Stats.Teamwork
		})
		stamina = lo.MeanBy(riding, func(i int) float64 {
			return state.Team.Members[i].CurrentStamina
		})
	}
	delta := formula.MoraleChange(formula.MoraleParams{
		Current:     state.Team.Morale,
		Performance: performance(state),
		Harmony:     harmony,
		Fatigue:     100 - stamina,
		Weather:     state.Weather,
	}) * dt / moraleInterval
	for _, e := range moraleEvents {
		delta += formula.MoraleEventDelta(e)
	}
	state.Team.Morale = clamp(state.Team.Morale+delta, 0, 100)
}

// checkTermination completes the race at the finish line or when the team
// gave up. An exhausted team is failed even on the finishing tick.
func (s *Simulator) checkTermination(state *model.RaceState) {
	finished := state.Distance >= state.TotalDistance
	if finished {
		state.Distance = state.TotalDistance
	}
	riding := state.Riding()
	exhausted := lo.EveryBy(riding, func(i int) bool {
		return state.Team.Members[i].CurrentStamina < exhaustedLevel
	})
	failed := exhausted || state.Team.Morale < exhaustedLevel
	if !finished && !failed {
		return
	}
	state.IsComplete = true
	if failed {
		state.Failed = true
		s.l.Debug("race failed",
			log.Float64("distance", state.Distance),
			log.Float64("morale", state.Team.Morale),
			log.Int("riding", len(riding)))
		return
	}
	s.l.Debug("race finished", log.Float64("time", state.TimeElapsed))
}

func clamp(v, lower, upper float64) float64 {
	return max(lower, min(upper, v))
}
