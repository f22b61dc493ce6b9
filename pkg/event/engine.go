// Package event decides when events fire, resolves their decision trees and
// applies the resulting effects to a race state.
package event

import (
	"math"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/formula"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

// RandSource is the randomness used for event rolls.
// *math/rand/v2.Rand satisfies it.
type RandSource interface {
	Float64() float64
	IntN(n int) int
}

const (
	defaultProbability = 0.1
	fixedTolerance     = 0.5 // km
	droughtDistance    = 50  // km without event before probabilities double
)

type (
	Engine struct {
		cat *catalog.Catalog
		rnd RandSource
		l   *log.Logger
	}
	Option func(*Engine)

	// StationHit is a supply station reached during a tick.
	StationHit struct {
		Index   int
		Station model.SupplyStation
	}
)

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.l = l
	}
}

func NewEngine(cat *catalog.Catalog, rnd RandSource, opts ...Option) *Engine {
	ret := &Engine{
		cat: cat,
		rnd: rnd,
		l:   log.Default().Named("event"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// CheckSupplyStations returns every station crossed between prevDistance and
// the current distance which has not been reached before.
func (e *Engine) CheckSupplyStations(
	state *model.RaceState,
	prevDistance float64,
) []StationHit {
	ret := make([]StationHit, 0)
	for i, s := range e.cat.Stations() {
		if i < len(state.StationsReached) && state.StationsReached[i] {
			continue
		}
		if state.Distance >= s.Km && prevDistance <= s.Km {
			ret = append(ret, StationHit{Index: i, Station: s})
		}
	}
	return ret
}

// CheckFixed returns the mandatory fixed-location events whose location lies
// within the distance covered since prevDistance.
func (e *Engine) CheckFixed(state *model.RaceState, prevDistance float64) []model.EventTemplate {
	ret := make([]model.EventTemplate, 0)
	for _, t := range e.cat.FixedEvents() {
		if state.HasTriggered(t.ID) {
			continue
		}
		for _, loc := range t.FixedLocations {
			if prevDistance <= loc+fixedTolerance && state.Distance >= loc-fixedTolerance {
				ret = append(ret, t)
				break
			}
		}
	}
	return ret
}

// CheckTriggers evaluates the ambient templates and returns those which pass
// their gates and the probability roll.
func (e *Engine) CheckTriggers(
	state *model.RaceState,
	seg model.RouteSegment,
) []model.EventTemplate {
	ret := make([]model.EventTemplate, 0)
	for _, t := range e.cat.AmbientEvents() {
		if !inRanges(t, state.Distance) {
			continue
		}
		if !terrainMatches(t, seg.Terrain) {
			continue
		}
		if t.MoraleThreshold > 0 && state.Team.Morale >= t.MoraleThreshold {
			continue
		}
		if e.rnd.Float64() >= e.Probability(t, state) {
			continue
		}
		if state.HasTriggered(t.ID) {
			continue
		}
		ret = append(ret, t)
	}
	return ret
}

// PickAmbient chooses one of the templates which pass CheckTriggers.
func (e *Engine) PickAmbient(
	state *model.RaceState,
	seg model.RouteSegment,
) (model.EventTemplate, bool) {
	candidates := e.CheckTriggers(state, seg)
	if len(candidates) == 0 {
		return model.EventTemplate{}, false
	}
	return candidates[e.rnd.IntN(len(candidates))], true
}

// Probability is the adjusted chance of a template firing, capped at 1.
func (e *Engine) Probability(t model.EventTemplate, state *model.RaceState) float64 {
	p := t.Probability
	if p <= 0 {
		p = defaultProbability
	}
	p *= formula.DifficultyEventFactor(state.Difficulty)
	p *= formula.WeatherEventFactor(state.Weather)
	if state.DistanceSinceLastEvent > droughtDistance {
		p *= 2
	}
	if t.Category == model.CategoryMechanical {
		p *= 1 - state.Bike.Durability()/200
	}
	return math.Min(1, math.Max(0, p))
}

// Handle runs a template through its lifecycle and applies it to state.
func (e *Engine) Handle(
	state *model.RaceState,
	t model.EventTemplate,
	choices []string,
) (Resolution, error) {
	inst := NewInstance(t)
	inst.Trigger(state)
	if _, err := inst.Resolve(choices, state.Team, state.Bike); err != nil {
		return Resolution{}, err
	}
	inst.Record(state)
	e.l.Debug("event handled",
		log.String("event", t.ID),
		log.Strings("choices", inst.Resolution.Choices),
		log.Float64("distance", state.Distance))
	return inst.Resolution, nil
}

// HandleStation resolves the supply event for a reached station using the
// strategy's supply preset.
func (e *Engine) HandleStation(state *model.RaceState, hit StationHit) (Resolution, bool) {
	if hit.Index < len(state.StationsReached) {
		state.StationsReached[hit.Index] = true
	}
	t, ok := e.cat.SupplyEvent()
	if !ok {
		return Resolution{}, false
	}
	t.Name = hit.Station.Name
	res, err := Resolve(t, AutoChoices(t, state.Strategy), state.Team, state.Bike)
	if err != nil {
		e.l.Warn("could not resolve supply event", log.ErrorField(err))
		return Resolution{}, false
	}
	res = withStationExtras(res, hit.Station)
	Apply(state, res)
	e.l.Debug("supply station reached",
		log.String("station", hit.Station.Name),
		log.Strings("choices", res.Choices))
	return res, true
}

func inRanges(t model.EventTemplate, km float64) bool {
	if len(t.DistanceRanges) == 0 {
		return true
	}
	for _, r := range t.DistanceRanges {
		if r.Contains(km) {
			return true
		}
	}
	return false
}

func terrainMatches(t model.EventTemplate, terrain model.Terrain) bool {
	if len(t.Terrain) == 0 {
		return true
	}
	for _, x := range t.Terrain {
		if x == terrain {
			return true
		}
	}
	return false
}
