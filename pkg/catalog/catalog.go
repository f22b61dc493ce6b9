package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

//go:embed catalog.yml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog holds the static domain data. It is immutable after Load.
type Catalog struct {
	route      model.Route
	stations   []model.SupplyStation
	characters []model.CharacterArchetype
	items      map[model.Slot][]model.EquipmentItem
	events     []model.EventTemplate
}

type (
	rawCatalog struct {
		Route struct {
			TotalDistance float64      `yaml:"totalDistance"`
			Segments      []rawSegment `yaml:"segments"`
		} `yaml:"route"`
		Stations   []rawStation   `yaml:"stations"`
		Characters []rawCharacter `yaml:"characters"`
		Equipment  struct {
			Frames      []rawItem `yaml:"frames"`
			Wheels      []rawItem `yaml:"wheels"`
			Gears       []rawItem `yaml:"gears"`
			Accessories []rawItem `yaml:"accessories"`
		} `yaml:"equipment"`
		Events []rawEvent `yaml:"events"`
	}
	rawSegment struct {
		ID          string  `yaml:"id"`
		Name        string  `yaml:"name"`
		Start       float64 `yaml:"start"`
		End         float64 `yaml:"end"`
		Terrain     string  `yaml:"terrain"`
		Elevation   float64 `yaml:"elevation"`
		Difficulty  int     `yaml:"difficulty"`
		Landmark    string  `yaml:"landmark"`
		Description string  `yaml:"description"`
	}
	rawStation struct {
		Km       float64  `yaml:"km"`
		Name     string   `yaml:"name"`
		Supplies []string `yaml:"supplies"`
	}
	rawCharacter struct {
		ID        string      `yaml:"id"`
		Name      string      `yaml:"name"`
		Type      string      `yaml:"type"`
		Cost      int         `yaml:"cost"`
		Specialty string      `yaml:"specialty"`
		Skills    []string    `yaml:"skills"`
		Stats     model.Stats `yaml:"stats"`
	}
	rawItem struct {
		ID         string  `yaml:"id"`
		Name       string  `yaml:"name"`
		Weight     float64 `yaml:"weight"`
		Aero       float64 `yaml:"aero"`
		Durability float64 `yaml:"durability"`
		Precision  float64 `yaml:"precision"`
		Stability  float64 `yaml:"stability"`
		Benefit    string  `yaml:"benefit"`
		Cost       int     `yaml:"cost"`
	}
	rawEffects struct {
		SpeedModifier  float64 `yaml:"speedModifier"`
		StaminaDrain   float64 `yaml:"staminaDrain"`
		StaminaDelta   float64 `yaml:"staminaDelta"`
		MoraleDelta    float64 `yaml:"moraleDelta"`
		TimeDelay      float64 `yaml:"timeDelay"`
		Duration       float64 `yaml:"duration"`
		FormationBreak bool    `yaml:"formationBreak"`
		TeamDisband    bool    `yaml:"teamDisband"`
		Supplies       bool    `yaml:"supplies"`
		Weather        string  `yaml:"weather"`
	}
	rawOption struct {
		ID          string     `yaml:"id"`
		Label       string     `yaml:"label"`
		Description string     `yaml:"description"`
		NextLayer   string     `yaml:"nextLayer"`
		CrashRisk   float64    `yaml:"crashRisk"`
		Effects     rawEffects `yaml:"effects"`
	}
	rawEvent struct {
		ID                 string                    `yaml:"id"`
		Name               string                    `yaml:"name"`
		Category           string                    `yaml:"category"`
		Description        string                    `yaml:"description"`
		Probability        float64                   `yaml:"probability"`
		Mandatory          bool                      `yaml:"mandatory"`
		FixedLocations     []float64                 `yaml:"fixedLocations"`
		DistanceRanges     []model.KmRange           `yaml:"distanceRanges"`
		Terrain            []string                  `yaml:"terrain"`
		MoraleThreshold    float64                   `yaml:"moraleThreshold"`
		Effects            rawEffects                `yaml:"effects"`
		Layers             map[string][]rawOption    `yaml:"layers"`
		CharacterModifiers map[string]model.Modifier `yaml:"characterModifiers"`
		EquipmentModifiers map[string]model.Modifier `yaml:"equipmentModifiers"`
	}
)

// Default returns the embedded catalog. It panics if the embedded data is broken.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load parses and validates a catalog. Unknown enumeration keys are
// replaced by their neutral value and logged.
func Load(r io.Reader) (*Catalog, error) {
	var raw rawCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	l := log.Default().Named("catalog")
	c := &Catalog{items: make(map[model.Slot][]model.EquipmentItem)}

	c.route.TotalDistance = raw.Route.TotalDistance
	for _, s := range raw.Route.Segments {
		c.route.Segments = append(c.route.Segments, model.RouteSegment{
			ID:          s.ID,
			Name:        s.Name,
			StartKm:     s.Start,
			EndKm:       s.End,
			Distance:    s.End - s.Start,
			Terrain:     terrainOf(l, s.ID, s.Terrain),
			Elevation:   s.Elevation,
			Difficulty:  s.Difficulty,
			Landmark:    s.Landmark,
			Description: s.Description,
		})
	}
	for _, s := range raw.Stations {
		c.stations = append(c.stations, model.SupplyStation{
			Km:   s.Km,
			Name: s.Name,
			Supplies: lo.Map(s.Supplies, func(item string, _ int) model.SupplyKind {
				return model.SupplyKind(item)
			}),
		})
	}
	sort.SliceStable(c.stations, func(i, j int) bool {
		return c.stations[i].Km < c.stations[j].Km
	})
	for _, ch := range raw.Characters {
		ct := model.CharacterType(ch.Type)
		if !ct.Valid() {
			l.Warn("unknown character type, using allrounder",
				log.String("id", ch.ID), log.String("type", ch.Type))
			ct = model.CharacterAllrounder
		}
		c.characters = append(c.characters, model.CharacterArchetype{
			ID:        ch.ID,
			Name:      ch.Name,
			Type:      ct,
			Stats:     ch.Stats,
			Cost:      ch.Cost,
			Specialty: ch.Specialty,
			Skills:    ch.Skills,
		})
	}
	c.items[model.SlotFrame] = convertItems(model.SlotFrame, raw.Equipment.Frames)
	c.items[model.SlotWheels] = convertItems(model.SlotWheels, raw.Equipment.Wheels)
	c.items[model.SlotGears] = convertItems(model.SlotGears, raw.Equipment.Gears)
	c.items[model.SlotAccessory] = convertItems(model.SlotAccessory,
		raw.Equipment.Accessories)

	for i := range raw.Events {
		c.events = append(c.events, convertEvent(l, &raw.Events[i]))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the structural invariants of the catalog.
//
//nolint:cyclop // sequential checks
func (c *Catalog) Validate() error {
	if len(c.route.Segments) == 0 {
		return fmt.Errorf("%w: route has no segments", ErrInvalidCatalog)
	}
	prevEnd := 0.0
	for i, s := range c.route.Segments {
		if s.Distance <= 0 {
			return fmt.Errorf("%w: segment %s has no length", ErrInvalidCatalog, s.ID)
		}
		if math.Abs(s.StartKm-prevEnd) > 1e-9 {
			return fmt.Errorf("%w: segment %d (%s) starts at %.1f, expected %.1f",
				ErrInvalidCatalog, i, s.ID, s.StartKm, prevEnd)
		}
		prevEnd = s.EndKm
	}
	if math.Abs(c.route.SumDistance()-c.route.TotalDistance) > 1e-9 {
		return fmt.Errorf("%w: segments sum to %.1f km, route is %.1f km",
			ErrInvalidCatalog, c.route.SumDistance(), c.route.TotalDistance)
	}
	for _, s := range c.stations {
		if s.Km <= 0 || s.Km >= c.route.TotalDistance {
			return fmt.Errorf("%w: station %s at %.1f km is off route",
				ErrInvalidCatalog, s.Name, s.Km)
		}
	}
	if dups := lo.FindDuplicates(lo.Map(c.characters,
		func(item model.CharacterArchetype, _ int) string { return item.ID })); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate character ids %v", ErrInvalidCatalog, dups)
	}
	if dups := lo.FindDuplicates(lo.Map(c.events,
		func(item model.EventTemplate, _ int) string { return item.ID })); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate event ids %v", ErrInvalidCatalog, dups)
	}
	for _, e := range c.events {
		for layer, opts := range e.Layers {
			for _, o := range opts {
				if o.NextLayer == "" {
					continue
				}
				if _, ok := e.Layers[o.NextLayer]; !ok {
					return fmt.Errorf("%w: event %s option %s/%s refers to unknown layer %s",
						ErrInvalidCatalog, e.ID, layer, o.ID, o.NextLayer)
				}
			}
		}
	}
	return nil
}

func (c *Catalog) Route() model.Route {
	return model.Route{
		Segments:      append([]model.RouteSegment(nil), c.route.Segments...),
		TotalDistance: c.route.TotalDistance,
	}
}

func (c *Catalog) TotalDistance() float64 {
	return c.route.TotalDistance
}

func (c *Catalog) Segment(km float64) model.RouteSegment {
	return c.route.Segment(km)
}

func (c *Catalog) SegmentIndex(km float64) int {
	return c.route.SegmentAt(km)
}

func (c *Catalog) Stations() []model.SupplyStation {
	return append([]model.SupplyStation(nil), c.stations...)
}

// NextStation returns the first station ahead of km.
func (c *Catalog) NextStation(km float64) (model.SupplyStation, bool) {
	return lo.Find(c.stations, func(s model.SupplyStation) bool { return s.Km > km })
}

// TotalElevation sums the elevation gain of all climbing segments.
func (c *Catalog) TotalElevation() float64 {
	return lo.SumBy(c.route.Segments, func(s model.RouteSegment) float64 {
		if s.Terrain.IsClimb() {
			return s.Elevation
		}
		return 0
	})
}

func (c *Catalog) Characters() []model.CharacterArchetype {
	return append([]model.CharacterArchetype(nil), c.characters...)
}

func (c *Catalog) Character(id string) (model.CharacterArchetype, bool) {
	return lo.Find(c.characters, func(item model.CharacterArchetype) bool {
		return item.ID == id
	})
}

func (c *Catalog) Items(slot model.Slot) []model.EquipmentItem {
	return append([]model.EquipmentItem(nil), c.items[slot]...)
}

func (c *Catalog) Item(slot model.Slot, id string) (model.EquipmentItem, bool) {
	return lo.Find(c.items[slot], func(item model.EquipmentItem) bool {
		return item.ID == id
	})
}

// ItemsInBudget returns the items of a slot not exceeding budget.
func (c *Catalog) ItemsInBudget(slot model.Slot, budget int) []model.EquipmentItem {
	return lo.Filter(c.items[slot], func(item model.EquipmentItem, _ int) bool {
		return item.Cost <= budget
	})
}

func (c *Catalog) Events() []model.EventTemplate {
	return append([]model.EventTemplate(nil), c.events...)
}

func (c *Catalog) Event(id string) (model.EventTemplate, bool) {
	return lo.Find(c.events, func(item model.EventTemplate) bool { return item.ID == id })
}

// FixedEvents returns mandatory templates bound to route positions.
func (c *Catalog) FixedEvents() []model.EventTemplate {
	return lo.Filter(c.events, func(item model.EventTemplate, _ int) bool {
		return item.Mandatory && len(item.FixedLocations) > 0
	})
}

// AmbientEvents returns the randomly triggered templates.
func (c *Catalog) AmbientEvents() []model.EventTemplate {
	return lo.Filter(c.events, func(item model.EventTemplate, _ int) bool {
		return !item.Mandatory
	})
}

// SupplyEvent returns the template used when a station is reached.
func (c *Catalog) SupplyEvent() (model.EventTemplate, bool) {
	return lo.Find(c.events, func(item model.EventTemplate) bool {
		return item.Category == model.CategorySupply
	})
}

func convertItems(slot model.Slot, raw []rawItem) []model.EquipmentItem {
	return lo.Map(raw, func(r rawItem, _ int) model.EquipmentItem {
		return model.EquipmentItem{
			ID:         r.ID,
			Slot:       slot,
			Name:       r.Name,
			Weight:     r.Weight,
			Aero:       r.Aero,
			Durability: r.Durability,
			Precision:  r.Precision,
			Stability:  r.Stability,
			Benefit:    r.Benefit,
			Cost:       r.Cost,
		}
	})
}

func convertEvent(l *log.Logger, r *rawEvent) model.EventTemplate {
	cat := model.EventCategory(r.Category)
	if !cat.Valid() {
		l.Warn("unknown event category, using road",
			log.String("event", r.ID), log.String("category", r.Category))
		cat = model.CategoryRoad
	}
	ret := model.EventTemplate{
		ID:              r.ID,
		Name:            r.Name,
		Category:        cat,
		Description:     r.Description,
		Probability:     r.Probability,
		Mandatory:       r.Mandatory,
		FixedLocations:  r.FixedLocations,
		DistanceRanges:  r.DistanceRanges,
		MoraleThreshold: r.MoraleThreshold,
		Effects:         convertEffects(l, r.ID, r.Effects),
		Terrain: lo.Map(r.Terrain, func(t string, _ int) model.Terrain {
			return terrainOf(l, r.ID, t)
		}),
		EquipmentModifiers: r.EquipmentModifiers,
	}
	if len(r.CharacterModifiers) > 0 {
		ret.CharacterModifiers = make(map[model.CharacterType]model.Modifier)
		for k, v := range r.CharacterModifiers {
			ret.CharacterModifiers[model.CharacterType(k)] = v
		}
	}
	if len(r.Layers) > 0 {
		ret.Layers = make(map[string][]model.EventOption)
		for layer, opts := range r.Layers {
			ret.Layers[layer] = lo.Map(opts, func(o rawOption, _ int) model.EventOption {
				return model.EventOption{
					ID:          o.ID,
					Label:       o.Label,
					Description: o.Description,
					NextLayer:   o.NextLayer,
					CrashRisk:   o.CrashRisk,
					Effects:     convertEffects(l, r.ID, o.Effects),
				}
			})
		}
	}
	return ret
}

func convertEffects(l *log.Logger, id string, r rawEffects) model.Effects {
	ret := model.Effects{
		SpeedModifier:  r.SpeedModifier,
		StaminaDrain:   r.StaminaDrain,
		StaminaDelta:   r.StaminaDelta,
		MoraleDelta:    r.MoraleDelta,
		TimeDelay:      r.TimeDelay,
		Duration:       r.Duration,
		FormationBreak: r.FormationBreak,
		TeamDisband:    r.TeamDisband,
		Supplies:       r.Supplies,
	}
	if r.Weather != "" {
		ret.Weather = weatherOf(l, id, r.Weather)
	}
	return ret
}

func terrainOf(l *log.Logger, owner, key string) model.Terrain {
	t := model.Terrain(key)
	if !t.Valid() {
		l.Warn("unknown terrain, using flat",
			log.String("owner", owner), log.String("terrain", key))
		return model.TerrainFlat
	}
	return t
}

func weatherOf(l *log.Logger, owner, key string) model.Weather {
	w := model.Weather(key)
	if !w.Valid() {
		l.Warn("unknown weather, using clear",
			log.String("owner", owner), log.String("weather", key))
		return model.WeatherClear
	}
	return w
}
