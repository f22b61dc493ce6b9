package model

type EventCategory string

const (
	CategoryWeather    EventCategory = "weather"
	CategoryMechanical EventCategory = "mechanical"
	CategorySupply     EventCategory = "supply"
	CategoryRoad       EventCategory = "road"
	CategoryMorale     EventCategory = "morale"
)

func (c EventCategory) Valid() bool {
	return contains([]EventCategory{
		CategoryWeather, CategoryMechanical, CategorySupply, CategoryRoad, CategoryMorale,
	}, c)
}

// Effects is the bundle of changes an event applies to the race.
// Zero multiplicative fields mean "no change".
type Effects struct {
	SpeedModifier  float64 `json:"speedModifier,omitempty"`
	StaminaDrain   float64 `json:"staminaDrain,omitempty"`
	StaminaDelta   float64 `json:"staminaDelta,omitempty"` // points, every riding member
	MoraleDelta    float64 `json:"moraleDelta,omitempty"`
	TimeDelay      float64 `json:"timeDelay,omitempty"` // seconds
	Duration       float64 `json:"duration,omitempty"`  // seconds the modifiers stay active
	FormationBreak bool    `json:"formationBreak,omitempty"`
	TeamDisband    bool    `json:"teamDisband,omitempty"`
	Supplies       bool    `json:"supplies,omitempty"`
	Weather        Weather `json:"weather,omitempty"`
}

// Merge returns e overridden by every non-zero field of o.
func (e Effects) Merge(o Effects) Effects {
	if o.SpeedModifier != 0 {
		e.SpeedModifier = o.SpeedModifier
	}
	if o.StaminaDrain != 0 {
		e.StaminaDrain = o.StaminaDrain
	}
	if o.StaminaDelta != 0 {
		e.StaminaDelta = o.StaminaDelta
	}
	if o.MoraleDelta != 0 {
		e.MoraleDelta = o.MoraleDelta
	}
	if o.TimeDelay != 0 {
		e.TimeDelay = o.TimeDelay
	}
	if o.Duration != 0 {
		e.Duration = o.Duration
	}
	if o.Weather != "" {
		e.Weather = o.Weather
	}
	e.FormationBreak = e.FormationBreak || o.FormationBreak
	e.TeamDisband = e.TeamDisband || o.TeamDisband
	e.Supplies = e.Supplies || o.Supplies
	return e
}

// HasModifiers reports whether the bundle carries lasting speed or drain changes.
func (e Effects) HasModifiers() bool {
	return (e.SpeedModifier != 0 && e.SpeedModifier != 1) ||
		(e.StaminaDrain != 0 && e.StaminaDrain != 1) || e.Supplies
}

// Modifier adjusts an event outcome for a character type or an equipped item.
type Modifier struct {
	TimeReduction    float64 `json:"timeReduction,omitempty" yaml:"timeReduction"`       // minutes
	StaminaReduction float64 `json:"staminaReduction,omitempty" yaml:"staminaReduction"` // fraction of stamina loss avoided
	SpeedBonus       float64 `json:"speedBonus,omitempty" yaml:"speedBonus"`             // added to the speed modifier
}

func (m Modifier) Add(o Modifier) Modifier {
	return Modifier{
		TimeReduction:    m.TimeReduction + o.TimeReduction,
		StaminaReduction: m.StaminaReduction + o.StaminaReduction,
		SpeedBonus:       m.SpeedBonus + o.SpeedBonus,
	}
}

type EventOption struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Effects     Effects `json:"effects"`
	NextLayer   string  `json:"nextLayer,omitempty"`
	CrashRisk   float64 `json:"crashRisk,omitempty"`
}

type KmRange struct {
	From float64 `json:"from" yaml:"from"`
	To   float64 `json:"to" yaml:"to"`
}

func (r KmRange) Contains(km float64) bool {
	return km >= r.From && km <= r.To
}

// EventTemplate is the static definition of an event.
type EventTemplate struct {
	ID                 string                     `json:"id"`
	Name               string                     `json:"name"`
	Category           EventCategory              `json:"category"`
	Description        string                     `json:"description"`
	Probability        float64                    `json:"probability"`
	Mandatory          bool                       `json:"mandatory"`
	FixedLocations     []float64                  `json:"fixedLocations,omitempty"`
	DistanceRanges     []KmRange                  `json:"distanceRanges,omitempty"`
	Terrain            []Terrain                  `json:"terrain,omitempty"`
	MoraleThreshold    float64                    `json:"moraleThreshold,omitempty"`
	Effects            Effects                    `json:"effects"`
	Layers             map[string][]EventOption   `json:"layers,omitempty"`
	CharacterModifiers map[CharacterType]Modifier `json:"characterModifiers,omitempty"`
	EquipmentModifiers map[string]Modifier        `json:"equipmentModifiers,omitempty"`
}

const FirstLayer = "layer1"

// HasDecision reports whether the event requires a choice.
func (t EventTemplate) HasDecision() bool {
	return len(t.Layers[FirstLayer]) > 0
}

// Option looks up an option of the given layer.
func (t EventTemplate) Option(layer, id string) (EventOption, bool) {
	for _, o := range t.Layers[layer] {
		if o.ID == id {
			return o, true
		}
	}
	return EventOption{}, false
}

// ActiveEffect is a time-limited modifier produced by an event.
type ActiveEffect struct {
	Source        string        `json:"source"`
	Category      EventCategory `json:"category"`
	SpeedModifier float64       `json:"speedModifier"`
	StaminaDrain  float64       `json:"staminaDrain"`
	Supplies      bool          `json:"supplies,omitempty"`
	ExpiresAt     float64       `json:"expiresAt"` // race seconds
	RevertWeather bool          `json:"revertWeather,omitempty"`
}

// EventRecord is the history entry of a resolved event.
type EventRecord struct {
	EventID     string        `json:"eventId"`
	Name        string        `json:"name"`
	Category    EventCategory `json:"category"`
	Timestamp   float64       `json:"timestamp"` // race seconds
	Distance    float64       `json:"distance"`
	Choices     []string      `json:"choices,omitempty"`
	Description string        `json:"description"`
	Effects     Effects       `json:"effects"`
}
