package model

type Pace string

const (
	PaceConservative Pace = "conservative"
	PaceBalanced     Pace = "balanced"
	PaceAggressive   Pace = "aggressive"
)

func (p Pace) Valid() bool {
	return contains([]Pace{PaceConservative, PaceBalanced, PaceAggressive}, p)
}

// SpeedFactor scales the base rider speed.
func (p Pace) SpeedFactor() float64 {
	switch p {
	case PaceConservative:
		return 0.8
	case PaceAggressive:
		return 1.2
	default:
		return 1.0
	}
}

// DrainFactor scales stamina consumption.
func (p Pace) DrainFactor() float64 {
	switch p {
	case PaceConservative:
		return 0.8
	case PaceAggressive:
		return 1.3
	default:
		return 1.0
	}
}

// SupplyPreset is the automatic decision at supply stations.
type SupplyPreset string

const (
	SupplySkip  SupplyPreset = "skip"
	SupplyQuick SupplyPreset = "quick"
	SupplyFull  SupplyPreset = "full"
)

func (s SupplyPreset) Valid() bool {
	return contains([]SupplyPreset{SupplySkip, SupplyQuick, SupplyFull}, s)
}

// ClimbingPreset is the automatic formation choice on climbs.
type ClimbingPreset string

const (
	ClimbingSingle   ClimbingPreset = "single"
	ClimbingDouble   ClimbingPreset = "double"
	ClimbingMaintain ClimbingPreset = "maintain"
)

func (c ClimbingPreset) Valid() bool {
	return contains([]ClimbingPreset{ClimbingSingle, ClimbingDouble, ClimbingMaintain}, c)
}

// Formation returns the formation used on climbs, ok is false for maintain.
func (c ClimbingPreset) Formation() (Formation, bool) {
	switch c {
	case ClimbingSingle:
		return FormationSingleLine, true
	case ClimbingDouble:
		return FormationDoublePaceline, true
	default:
		return "", false
	}
}

// MechanicalPreset is the automatic decision on mechanical failures.
type MechanicalPreset string

const (
	MechanicalQuickFix       MechanicalPreset = "quick_fix"
	MechanicalThoroughRepair MechanicalPreset = "thorough_repair"
	MechanicalContinue       MechanicalPreset = "continue"
)

func (m MechanicalPreset) Valid() bool {
	return contains([]MechanicalPreset{
		MechanicalQuickFix, MechanicalThoroughRepair, MechanicalContinue,
	}, m)
}

const (
	DefaultRotationThreshold = 30.0
	MinRotationThreshold     = 20.0
	MaxRotationThreshold     = 50.0
)

// StrategyConfig holds the automatic decisions applied during a race.
type StrategyConfig struct {
	Pace              Pace             `json:"pace"`
	Supply            SupplyPreset     `json:"supply"`
	Climbing          ClimbingPreset   `json:"climbing"`
	Mechanical        MechanicalPreset `json:"mechanical"`
	RotationThreshold float64          `json:"rotationThreshold"`
}

func DefaultStrategy() StrategyConfig {
	return StrategyConfig{
		Pace:              PaceBalanced,
		Supply:            SupplyQuick,
		Climbing:          ClimbingSingle,
		Mechanical:        MechanicalQuickFix,
		RotationThreshold: DefaultRotationThreshold,
	}
}

// WithDefaults fills empty fields with the default strategy values.
func (s StrategyConfig) WithDefaults() StrategyConfig {
	def := DefaultStrategy()
	if s.Pace == "" {
		s.Pace = def.Pace
	}
	if s.Supply == "" {
		s.Supply = def.Supply
	}
	if s.Climbing == "" {
		s.Climbing = def.Climbing
	}
	if s.Mechanical == "" {
		s.Mechanical = def.Mechanical
	}
	if s.RotationThreshold == 0 {
		s.RotationThreshold = def.RotationThreshold
	}
	return s
}

type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyNormal  Difficulty = "normal"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

func (d Difficulty) Valid() bool {
	return contains([]Difficulty{
		DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyExtreme,
	}, d)
}
