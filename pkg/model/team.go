package model

// CharacterType is the archetype class of a rider.
type CharacterType string

const (
	CharacterClimber    CharacterType = "climber"
	CharacterSprinter   CharacterType = "sprinter"
	CharacterDomestique CharacterType = "domestique"
	CharacterAllrounder CharacterType = "allrounder"
)

func (c CharacterType) Valid() bool {
	return contains([]CharacterType{
		CharacterClimber, CharacterSprinter, CharacterDomestique, CharacterAllrounder,
	}, c)
}

// Ability is a situational speed bonus a rider may contribute.
type Ability string

const (
	AbilityMountainAcceleration Ability = "mountain_acceleration"
	AbilitySprintBurst          Ability = "sprint_burst"
	AbilityEnduranceBoost       Ability = "endurance_boost"
	AbilityTeamLeader           Ability = "team_leader"
	AbilityAeroSpecialist       Ability = "aero_specialist"
)

// Stats are the base attributes of an archetype, each in 0..100.
type Stats struct {
	Speed     float64 `json:"speed" yaml:"speed"`
	Stamina   float64 `json:"stamina" yaml:"stamina"`
	Climbing  float64 `json:"climbing" yaml:"climbing"`
	Sprinting float64 `json:"sprinting" yaml:"sprinting"`
	Teamwork  float64 `json:"teamwork" yaml:"teamwork"`
	Recovery  float64 `json:"recovery" yaml:"recovery"`
}

type CharacterArchetype struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Type      CharacterType `json:"type"`
	Stats     Stats         `json:"stats"`
	Cost      int           `json:"cost"`
	Specialty string        `json:"specialty"`
	Skills    []string      `json:"skills,omitempty"`
}

// TeamMember is a rider taking part in a race.
// A dropped member stays in the team but no longer rides.
type TeamMember struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Archetype      CharacterArchetype `json:"archetype"`
	CurrentStamina float64            `json:"currentStamina"`
	Dropped        bool               `json:"dropped"`
}

type Team struct {
	Members       []TeamMember `json:"members"`
	Formation     Formation    `json:"formation"`
	BaseFormation Formation    `json:"baseFormation"`
	CurrentLeader int          `json:"currentLeader"`
	Morale        float64      `json:"morale"`
}

// TeamConfig is the player's selection before a race starts.
type TeamConfig struct {
	Members   []CharacterArchetype `json:"members"`
	Formation Formation            `json:"formation"`
}

func (t TeamConfig) Cost() int {
	sum := 0
	for i := range t.Members {
		sum += t.Members[i].Cost
	}
	return sum
}

const (
	MinTeamSize = 2
	MaxTeamSize = 4
)
