package model

import "slices"

type RaceStats struct {
	MechanicalFailures int `json:"mechanicalFailures"`
	WeatherChallenges  int `json:"weatherChallenges"`
	EventsHandled      int `json:"eventsHandled"`
	SupplyStops        int `json:"supplyStops"`
	FormationChanges   int `json:"formationChanges"`
	FormationBreaks    int `json:"formationBreaks"`
	LeaderRotations    int `json:"leaderRotations"`
	// ridden on climb segments
	ClimbDistance float64 `json:"climbDistance"` // km
	ClimbTime     float64 `json:"climbTime"`     // seconds
}

// ClimbSpeed is the average speed on climb segments in km/h.
func (s RaceStats) ClimbSpeed() float64 {
	if s.ClimbTime <= 0 {
		return 0
	}
	return s.ClimbDistance / s.ClimbTime * 3600
}

// RaceState is the complete, serializable state of one race.
// It is treated as a value: updates produce a new copy via Clone.
type RaceState struct {
	ID                     string         `json:"id"`
	Distance               float64        `json:"distance"` // km
	TotalDistance          float64        `json:"totalDistance"`
	TimeElapsed            float64        `json:"timeElapsed"` // seconds
	Speed                  float64        `json:"speed"`       // km/h
	Team                   Team           `json:"team"`
	Bike                   BikeLoadout    `json:"bike"`
	Weather                Weather        `json:"weather"`
	Difficulty             Difficulty     `json:"difficulty"`
	Strategy               StrategyConfig `json:"strategy"`
	Events                 []EventRecord  `json:"events"`
	TriggeredEvents        []string       `json:"triggeredEvents"`
	ActiveEffects          []ActiveEffect `json:"activeEffects"`
	StationsReached        []bool         `json:"stationsReached"`
	DistanceSinceLastEvent float64        `json:"distanceSinceLastEvent"`
	CurrentSegment         int            `json:"currentSegment"`
	TeamIntegrity          float64        `json:"teamIntegrity"`
	IsPaused               bool           `json:"isPaused"`
	IsComplete             bool           `json:"isComplete"`
	Failed                 bool           `json:"failed"`
	Stats                  RaceStats      `json:"stats"`
}

// Clone returns a deep copy.
func (s RaceState) Clone() RaceState {
	ret := s
	ret.Team.Members = slices.Clone(s.Team.Members)
	ret.Bike = s.Bike.clone()
	ret.Events = slices.Clone(s.Events)
	ret.TriggeredEvents = slices.Clone(s.TriggeredEvents)
	ret.ActiveEffects = slices.Clone(s.ActiveEffects)
	ret.StationsReached = slices.Clone(s.StationsReached)
	return ret
}

func (s *RaceState) HasTriggered(id string) bool {
	return contains(s.TriggeredEvents, id)
}

// Riding returns the indices of members still riding.
func (s *RaceState) Riding() []int {
	ret := make([]int, 0, len(s.Team.Members))
	for i := range s.Team.Members {
		if !s.Team.Members[i].Dropped {
			ret = append(ret, i)
		}
	}
	return ret
}

// AverageStamina is the mean stamina of all members, dropped ones included.
func (s *RaceState) AverageStamina() float64 {
	if len(s.Team.Members) == 0 {
		return 0
	}
	sum := 0.0
	for i := range s.Team.Members {
		sum += s.Team.Members[i].CurrentStamina
	}
	return sum / float64(len(s.Team.Members))
}

func (s *RaceState) Leader() *TeamMember {
	if s.Team.CurrentLeader < 0 || s.Team.CurrentLeader >= len(s.Team.Members) {
		return nil
	}
	return &s.Team.Members[s.Team.CurrentLeader]
}

func (s *RaceState) Progress() float64 {
	if s.TotalDistance <= 0 {
		return 0
	}
	return s.Distance / s.TotalDistance
}

// LeaderStamina is the stamina of the current leader, 0 without a leader.
func (s *RaceState) LeaderStamina() float64 {
	if l := s.Leader(); l != nil {
		return l.CurrentStamina
	}
	return 0
}
