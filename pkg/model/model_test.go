//nolint:thelper,lll // ok for tests
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleLoadout() BikeLoadout {
	return BikeLoadout{}.
		WithFrame(EquipmentItem{ID: "carbon_endurance", Slot: SlotFrame, Weight: 7.5, Aero: 85, Durability: 90, Cost: 2500}).
		WithWheels(EquipmentItem{ID: "aluminum_training", Slot: SlotWheels, Weight: 1.8, Aero: 65, Stability: 95, Cost: 600}).
		WithGears(EquipmentItem{ID: "mechanical_11speed", Slot: SlotGears, Weight: 0.38, Precision: 75, Durability: 98, Cost: 500})
}

func TestBikeLoadoutDerived(t *testing.T) {
	b := sampleLoadout()
	assert.True(t, b.Complete())
	assert.InDelta(t, 9.68, b.TotalWeight(), 1e-9)
	assert.InDelta(t, (85*0.5+65*0.35+75*0.15)/0.9, b.Aero(), 1e-9)
	assert.Equal(t, 3600, b.TotalCost())
	assert.InDelta(t, (90.0+95+98)/3, b.Durability(), 1e-9)

	withBars := b.WithAccessory(EquipmentItem{ID: "aero_bars", Slot: SlotAccessory, Benefit: "aerodynamics", Cost: 400})
	assert.Equal(t, 4000, withBars.TotalCost())
	assert.InDelta(t, b.EquipmentBonus()+0.03, withBars.EquipmentBonus(), 1e-9)
	// adding twice keeps a single entry
	assert.Len(t, withBars.WithAccessory(EquipmentItem{ID: "aero_bars"}).Accessories, 1)
	assert.Equal(t, 3600, withBars.WithoutAccessory("aero_bars").TotalCost())
	// original untouched
	assert.Empty(t, b.Accessories)
}

func TestEquipmentBonusIncomplete(t *testing.T) {
	assert.InDelta(t, 0.0, BikeLoadout{}.EquipmentBonus(), 1e-9)
}

func TestFormationPositionFor(t *testing.T) {
	tests := []struct {
		name      string
		formation Formation
		rank      int
		want      Position
	}{
		{"leader of single line", FormationSingleLine, 0, PositionLead},
		{"third of single line", FormationSingleLine, 2, PositionThird},
		{"beyond slots", FormationEchelon, 3, PositionProtected},
		{"solo", FormationSolo, 2, PositionAny},
		{"unknown formation", Formation("blob"), 1, PositionAny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.formation.PositionFor(tt.rank))
		})
	}
}

func TestRouteSegmentAt(t *testing.T) {
	r := Route{Segments: []RouteSegment{
		{ID: "a", Distance: 10, Terrain: TerrainFlat},
		{ID: "b", Distance: 5, Terrain: TerrainUphill},
	}, TotalDistance: 15}
	assert.Equal(t, 0, r.SegmentAt(0))
	assert.Equal(t, 0, r.SegmentAt(9.99))
	assert.Equal(t, 1, r.SegmentAt(10))
	assert.Equal(t, 1, r.SegmentAt(15))
	assert.Equal(t, 1, r.SegmentAt(100))
	assert.Equal(t, -1, Route{}.SegmentAt(3))
	assert.Equal(t, TerrainFlat, Route{}.Segment(3).Terrain)
}

func TestRaceStateClone(t *testing.T) {
	s := RaceState{
		Team:            Team{Members: []TeamMember{{ID: "a", CurrentStamina: 50}}},
		Events:          []EventRecord{{EventID: "x"}},
		TriggeredEvents: []string{"x"},
		StationsReached: []bool{false},
		Bike:            sampleLoadout(),
	}
	c := s.Clone()
	c.Team.Members[0].CurrentStamina = 10
	c.TriggeredEvents[0] = "y"
	c.StationsReached[0] = true
	c.Bike.Frame.Weight = 1
	assert.InDelta(t, 50.0, s.Team.Members[0].CurrentStamina, 1e-9)
	assert.Equal(t, "x", s.TriggeredEvents[0])
	assert.False(t, s.StationsReached[0])
	assert.InDelta(t, 7.5, s.Bike.Frame.Weight, 1e-9)
}

func TestEffectsMerge(t *testing.T) {
	a := Effects{TimeDelay: 240, MoraleDelta: -5}
	b := Effects{TimeDelay: 180, FormationBreak: true}
	got := a.Merge(b)
	assert.Equal(t, Effects{TimeDelay: 180, MoraleDelta: -5, FormationBreak: true}, got)
}

func TestStrategyWithDefaults(t *testing.T) {
	s := StrategyConfig{Pace: PaceAggressive}.WithDefaults()
	assert.Equal(t, PaceAggressive, s.Pace)
	assert.Equal(t, SupplyQuick, s.Supply)
	assert.InDelta(t, DefaultRotationThreshold, s.RotationThreshold, 1e-9)
}
