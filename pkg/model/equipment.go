package model

import "slices"

// Slot is the place an equipment item occupies on the bike.
type Slot string

const (
	SlotFrame     Slot = "frame"
	SlotWheels    Slot = "wheels"
	SlotGears     Slot = "gears"
	SlotAccessory Slot = "accessory"
)

type EquipmentItem struct {
	ID         string  `json:"id"`
	Slot       Slot    `json:"slot"`
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"` // kg
	Aero       float64 `json:"aero"`
	Durability float64 `json:"durability"`
	Precision  float64 `json:"precision"`
	Stability  float64 `json:"stability"`
	Benefit    string  `json:"benefit,omitempty"`
	Cost       int     `json:"cost"`
}

// BikeLoadout is the chosen equipment. All derived values are computed
// from the items on demand and never stored.
type BikeLoadout struct {
	Frame       *EquipmentItem  `json:"frame,omitempty"`
	Wheels      *EquipmentItem  `json:"wheels,omitempty"`
	Gears       *EquipmentItem  `json:"gears,omitempty"`
	Accessories []EquipmentItem `json:"accessories,omitempty"`
}

const (
	aeroBenefit      = "aerodynamics"
	neutralAero      = 70.0
	neutralWeight    = 7.0
	maxEquipBonus    = 0.3
	minEquipBonus    = -0.2
	accessoryAeroAdd = 0.03
)

func (b BikeLoadout) Complete() bool {
	return b.Frame != nil && b.Wheels != nil && b.Gears != nil
}

// TotalWeight sums frame, wheels and gears in kg.
func (b BikeLoadout) TotalWeight() float64 {
	w := 0.0
	for _, item := range b.core() {
		w += item.Weight
	}
	return w
}

// Aero is the weighted aerodynamics rating (frame .5, wheels .35, gears .15).
// Gears carry no aero rating of their own and use their precision instead.
func (b BikeLoadout) Aero() float64 {
	v := 0.0
	if b.Frame != nil {
		v += b.Frame.Aero * 0.5
	}
	if b.Wheels != nil {
		v += b.Wheels.Aero * 0.35
	}
	if b.Gears != nil {
		v += b.Gears.Precision * 0.15
	}
	return v / 0.9
}

// Durability is the mean durability of the items that declare one.
func (b BikeLoadout) Durability() float64 {
	sum, n := 0.0, 0
	for _, item := range b.core() {
		switch {
		case item.Durability > 0:
			sum += item.Durability
			n++
		case item.Stability > 0:
			sum += item.Stability
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (b BikeLoadout) TotalCost() int {
	c := 0
	for _, item := range b.core() {
		c += item.Cost
	}
	for i := range b.Accessories {
		c += b.Accessories[i].Cost
	}
	return c
}

// EquipmentBonus is the speed bonus fraction derived from the loadout.
func (b BikeLoadout) EquipmentBonus() float64 {
	if !b.Complete() {
		return 0
	}
	bonus := (b.Aero()-neutralAero)/200 - (b.TotalWeight()-neutralWeight)*0.005
	for i := range b.Accessories {
		if b.Accessories[i].Benefit == aeroBenefit {
			bonus += accessoryAeroAdd
		}
	}
	return clamp(bonus, minEquipBonus, maxEquipBonus)
}

func (b BikeLoadout) HasAccessory(id string) bool {
	for i := range b.Accessories {
		if b.Accessories[i].ID == id {
			return true
		}
	}
	return false
}

// ItemIDs returns the ids of all equipped items.
func (b BikeLoadout) ItemIDs() []string {
	ret := make([]string, 0, 3+len(b.Accessories))
	for _, item := range b.core() {
		ret = append(ret, item.ID)
	}
	for i := range b.Accessories {
		ret = append(ret, b.Accessories[i].ID)
	}
	return ret
}

func (b BikeLoadout) WithFrame(item EquipmentItem) BikeLoadout {
	ret := b.clone()
	ret.Frame = &item
	return ret
}

func (b BikeLoadout) WithWheels(item EquipmentItem) BikeLoadout {
	ret := b.clone()
	ret.Wheels = &item
	return ret
}

func (b BikeLoadout) WithGears(item EquipmentItem) BikeLoadout {
	ret := b.clone()
	ret.Gears = &item
	return ret
}

// WithAccessory adds the accessory unless one with the same id is present.
func (b BikeLoadout) WithAccessory(item EquipmentItem) BikeLoadout {
	ret := b.clone()
	if !ret.HasAccessory(item.ID) {
		ret.Accessories = append(ret.Accessories, item)
	}
	return ret
}

func (b BikeLoadout) WithoutAccessory(id string) BikeLoadout {
	ret := b.clone()
	ret.Accessories = ret.Accessories[:0]
	for i := range b.Accessories {
		if b.Accessories[i].ID != id {
			ret.Accessories = append(ret.Accessories, b.Accessories[i])
		}
	}
	return ret
}

func (b BikeLoadout) core() []*EquipmentItem {
	ret := make([]*EquipmentItem, 0, 3)
	for _, item := range []*EquipmentItem{b.Frame, b.Wheels, b.Gears} {
		if item != nil {
			ret = append(ret, item)
		}
	}
	return ret
}

func (b BikeLoadout) clone() BikeLoadout {
	ret := BikeLoadout{}
	if b.Frame != nil {
		f := *b.Frame
		ret.Frame = &f
	}
	if b.Wheels != nil {
		w := *b.Wheels
		ret.Wheels = &w
	}
	if b.Gears != nil {
		g := *b.Gears
		ret.Gears = &g
	}
	ret.Accessories = slices.Clone(b.Accessories)
	return ret
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
