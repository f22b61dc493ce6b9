package model

const (
	TotalDistance = 380.0     // km
	TimeLimit     = 24 * 3600 // seconds
	TargetTime    = 12 * 3600 // seconds, par time for scoring
	BudgetLimit   = 5000
)

type RouteSegment struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	StartKm     float64 `json:"startKm"`
	EndKm       float64 `json:"endKm"`
	Distance    float64 `json:"distance"`
	Terrain     Terrain `json:"terrain"`
	Elevation   float64 `json:"elevation"`
	Difficulty  int     `json:"difficulty"`
	Landmark    string  `json:"landmark,omitempty"`
	Description string  `json:"description,omitempty"`
}

type Route struct {
	Segments      []RouteSegment `json:"segments"`
	TotalDistance float64        `json:"totalDistance"`
}

// SegmentAt returns the index of the first segment whose cumulative end
// exceeds km. Positions at or beyond the end map to the last segment.
func (r Route) SegmentAt(km float64) int {
	if len(r.Segments) == 0 {
		return -1
	}
	cum := 0.0
	for i := range r.Segments {
		cum += r.Segments[i].Distance
		if km < cum {
			return i
		}
	}
	return len(r.Segments) - 1
}

// Segment returns the segment at km, the zero value for an empty route.
func (r Route) Segment(km float64) RouteSegment {
	idx := r.SegmentAt(km)
	if idx < 0 {
		return RouteSegment{Terrain: TerrainFlat}
	}
	return r.Segments[idx]
}

func (r Route) SumDistance() float64 {
	sum := 0.0
	for i := range r.Segments {
		sum += r.Segments[i].Distance
	}
	return sum
}

type SupplyKind string

const (
	SupplyWater  SupplyKind = "water"
	SupplyFood   SupplyKind = "food"
	SupplyRepair SupplyKind = "repair"
	SupplyEnergy SupplyKind = "energy"
	SupplyRest   SupplyKind = "rest"
)

type SupplyStation struct {
	Km       float64      `json:"km"`
	Name     string       `json:"name"`
	Supplies []SupplyKind `json:"supplies"`
}

func (s SupplyStation) Has(kind SupplyKind) bool {
	return contains(s.Supplies, kind)
}
