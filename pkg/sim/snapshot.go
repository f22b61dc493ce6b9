// Package sim drives races: in real time against a wall clock or compressed
// into a fixed number of frames for the fast-forward replay.
package sim

import (
	"sort"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

type MemberSnapshot struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Stamina float64 `json:"stamina"`
	Dropped bool    `json:"dropped"`
}

// Snapshot is the per-frame view of a race used for replays.
type Snapshot struct {
	Frame       int              `json:"frame"`
	Distance    float64          `json:"distance"`
	TimeElapsed float64          `json:"timeElapsed"`
	Speed       float64          `json:"speed"`
	Leader      int              `json:"leader"`
	Formation   model.Formation  `json:"formation"`
	Morale      float64          `json:"morale"`
	Members     []MemberSnapshot `json:"members"`
	Terrain     model.Terrain    `json:"terrain"`
	Weather     model.Weather    `json:"weather"`
	Complete    bool             `json:"complete"`
}

func TakeSnapshot(frame int, state model.RaceState, route model.Route) Snapshot {
	members := make([]MemberSnapshot, 0, len(state.Team.Members))
	for i := range state.Team.Members {
		m := &state.Team.Members[i]
		members = append(members, MemberSnapshot{
			ID:      m.ID,
			Name:    m.Name,
			Stamina: m.CurrentStamina,
			Dropped: m.Dropped,
		})
	}
	return Snapshot{
		Frame:       frame,
		Distance:    state.Distance,
		TimeElapsed: state.TimeElapsed,
		Speed:       state.Speed,
		Leader:      state.Team.CurrentLeader,
		Formation:   state.Team.Formation,
		Morale:      state.Team.Morale,
		Members:     members,
		Terrain:     route.Segment(state.Distance).Terrain,
		Weather:     state.Weather,
		Complete:    state.IsComplete,
	}
}

// Interpolate returns the view at frame between two recorded snapshots.
// Continuous values are interpolated linearly, discrete values are taken
// from the later snapshot. Frames outside the recorded range yield the
// nearest boundary snapshot.
func Interpolate(snapshots []Snapshot, frame int) (Snapshot, bool) {
	if len(snapshots) == 0 {
		return Snapshot{}, false
	}
	first, last := snapshots[0], snapshots[len(snapshots)-1]
	if frame <= first.Frame {
		return first, true
	}
	if frame >= last.Frame {
		return last, true
	}
	idx := sort.Search(len(snapshots), func(i int) bool {
		return snapshots[i].Frame > frame
	})
	a, b := snapshots[idx-1], snapshots[idx]
	if a.Frame == frame {
		return a, true
	}
	t := float64(frame-a.Frame) / float64(b.Frame-a.Frame)

	ret := b
	ret.Frame = frame
	ret.Complete = false
	ret.Distance = lerp(a.Distance, b.Distance, t)
	ret.TimeElapsed = lerp(a.TimeElapsed, b.TimeElapsed, t)
	ret.Speed = lerp(a.Speed, b.Speed, t)
	ret.Morale = lerp(a.Morale, b.Morale, t)
	ret.Members = make([]MemberSnapshot, len(b.Members))
	copy(ret.Members, b.Members)
	if len(a.Members) == len(b.Members) {
		for i := range ret.Members {
			ret.Members[i].Stamina = lerp(a.Members[i].Stamina, b.Members[i].Stamina, t)
		}
	}
	return ret, true
}

// thin reduces snapshots to at most limit entries, keeping first and last.
func thin(snapshots []Snapshot, limit int) []Snapshot {
	n := len(snapshots)
	if limit <= 0 || n <= limit {
		return snapshots
	}
	if limit == 1 {
		return []Snapshot{snapshots[n-1]}
	}
	ret := make([]Snapshot, 0, limit)
	for i := 0; i < limit; i++ {
		ret = append(ret, snapshots[i*(n-1)/(limit-1)])
	}
	return ret
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
