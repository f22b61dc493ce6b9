package model

// Formation is the riding arrangement of the team.
type Formation string

const (
	FormationSolo           Formation = "solo"
	FormationSingleLine     Formation = "single_line"
	FormationSideBySide     Formation = "side_by_side"
	FormationDoublePaceline Formation = "double_paceline"
	FormationEchelon        Formation = "echelon"
	FormationTrain          Formation = "train"
	FormationDiamond        Formation = "diamond"
)

// Position is a slot within a formation.
type Position string

const (
	PositionAny       Position = "any"
	PositionLead      Position = "lead"
	PositionSecond    Position = "second"
	PositionThird     Position = "third"
	PositionLast      Position = "last"
	PositionLeft      Position = "left"
	PositionRight     Position = "right"
	PositionLeadA     Position = "leadA"
	PositionLeadB     Position = "leadB"
	PositionFollowA   Position = "followA"
	PositionFollowB   Position = "followB"
	PositionFront     Position = "front"
	PositionProtected Position = "protected"
	PositionGuard     Position = "guard"
	PositionSide      Position = "side"
	PositionBack      Position = "back"
)

var formationSlots = map[Formation][]Position{
	FormationSolo:       {PositionAny},
	FormationSingleLine: {PositionLead, PositionSecond, PositionThird, PositionLast},
	FormationSideBySide: {PositionLeft, PositionRight},
	FormationDoublePaceline: {
		PositionLeadA, PositionLeadB, PositionFollowA, PositionFollowB,
	},
	FormationEchelon: {PositionFront, PositionProtected},
	FormationTrain:   {PositionLead, PositionGuard, PositionProtected},
	FormationDiamond: {PositionFront, PositionSide, PositionSide, PositionBack},
}

func Formations() []Formation {
	return []Formation{
		FormationSolo, FormationSingleLine, FormationSideBySide,
		FormationDoublePaceline, FormationEchelon, FormationTrain, FormationDiamond,
	}
}

func (f Formation) Valid() bool {
	_, ok := formationSlots[f]
	return ok
}

// Positions returns the ordered slots of the formation, front to back.
func (f Formation) Positions() []Position {
	return append([]Position(nil), formationSlots[f]...)
}

// PositionFor returns the slot for the rider at the given rank behind the
// leader (rank 0 is the leader). Ranks beyond the slot list share the last slot.
func (f Formation) PositionFor(rank int) Position {
	slots := formationSlots[f]
	if len(slots) == 0 {
		return PositionAny
	}
	if rank < 0 {
		rank = 0
	}
	if rank >= len(slots) {
		rank = len(slots) - 1
	}
	return slots[rank]
}
