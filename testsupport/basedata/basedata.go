package basedata

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

// SampleTeam is the four-rider team using every archetype once.
func SampleTeam() model.TeamConfig {
	cat := catalog.Default()
	members := []model.CharacterArchetype{}
	for _, id := range []string{"climber", "sprinter", "domestique", "allrounder"} {
		ch, _ := cat.Character(id)
		members = append(members, ch)
	}
	return model.TeamConfig{Members: members, Formation: model.FormationSingleLine}
}

// SampleBike is a complete mid-range loadout without accessories.
func SampleBike() model.BikeLoadout {
	cat := catalog.Default()
	frame, _ := cat.Item(model.SlotFrame, "carbon_endurance")
	wheels, _ := cat.Item(model.SlotWheels, "aluminum_training")
	gears, _ := cat.Item(model.SlotGears, "mechanical_11speed")
	return model.BikeLoadout{}.WithFrame(frame).WithWheels(wheels).WithGears(gears)
}

func SampleStrategy() model.StrategyConfig {
	return model.DefaultStrategy()
}

// SampleEntry is a plausible leaderboard entry finishing in 13 hours.
func SampleEntry() *model.LeaderboardEntry {
	return &model.LeaderboardEntry{
		PlayerID:        "player-1",
		PlayerName:      "WindRider",
		TotalScore:      18500,
		CompletionTime:  13 * 3600,
		AvgSpeed:        decimal.NewFromFloat(29.23),
		TeamFinished:    4,
		TotalTeamSize:   4,
		TeamComposition: []string{"climber", "sprinter", "domestique", "allrounder"},
		Difficulty:      model.DifficultyNormal,
		SubmittedAt:     TestTime(),
	}
}
