package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/config"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

// RaceSetup is the resolved race configuration.
type RaceSetup struct {
	Team       model.TeamConfig
	Bike       model.BikeLoadout
	Strategy   model.StrategyConfig
	Difficulty model.Difficulty
}

// AddRaceFlags registers the team, bike and strategy flags.
func AddRaceFlags(cmd *cobra.Command, rc *config.RaceConfig) {
	def := model.DefaultStrategy()
	cmd.Flags().StringSliceVar(&rc.Team, "team",
		[]string{"climber", "sprinter", "domestique", "allrounder"},
		"archetype ids of the riders (2 to 4)")
	cmd.Flags().StringVar(&rc.Formation, "formation",
		string(model.FormationSingleLine), "base formation")
	cmd.Flags().StringVar(&rc.Frame, "frame", "carbon_endurance", "frame id")
	cmd.Flags().StringVar(&rc.Wheels, "wheels", "aluminum_training", "wheels id")
	cmd.Flags().StringVar(&rc.Gears, "gears", "mechanical_11speed", "gears id")
	cmd.Flags().StringSliceVar(&rc.Accessories, "accessories", []string{},
		"accessory ids")
	cmd.Flags().StringVar(&rc.Pace, "pace", string(def.Pace),
		"pace (conservative, balanced, aggressive)")
	cmd.Flags().StringVar(&rc.Supply, "supply", string(def.Supply),
		"supply station decision (skip, quick, full)")
	cmd.Flags().StringVar(&rc.Climbing, "climbing", string(def.Climbing),
		"climbing formation (single, double, maintain)")
	cmd.Flags().StringVar(&rc.Mechanical, "mechanical", string(def.Mechanical),
		"mechanical failure decision (quick_fix, thorough_repair, continue)")
	cmd.Flags().Float64Var(&rc.RotationThreshold, "rotation-threshold",
		def.RotationThreshold, "leader stamina below which the lead rotates")
	cmd.Flags().StringVar(&rc.Difficulty, "difficulty",
		string(model.DifficultyNormal), "difficulty (easy, normal, hard, extreme)")
	cmd.Flags().Uint64Var(&rc.Seed, "seed", 0,
		"seed for the event randomness (0: random)")
	cmd.Flags().BoolVar(&rc.BudgetCheck, "budget-check", false,
		"reject setups above the budget limit")
}

// BuildRace resolves catalog ids. Unknown ids are reported together.
func BuildRace(cat *catalog.Catalog, rc *config.RaceConfig) (RaceSetup, error) {
	var unknown []string
	team := model.TeamConfig{Formation: model.Formation(rc.Formation)}
	for _, id := range rc.Team {
		ch, ok := cat.Character(id)
		if !ok {
			unknown = append(unknown, "rider "+id)
			continue
		}
		team.Members = append(team.Members, ch)
	}

	bike := model.BikeLoadout{}
	item := func(slot model.Slot, id string) (model.EquipmentItem, bool) {
		it, ok := cat.Item(slot, id)
		if !ok {
			unknown = append(unknown, fmt.Sprintf("%s %s", slot, id))
		}
		return it, ok
	}
	if it, ok := item(model.SlotFrame, rc.Frame); ok {
		bike = bike.WithFrame(it)
	}
	if it, ok := item(model.SlotWheels, rc.Wheels); ok {
		bike = bike.WithWheels(it)
	}
	if it, ok := item(model.SlotGears, rc.Gears); ok {
		bike = bike.WithGears(it)
	}
	for _, id := range rc.Accessories {
		if it, ok := item(model.SlotAccessory, id); ok {
			bike = bike.WithAccessory(it)
		}
	}
	if len(unknown) > 0 {
		return RaceSetup{}, fmt.Errorf("unknown catalog ids: %v", unknown)
	}
	return RaceSetup{
		Team: team,
		Bike: bike,
		Strategy: model.StrategyConfig{
			Pace:              model.Pace(rc.Pace),
			Supply:            model.SupplyPreset(rc.Supply),
			Climbing:          model.ClimbingPreset(rc.Climbing),
			Mechanical:        model.MechanicalPreset(rc.Mechanical),
			RotationThreshold: rc.RotationThreshold,
		},
		Difficulty: model.Difficulty(rc.Difficulty),
	}, nil
}
