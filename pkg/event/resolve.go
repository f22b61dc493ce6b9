package event

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const maxLayers = 2

var ErrUnknownOption = errors.New("unknown event option")

// Resolution is the outcome of an event after all decisions were taken.
type Resolution struct {
	Template    model.EventTemplate
	Choices     []string
	Effects     model.Effects
	Modifiers   model.Modifier
	CrashRisk   float64
	Repair      bool // clears lasting mechanical effects
	Description string
}

// Resolve walks the decision tree of t with the given option ids.
// Events without decisions, or with no choices given, resolve to the
// template's own effects. Options of a later layer override earlier ones.
func Resolve(
	t model.EventTemplate,
	choices []string,
	team model.Team,
	bike model.BikeLoadout,
) (Resolution, error) {
	res := Resolution{Template: t, Effects: t.Effects}
	labels := make([]string, 0, maxLayers)

	if t.HasDecision() && len(choices) > 0 {
		res.Effects = model.Effects{}
		layer := model.FirstLayer
		for i := 0; i < len(choices) && i < maxLayers && layer != ""; i++ {
			opt, ok := t.Option(layer, choices[i])
			if !ok {
				return Resolution{}, fmt.Errorf("%w: %s/%s/%s",
					ErrUnknownOption, t.ID, layer, choices[i])
			}
			res.Effects = res.Effects.Merge(opt.Effects)
			res.Choices = append(res.Choices, opt.ID)
			res.CrashRisk = max(res.CrashRisk, opt.CrashRisk)
			labels = append(labels, opt.Label)
			layer = opt.NextLayer
		}
	} else if len(choices) > 0 {
		if preset, ok := PresetEffects(t.Category, choices[0]); ok {
			res.Effects = preset
			res.Choices = []string{choices[0]}
			labels = append(labels, choices[0])
		}
	}
	res.Modifiers = collectModifiers(t, team, bike)
	res.Description = Narrate(t, labels)
	return res, nil
}

// AutoChoices picks the options a strategy takes for t. Supply and
// mechanical events follow the respective presets, other events take the
// first option of each layer.
func AutoChoices(t model.EventTemplate, strategy model.StrategyConfig) []string {
	if !t.HasDecision() {
		return nil
	}
	first := t.Layers[model.FirstLayer][0]
	var wanted string
	//nolint:exhaustive // other categories take the first option
	switch t.Category {
	case model.CategorySupply:
		wanted = string(strategy.Supply)
	case model.CategoryMechanical:
		wanted = string(strategy.Mechanical)
	}
	opt, ok := t.Option(model.FirstLayer, wanted)
	if !ok {
		opt = first
	}
	ret := []string{opt.ID}
	if next := t.Layers[opt.NextLayer]; opt.NextLayer != "" && len(next) > 0 {
		ret = append(ret, next[0].ID)
	}
	return ret
}

// PresetEffects returns the fixed strategy bundles for supply and mechanical
// decisions. They are used when a template carries no options of its own.
//
//nolint:exhaustive // only supply and mechanical have presets
func PresetEffects(category model.EventCategory, choice string) (model.Effects, bool) {
	switch category {
	case model.CategorySupply:
		switch model.SupplyPreset(choice) {
		case model.SupplySkip:
			return model.Effects{MoraleDelta: -5}, true
		case model.SupplyQuick:
			return model.Effects{
				TimeDelay: 300, StaminaDelta: 15, MoraleDelta: 5,
				Supplies: true, Duration: 600,
			}, true
		case model.SupplyFull:
			return model.Effects{
				TimeDelay: 1200, StaminaDelta: 50, MoraleDelta: 15,
				Supplies: true, Duration: 1200,
			}, true
		}
	case model.CategoryMechanical:
		switch model.MechanicalPreset(choice) {
		case model.MechanicalQuickFix:
			return model.Effects{TimeDelay: 300, MoraleDelta: -5}, true
		case model.MechanicalThoroughRepair:
			return model.Effects{TimeDelay: 900}, true
		case model.MechanicalContinue:
			return model.Effects{SpeedModifier: 0.8, Duration: 600, MoraleDelta: -10}, true
		}
	}
	return model.Effects{}, false
}

// Narrate renders the human readable description of an outcome.
func Narrate(t model.EventTemplate, labels []string) string {
	name := t.Name
	if name == "" {
		name = t.ID
	}
	if len(labels) == 0 {
		if t.Description == "" {
			return name
		}
		return fmt.Sprintf("%s: %s", name, t.Description)
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(labels, " > "))
}

func collectModifiers(
	t model.EventTemplate,
	team model.Team,
	bike model.BikeLoadout,
) model.Modifier {
	ret := model.Modifier{}
	seen := map[model.CharacterType]bool{}
	for i := range team.Members {
		m := &team.Members[i]
		if m.Dropped || seen[m.Archetype.Type] {
			continue
		}
		seen[m.Archetype.Type] = true
		if mod, ok := t.CharacterModifiers[m.Archetype.Type]; ok {
			ret = ret.Add(mod)
		}
	}
	for _, id := range bike.ItemIDs() {
		if mod, ok := t.EquipmentModifiers[id]; ok {
			ret = ret.Add(mod)
		}
	}
	return ret
}

func withStationExtras(res Resolution, s model.SupplyStation) Resolution {
	if len(res.Choices) == 0 || res.Choices[0] == string(model.SupplySkip) {
		return res
	}
	if s.Has(model.SupplyRest) && res.Choices[0] == string(model.SupplyFull) {
		res.Effects.StaminaDelta += 10
	}
	if s.Has(model.SupplyRepair) {
		res.Repair = true
	}
	res.Description = fmt.Sprintf("%s (%s)", res.Description, s.Name)
	return res
}
