// Package formula contains the pure, clamped calculations of the simulation.
// Tables are exhaustive over the closed enumerations; unknown values fall
// back to the neutral multiplier.
package formula

import "github.com/mpapenbr/bikechallenge/pkg/model"

// TerrainMultiplier is the speed factor for a terrain type.
//
//nolint:cyclop,exhaustive // table
func TerrainMultiplier(t model.Terrain) float64 {
	switch t {
	case model.TerrainFlat:
		return 1.0
	case model.TerrainSlightUphill:
		return 0.85
	case model.TerrainUphill:
		return 0.70
	case model.TerrainSteepUphill:
		return 0.55
	case model.TerrainExtremeUphill:
		return 0.40
	case model.TerrainSlightDownhill:
		return 1.15
	case model.TerrainDownhill:
		return 1.25
	case model.TerrainSteepDownhill:
		return 1.35
	case model.TerrainTechnical:
		return 0.80
	case model.TerrainRolling:
		return 0.90
	case model.TerrainClimbing:
		return 0.60
	case model.TerrainDescendingToFlat:
		return 1.10
	case model.TerrainFlatUndulating:
		return 0.95
	case model.TerrainFlatToHills:
		return 0.85
	default:
		return 1.0
	}
}

// TerrainConsumption is the stamina consumption factor for a terrain type.
//
//nolint:cyclop,exhaustive // table
func TerrainConsumption(t model.Terrain) float64 {
	switch t {
	case model.TerrainFlat:
		return 1.0
	case model.TerrainSlightUphill:
		return 1.3
	case model.TerrainUphill:
		return 1.8
	case model.TerrainSteepUphill:
		return 2.5
	case model.TerrainExtremeUphill:
		return 3.0
	case model.TerrainSlightDownhill:
		return 0.5
	case model.TerrainDownhill, model.TerrainSteepDownhill:
		return 0.3
	case model.TerrainTechnical:
		return 1.3
	case model.TerrainRolling:
		return 1.2
	case model.TerrainClimbing:
		return 2.2
	case model.TerrainDescendingToFlat:
		return 0.4
	case model.TerrainFlatUndulating:
		return 1.1
	case model.TerrainFlatToHills:
		return 1.4
	default:
		return 1.0
	}
}

// WeatherEffect is the speed factor for the weather.
//
//nolint:cyclop,exhaustive // table
func WeatherEffect(w model.Weather) float64 {
	switch w {
	case model.WeatherClear, model.WeatherSunny:
		return 1.0
	case model.WeatherPartlyCloudy:
		return 0.98
	case model.WeatherCloudy:
		return 0.95
	case model.WeatherHeadwind:
		return 0.75
	case model.WeatherTailwind:
		return 1.15
	case model.WeatherSidewind:
		return 0.85
	case model.WeatherRain:
		return 0.80
	case model.WeatherStorm:
		return 0.60
	case model.WeatherHot:
		return 0.90
	case model.WeatherCold:
		return 0.92
	case model.WeatherHotSunny:
		return 0.88
	default:
		return 1.0
	}
}

// WeatherConsumption is the stamina consumption factor for the weather.
//
//nolint:exhaustive // unlisted weather is neutral
func WeatherConsumption(w model.Weather) float64 {
	switch w {
	case model.WeatherHeadwind:
		return 1.4
	case model.WeatherTailwind:
		return 0.8
	case model.WeatherRain:
		return 1.2
	case model.WeatherStorm:
		return 1.5
	case model.WeatherHot:
		return 1.3
	case model.WeatherHotSunny:
		return 1.35
	case model.WeatherCold:
		return 1.1
	default:
		return 1.0
	}
}

// WeatherRecovery is the recovery factor for the weather.
//
//nolint:exhaustive // unlisted weather is neutral
func WeatherRecovery(w model.Weather) float64 {
	switch w {
	case model.WeatherHot:
		return 0.7
	case model.WeatherHotSunny:
		return 0.65
	case model.WeatherCold:
		return 0.9
	case model.WeatherRain, model.WeatherStorm:
		return 0.8
	default:
		return 1.0
	}
}

// WeatherMood is the morale drift caused by the weather.
//
//nolint:exhaustive // unlisted weather is neutral
func WeatherMood(w model.Weather) float64 {
	switch w {
	case model.WeatherSunny, model.WeatherClear:
		return 0.5
	case model.WeatherRain:
		return -1
	case model.WeatherStorm:
		return -2
	default:
		return 0
	}
}

// FormationBonus is the drafting bonus of a slot. Slots which do not belong
// to the formation yield 0.
//
//nolint:cyclop,exhaustive // table
func FormationBonus(f model.Formation, p model.Position) float64 {
	switch f {
	case model.FormationSingleLine:
		switch p {
		case model.PositionSecond:
			return 0.20
		case model.PositionThird:
			return 0.25
		case model.PositionLast:
			return 0.30
		}
	case model.FormationSideBySide:
		switch p {
		case model.PositionLeft:
			return 0.10
		case model.PositionRight:
			return 0.15
		}
	case model.FormationDoublePaceline:
		switch p {
		case model.PositionLeadA, model.PositionLeadB:
			return 0.05
		case model.PositionFollowA, model.PositionFollowB:
			return 0.18
		}
	case model.FormationEchelon:
		if p == model.PositionProtected {
			return 0.35
		}
	case model.FormationTrain:
		switch p {
		case model.PositionGuard:
			return 0.15
		case model.PositionProtected:
			return 0.40
		}
	case model.FormationDiamond:
		switch p {
		case model.PositionSide:
			return 0.20
		case model.PositionBack:
			return 0.25
		}
	}
	return 0
}

// FormationStaminaSaving is the fraction of stamina saved by drafting.
func FormationStaminaSaving(f model.Formation, p model.Position) float64 {
	return FormationBonus(f, p)
}

// AbilityBonus sums the bonuses of the given abilities.
func AbilityBonus(abilities []model.Ability) float64 {
	sum := 0.0
	for _, a := range abilities {
		switch a {
		case model.AbilityMountainAcceleration:
			sum += 0.15
		case model.AbilitySprintBurst:
			sum += 0.20
		case model.AbilityEnduranceBoost:
			sum += 0.10
		case model.AbilityTeamLeader:
			sum += 0.08
		case model.AbilityAeroSpecialist:
			sum += 0.12
		}
	}
	return sum
}

// DifficultyMultiplier scales the final score.
//
//nolint:exhaustive // default is normal
func DifficultyMultiplier(d model.Difficulty) float64 {
	switch d {
	case model.DifficultyEasy:
		return 0.8
	case model.DifficultyHard:
		return 1.3
	case model.DifficultyExtreme:
		return 1.6
	default:
		return 1.0
	}
}

// DifficultyEventFactor scales event probabilities.
//
//nolint:exhaustive // default is normal
func DifficultyEventFactor(d model.Difficulty) float64 {
	switch d {
	case model.DifficultyEasy:
		return 0.5
	case model.DifficultyHard:
		return 1.5
	case model.DifficultyExtreme:
		return 2.0
	default:
		return 1.0
	}
}

// WeatherEventFactor scales event probabilities by the current weather.
//
//nolint:exhaustive // unlisted weather is neutral
func WeatherEventFactor(w model.Weather) float64 {
	switch w {
	case model.WeatherClear, model.WeatherSunny:
		return 0.8
	case model.WeatherRain:
		return 1.5
	case model.WeatherStorm:
		return 2.0
	default:
		return 1.0
	}
}

// AchievementBonus is the score bonus of an achievement.
//
//nolint:exhaustive // unknown achievements give nothing
func AchievementBonus(a model.Achievement) int {
	switch a {
	case model.AchievementNoDropout:
		return 1000
	case model.AchievementPerfectFormation:
		return 800
	case model.AchievementMountainKing:
		return 600
	case model.AchievementSpeedDemon:
		return 700
	case model.AchievementIronWill:
		return 900
	case model.AchievementWeatherMaster:
		return 500
	case model.AchievementMechanicalGenius:
		return 400
	case model.AchievementTeamHarmony:
		return 600
	default:
		return 0
	}
}
