package model

// Terrain classifies a route segment.
type Terrain string

const (
	TerrainFlat             Terrain = "flat"
	TerrainSlightUphill     Terrain = "slight_uphill"
	TerrainUphill           Terrain = "uphill"
	TerrainSteepUphill      Terrain = "steep_uphill"
	TerrainExtremeUphill    Terrain = "extreme_uphill"
	TerrainSlightDownhill   Terrain = "slight_downhill"
	TerrainDownhill         Terrain = "downhill"
	TerrainSteepDownhill    Terrain = "steep_downhill"
	TerrainTechnical        Terrain = "technical"
	TerrainRolling          Terrain = "rolling"
	TerrainClimbing         Terrain = "climbing"
	TerrainDescendingToFlat Terrain = "descending_to_flat"
	TerrainFlatUndulating   Terrain = "flat_undulating"
	TerrainFlatToHills      Terrain = "flat_to_hills"
)

var allTerrains = []Terrain{
	TerrainFlat, TerrainSlightUphill, TerrainUphill, TerrainSteepUphill,
	TerrainExtremeUphill, TerrainSlightDownhill, TerrainDownhill, TerrainSteepDownhill,
	TerrainTechnical, TerrainRolling, TerrainClimbing, TerrainDescendingToFlat,
	TerrainFlatUndulating, TerrainFlatToHills,
}

func Terrains() []Terrain { return append([]Terrain(nil), allTerrains...) }

func (t Terrain) Valid() bool { return contains(allTerrains, t) }

// IsClimb reports whether the terrain is an ascent.
func (t Terrain) IsClimb() bool {
	switch t {
	case TerrainSlightUphill, TerrainUphill, TerrainSteepUphill,
		TerrainExtremeUphill, TerrainClimbing:
		return true
	default:
		return false
	}
}

// Weather is the current weather condition of the race.
type Weather string

const (
	WeatherClear        Weather = "clear"
	WeatherSunny        Weather = "sunny"
	WeatherPartlyCloudy Weather = "partly_cloudy"
	WeatherCloudy       Weather = "cloudy"
	WeatherHeadwind     Weather = "headwind"
	WeatherTailwind     Weather = "tailwind"
	WeatherSidewind     Weather = "sidewind"
	WeatherRain         Weather = "rain"
	WeatherStorm        Weather = "storm"
	WeatherHot          Weather = "hot"
	WeatherCold         Weather = "cold"
	WeatherHotSunny     Weather = "hot_sunny"
)

var allWeathers = []Weather{
	WeatherClear, WeatherSunny, WeatherPartlyCloudy, WeatherCloudy, WeatherHeadwind,
	WeatherTailwind, WeatherSidewind, WeatherRain, WeatherStorm, WeatherHot,
	WeatherCold, WeatherHotSunny,
}

func Weathers() []Weather { return append([]Weather(nil), allWeathers...) }

func (w Weather) Valid() bool { return contains(allWeathers, w) }

// IsBad reports weather conditions that count as a weather challenge.
func (w Weather) IsBad() bool {
	switch w {
	case WeatherHeadwind, WeatherRain, WeatherStorm, WeatherHot, WeatherHotSunny,
		WeatherCold, WeatherSidewind:
		return true
	default:
		return false
	}
}

func contains[T comparable](list []T, v T) bool {
	for i := range list {
		if list[i] == v {
			return true
		}
	}
	return false
}
