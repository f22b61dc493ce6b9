//nolint:thelper,funlen,lll // ok for tests
package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

func TestDefaultRoute(t *testing.T) {
	c := Default()
	r := c.Route()
	assert.Len(t, r.Segments, 11)
	assert.InDelta(t, 380.0, r.SumDistance(), 1e-9)
	assert.InDelta(t, model.TotalDistance, c.TotalDistance(), 1e-9)
	assert.Equal(t, model.TerrainUphill, c.Segment(60).Terrain)
	assert.Equal(t, "seg_11", c.Segment(380).ID)
	assert.InDelta(t, 650.0, c.TotalElevation(), 1e-9)
}

func TestDefaultStations(t *testing.T) {
	c := Default()
	kms := []float64{}
	for _, s := range c.Stations() {
		kms = append(kms, s.Km)
	}
	assert.Equal(t, []float64{50, 130, 220, 300, 360}, kms)

	next, ok := c.NextStation(130)
	require.True(t, ok)
	assert.Equal(t, "Taichung", next.Name)
	assert.True(t, next.Has(model.SupplyRest))

	_, ok = c.NextStation(360)
	assert.False(t, ok)
}

func TestLookups(t *testing.T) {
	c := Default()
	ch, ok := c.Character("domestique")
	require.True(t, ok)
	assert.InDelta(t, 100.0, ch.Stats.Teamwork, 1e-9)
	assert.Equal(t, 1400, ch.Cost)

	frame, ok := c.Item(model.SlotFrame, "carbon_race")
	require.True(t, ok)
	assert.InDelta(t, 6.8, frame.Weight, 1e-9)

	cheap := c.ItemsInBudget(model.SlotWheels, 1200)
	assert.Len(t, cheap, 2)

	supply, ok := c.SupplyEvent()
	require.True(t, ok)
	assert.Len(t, supply.Layers[model.FirstLayer], 3)

	fixed := c.FixedEvents()
	require.Len(t, fixed, 1)
	assert.Equal(t, "morale_milestone", fixed[0].ID)

	for _, e := range c.AmbientEvents() {
		assert.False(t, e.Mandatory, e.ID)
	}
	puncture, ok := c.Event("mechanical_puncture")
	require.True(t, ok)
	opt, ok := puncture.Option(model.FirstLayer, "thorough_repair")
	require.True(t, ok)
	assert.Equal(t, "tube", opt.NextLayer)
	assert.InDelta(t, 1.0, puncture.CharacterModifiers[model.CharacterDomestique].TimeReduction, 1e-9)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, c *Catalog)
	}{
		{
			name: "unknown terrain defaults to flat",
			data: `
route:
  totalDistance: 10
  segments:
    - {id: a, start: 0, end: 10, terrain: lava}
`,
			check: func(t *testing.T, c *Catalog) {
				assert.Equal(t, model.TerrainFlat, c.Segment(5).Terrain)
			},
		},
		{
			name: "unknown weather defaults to clear",
			data: `
route:
  totalDistance: 10
  segments:
    - {id: a, start: 0, end: 10, terrain: flat}
events:
  - {id: e, category: weather, effects: {weather: snow}}
`,
			check: func(t *testing.T, c *Catalog) {
				e, ok := c.Event("e")
				require.True(t, ok)
				assert.Equal(t, model.WeatherClear, e.Effects.Weather)
			},
		},
		{
			name: "gap between segments",
			data: `
route:
  totalDistance: 20
  segments:
    - {id: a, start: 0, end: 10, terrain: flat}
    - {id: b, start: 12, end: 20, terrain: flat}
`,
			wantErr: true,
		},
		{
			name: "sum mismatch",
			data: `
route:
  totalDistance: 30
  segments:
    - {id: a, start: 0, end: 10, terrain: flat}
`,
			wantErr: true,
		},
		{
			name: "station off route",
			data: `
route:
  totalDistance: 10
  segments:
    - {id: a, start: 0, end: 10, terrain: flat}
stations:
  - {km: 15, name: x}
`,
			wantErr: true,
		},
		{
			name: "unknown next layer",
			data: `
route:
  totalDistance: 10
  segments:
    - {id: a, start: 0, end: 10, terrain: flat}
events:
  - id: e
    category: road
    layers:
      layer1:
        - {id: o, nextLayer: missing}
`,
			wantErr: true,
		},
		{
			name:    "unknown field",
			data:    "foo: bar\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(strings.NewReader(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCatalog)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}
