//nolint:thelper // ok for tests
package cmdutil

import (
	"bytes"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/config"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

func sampleRaceConfig() *config.RaceConfig {
	return &config.RaceConfig{
		Team:              []string{"climber", "sprinter"},
		Formation:         "single_line",
		Frame:             "carbon_endurance",
		Wheels:            "aluminum_training",
		Gears:             "mechanical_11speed",
		Pace:              "aggressive",
		Supply:            "full",
		Climbing:          "double",
		Mechanical:        "continue",
		RotationThreshold: 40,
		Difficulty:        "hard",
	}
}

func TestBuildRace(t *testing.T) {
	cat := catalog.Default()
	setup, err := BuildRace(cat, sampleRaceConfig())
	require.NoError(t, err)
	assert.Len(t, setup.Team.Members, 2)
	assert.True(t, setup.Bike.Complete())
	assert.Equal(t, model.PaceAggressive, setup.Strategy.Pace)
	assert.Equal(t, model.ClimbingDouble, setup.Strategy.Climbing)
	assert.Equal(t, model.DifficultyHard, setup.Difficulty)

	rc := sampleRaceConfig()
	rc.Team = []string{"climber", "wizard"}
	rc.Frame = "wooden"
	_, err = BuildRace(cat, rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard")
	assert.Contains(t, err.Error(), "wooden")
}

func TestWriteJSON(t *testing.T) {
	v := map[string]any{"summary": map[string]any{"completed": true, "teamFinished": 4}}
	tests := []struct {
		name     string
		selector string
		want     any
		wantErr  bool
	}{
		{name: "whole document", want: map[string]any{"summary": map[string]any{"completed": true, "teamFinished": int64(4)}}},
		{name: "selected value", selector: "$.summary.teamFinished", want: int64(4)},
		{name: "invalid selector", selector: "$[", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteJSON(&buf, v, tt.selector)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := oj.ParseString(buf.String())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
