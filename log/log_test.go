//nolint:thelper // ok for tests
package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamedLoggerWritesName(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DebugLevel).Named("race")
	l.Info("tick", Int("frame", 3))
	assert.Contains(t, buf.String(), `"logger":"race"`)
	assert.Contains(t, buf.String(), `"frame":3`)
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WarnLevel)
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.SetLevel(DebugLevel)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithFilter(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		logger  string
		wantOut bool
	}{
		{name: "no rules", rules: "", logger: "event", wantOut: true},
		{name: "matching namespace", rules: "*:sim", logger: "sim", wantOut: true},
		{name: "other namespace", rules: "*:sim", logger: "event", wantOut: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, DebugLevel, WithFilter(tt.rules)).Named(tt.logger)
			l.Info("msg")
			assert.Equal(t, tt.wantOut, buf.Len() > 0)
		})
	}
}
