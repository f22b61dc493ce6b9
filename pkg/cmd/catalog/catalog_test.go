package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/pkg/catalog"
)

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCatalog(&buf, catalog.Default(), sections))
	out := buf.String()
	for _, s := range sections {
		assert.Contains(t, out, "== "+s)
	}
	assert.Contains(t, out, "climber")
	assert.Contains(t, out, "carbon_endurance")

	buf.Reset()
	require.NoError(t, printCatalog(&buf, catalog.Default(), []string{"riders"}))
	assert.NotContains(t, buf.String(), "== route")
}
