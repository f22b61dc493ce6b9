//nolint:thelper // ok for tests
package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/testsupport/tcnats"
)

func newTestNATSStore(t *testing.T) Store {
	nc := tcnats.InitTestNats()
	t.Cleanup(nc.Close)
	bucket := fmt.Sprintf("bkc_test_%d", time.Now().UnixNano())
	s, err := NewNATSStore(context.Background(), nc, bucket)
	require.NoError(t, err)
	return s
}

func TestNATSStore(t *testing.T) {
	exerciseStore(t, newTestNATSStore(t))
}

func TestNATSStoreKeyPrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestNATSStore(t)
	ns, ok := s.(*natsStore)
	require.True(t, ok)

	require.NoError(t, s.Save(ctx, "run-1", sampleState("run-1")))
	entry, err := ns.kv.Get(ctx, "race.run-1")
	require.NoError(t, err)
	assert.Contains(t, string(entry.Value()), `"id":"run-1"`)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, keys)
}

func TestNATSStoreResilient(t *testing.T) {
	ctx := context.Background()
	r := NewResilient(newTestNATSStore(t))
	r.Save(ctx, "x", sampleState("x"))
	got, ok := r.Load(ctx, "x")
	require.True(t, ok)
	assert.Equal(t, "x", got.ID)
	r.Delete(ctx, "x")
	_, ok = r.Load(ctx, "x")
	assert.False(t, ok)
}
