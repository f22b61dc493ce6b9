//nolint:thelper // ok for tests
package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/utils/cache"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLoaderCache(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	calls := 0
	c := New[int, string](
		WithExpiration[int, string](30*time.Second),
		WithClock[int, string](clock.now),
		WithLogger[int, string](log.Nop()),
		WithLoader[int, string](func(_ context.Context, key int) (*string, error) {
			calls++
			if key < 0 {
				return nil, errors.New("negative")
			}
			v := "v"
			return &v, nil
		}),
	)

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "v", *got)
	_, _ = c.Get(ctx, 1)
	assert.Equal(t, 1, calls, "second get is served from cache")

	clock.t = clock.t.Add(31 * time.Second)
	_, _ = c.Get(ctx, 1)
	assert.Equal(t, 2, calls, "expired entry is reloaded")

	c.Invalidate(ctx, 1)
	_, _ = c.Get(ctx, 1)
	assert.Equal(t, 3, calls)

	_, _ = c.Get(ctx, 2)
	c.InvalidateAll(ctx)
	_, _ = c.Get(ctx, 1)
	_, _ = c.Get(ctx, 2)
	assert.Equal(t, 6, calls)

	_, err = c.Get(ctx, -1)
	require.Error(t, err)
	_, err = c.Get(ctx, -1)
	require.Error(t, err)
	assert.Equal(t, 8, calls, "errors are not cached")
}

func TestWithoutLoader(t *testing.T) {
	c := New[string, int](WithLogger[string, int](log.Nop()))
	_, err := c.Get(context.Background(), "x")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
