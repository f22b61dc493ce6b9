//nolint:thelper // ok for tests
package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

func sampleState(id string) model.RaceState {
	return model.RaceState{
		ID:              id,
		Distance:        42,
		TotalDistance:   380,
		Team:            model.Team{Members: []model.TeamMember{{ID: "1-climber", CurrentStamina: 70}}},
		StationsReached: []bool{true, false},
	}
}

// exerciseStore runs the common Store contract against an empty store.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	state := sampleState("b")
	require.NoError(t, s.Save(ctx, "b", state))
	require.NoError(t, s.Save(ctx, "a", sampleState("a")))

	// stored copies are independent of the caller
	state.Team.Members[0].CurrentStamina = 1
	got, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
	assert.InDelta(t, 70.0, got.Team.Members[0].CurrentStamina, 1e-9)
	got.StationsReached[0] = false
	again, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, again.StationsReached[0])

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Delete(ctx, "a"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
	_, err = s.Load(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

var errBroken = errors.New("broken")

type brokenStore struct{}

func (brokenStore) Save(context.Context, string, model.RaceState) error { return errBroken }

func (brokenStore) Load(context.Context, string) (model.RaceState, error) {
	return model.RaceState{}, errBroken
}
func (brokenStore) Delete(context.Context, string) error   { return errBroken }
func (brokenStore) Keys(context.Context) ([]string, error) { return nil, errBroken }

func TestResilient(t *testing.T) {
	ctx := context.Background()

	t.Run("failures are swallowed", func(t *testing.T) {
		r := NewResilient(brokenStore{})
		r.Save(ctx, "x", sampleState("x"))
		_, ok := r.Load(ctx, "x")
		assert.False(t, ok)
		r.Delete(ctx, "x")
		assert.Empty(t, r.Keys(ctx))
	})

	t.Run("passes through", func(t *testing.T) {
		r := NewResilient(NewMemoryStore())
		r.Save(ctx, "x", sampleState("x"))
		got, ok := r.Load(ctx, "x")
		require.True(t, ok)
		assert.Equal(t, "x", got.ID)
		assert.Equal(t, []string{"x"}, r.Keys(ctx))
		_, ok = r.Load(ctx, "y")
		assert.False(t, ok)
	})
}
