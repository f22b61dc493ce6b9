package storage

import (
	"context"
	"errors"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

// Resilient wraps a Store. Failures are logged and swallowed, a race is
// never interrupted by persistence problems.
type Resilient struct {
	store Store
	log   *log.Logger
}

func NewResilient(store Store) *Resilient {
	return &Resilient{store: store, log: log.Default().Named("storage")}
}

func (r *Resilient) Save(ctx context.Context, key string, state model.RaceState) {
	if err := r.store.Save(ctx, key, state); err != nil {
		r.log.Warn("could not save race state",
			log.String("key", key), log.ErrorField(err))
	}
}

// Load reports false if the state is missing or could not be read.
func (r *Resilient) Load(ctx context.Context, key string) (model.RaceState, bool) {
	state, err := r.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn("could not load race state",
				log.String("key", key), log.ErrorField(err))
		}
		return model.RaceState{}, false
	}
	return state, true
}

func (r *Resilient) Delete(ctx context.Context, key string) {
	if err := r.store.Delete(ctx, key); err != nil {
		r.log.Warn("could not delete race state",
			log.String("key", key), log.ErrorField(err))
	}
}

func (r *Resilient) Keys(ctx context.Context) []string {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		r.log.Warn("could not list race states", log.ErrorField(err))
		return []string{}
	}
	return keys
}
