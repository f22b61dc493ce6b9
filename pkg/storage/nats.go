package storage

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

const (
	DefaultBucket = "bkc_race_states"
	keyPrefix     = "race."
)

// natsStore keeps race states as JSON documents in a JetStream key value
// bucket.
type natsStore struct {
	kv  jetstream.KeyValue
	log *log.Logger
}

var _ Store = (*natsStore)(nil)

func NewNATSStore(ctx context.Context, nc *nats.Conn, bucket string) (Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	ret := &natsStore{log: log.Default().Named("storage.nats")}
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}
	ret.kv, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "race state snapshots",
	})
	if err != nil {
		return nil, err
	}
	ret.log.Debug("Initialized NATS storage", log.String("bucket", bucket))
	return ret, nil
}

func (s *natsStore) Save(ctx context.Context, key string, state model.RaceState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = s.kv.Put(ctx, s.composeKey(key), data)
	return err
}

func (s *natsStore) Load(ctx context.Context, key string) (model.RaceState, error) {
	kve, err := s.kv.Get(ctx, s.composeKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return model.RaceState{}, ErrNotFound
		}
		return model.RaceState{}, err
	}
	var ret model.RaceState
	if err := json.Unmarshal(kve.Value(), &ret); err != nil {
		return model.RaceState{}, err
	}
	return ret, nil
}

func (s *natsStore) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.composeKey(key))
}

func (s *natsStore) Keys(ctx context.Context) ([]string, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []string{}, nil
		}
		return nil, err
	}
	ret := []string{}
	for k := range lister.Keys() {
		ret = append(ret, strings.TrimPrefix(k, keyPrefix))
	}
	slices.Sort(ret)
	return ret, nil
}

func (s *natsStore) composeKey(key string) string {
	return keyPrefix + key
}
