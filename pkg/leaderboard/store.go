package leaderboard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/repository"
	lbrepo "github.com/mpapenbr/bikechallenge/pkg/repository/leaderboard"
)

var ErrNotFound = errors.New("leaderboard entry not found")

// Store keeps entries in leaderboard order.
type Store interface {
	// Insert assigns ID and SubmittedAt when they are unset.
	Insert(ctx context.Context, entry *model.LeaderboardEntry) error
	Rank(ctx context.Context, id uuid.UUID) (int, error)
	Top(ctx context.Context, offset, limit int) ([]*model.LeaderboardEntry, error)
	Count(ctx context.Context) (int, error)
	PersonalBest(ctx context.Context, playerID string) (*model.LeaderboardEntry, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries []*model.LeaderboardEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Insert(_ context.Context, entry *model.LeaderboardEntry) error {
	if entry.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		entry.ID = id
	}
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}
	stored := *entry
	stored.TeamComposition = slices.Clone(entry.TeamComposition)

	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.ContainsFunc(m.entries, func(e *model.LeaderboardEntry) bool {
		return e.ID == stored.ID
	}) {
		return errors.New("duplicate leaderboard entry")
	}
	idx := slices.IndexFunc(m.entries, func(e *model.LeaderboardEntry) bool {
		return stored.Better(e)
	})
	if idx < 0 {
		idx = len(m.entries)
	}
	m.entries = slices.Insert(m.entries, idx, &stored)
	return nil
}

func (m *MemoryStore) Rank(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := slices.IndexFunc(m.entries, func(e *model.LeaderboardEntry) bool {
		return e.ID == id
	})
	if idx < 0 {
		return 0, ErrNotFound
	}
	return idx + 1, nil
}

func (m *MemoryStore) Top(_ context.Context, offset, limit int) (
	[]*model.LeaderboardEntry, error,
) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		return []*model.LeaderboardEntry{}, nil
	}
	return lo.Map(lo.Subset(m.entries, offset, uint(limit)),
		func(e *model.LeaderboardEntry, _ int) *model.LeaderboardEntry {
			c := *e
			return &c
		}), nil
}

func (m *MemoryStore) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MemoryStore) PersonalBest(_ context.Context, playerID string) (
	*model.LeaderboardEntry, error,
) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	best, ok := lo.Find(m.entries, func(e *model.LeaderboardEntry) bool {
		return e.PlayerID == playerID
	})
	if !ok {
		return nil, ErrNotFound
	}
	c := *best
	return &c, nil
}

// PostgresStore keeps the leaderboard in the leaderboard_entry table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Insert(ctx context.Context, entry *model.LeaderboardEntry) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return lbrepo.Create(ctx, tx, entry)
	})
}

func (p *PostgresStore) Rank(ctx context.Context, id uuid.UUID) (int, error) {
	rank, err := lbrepo.Rank(ctx, p.pool, id)
	return rank, notFound(err)
}

func (p *PostgresStore) Top(ctx context.Context, offset, limit int) (
	[]*model.LeaderboardEntry, error,
) {
	return lbrepo.Top(ctx, p.pool, offset, limit)
}

func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	return lbrepo.Count(ctx, p.pool)
}

func (p *PostgresStore) PersonalBest(ctx context.Context, playerID string) (
	*model.LeaderboardEntry, error,
) {
	e, err := lbrepo.BestByPlayer(ctx, p.pool, playerID)
	return e, notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNoData) {
		return ErrNotFound
	}
	return err
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
