package leaderboard

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/utils/cache"
	"github.com/mpapenbr/bikechallenge/pkg/utils/cache/loadercache"
)

const (
	DefaultPageSize       = 20
	MaxPageSize           = 100
	DefaultPageExpiration = 30 * time.Second
)

type (
	SubmitResult struct {
		Rank         int       `json:"rank"`
		TotalPlayers int       `json:"totalPlayers"`
		EntryID      uuid.UUID `json:"entryId"`
	}
	Page struct {
		Entries    []*model.LeaderboardEntry `json:"entries"`
		Page       int                       `json:"page"`
		PageSize   int                       `json:"pageSize"`
		Total      int                       `json:"total"`
		TotalPages int                       `json:"totalPages"`
	}
	pageKey struct {
		page, size int
	}
	ServiceOption func(*Service)
)

// Service accepts submissions and serves cached leaderboard pages.
type Service struct {
	store      Store
	expiration time.Duration
	now        func() time.Time
	pages      cache.Cache[pageKey, Page]
	l          *log.Logger
}

func WithPageExpiration(d time.Duration) ServiceOption {
	return func(s *Service) { s.expiration = d }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.l = l }
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:      store,
		expiration: DefaultPageExpiration,
		now:        time.Now,
		l:          log.Default().Named("leaderboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pages = loadercache.New[pageKey, Page](
		loadercache.WithExpiration[pageKey, Page](s.expiration),
		loadercache.WithClock[pageKey, Page](s.now),
		loadercache.WithLogger[pageKey, Page](s.l.Named("cache")),
		loadercache.WithLoader[pageKey, Page](s.loadPage),
	)
	return s
}

// Submit validates and stores the submission and reports its rank.
func (s *Service) Submit(ctx context.Context, sub Submission) (SubmitResult, error) {
	if err := Validate(sub); err != nil {
		s.l.Warn("submission rejected",
			log.String("player", sub.PlayerID), log.ErrorField(err))
		return SubmitResult{}, err
	}
	entry := &model.LeaderboardEntry{
		PlayerID:        sub.PlayerID,
		PlayerName:      sub.PlayerName,
		TotalScore:      sub.TotalScore,
		CompletionTime:  sub.CompletionTime,
		AvgSpeed:        decimal.NewFromFloat(sub.AvgSpeed()).Round(2),
		TeamFinished:    sub.TeamFinished,
		TotalTeamSize:   sub.TotalTeamSize,
		TeamComposition: sub.TeamComposition,
		Difficulty:      sub.Difficulty,
		Checksum:        sub.Checksum,
		SubmittedAt:     s.now(),
	}
	if entry.Checksum == "" {
		entry.Checksum = Checksum(sub)
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return SubmitResult{}, err
	}
	s.pages.InvalidateAll(ctx)

	rank, err := s.store.Rank(ctx, entry.ID)
	if err != nil {
		return SubmitResult{}, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return SubmitResult{}, err
	}
	s.l.Info("submission accepted",
		log.String("player", sub.PlayerID),
		log.Int("score", sub.TotalScore),
		log.Int("rank", rank))
	return SubmitResult{Rank: rank, TotalPlayers: total, EntryID: entry.ID}, nil
}

// Page returns the 1-based page. Out of range values are normalized.
func (s *Service) Page(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	return s.pages.Get(ctx, pageKey{page: page, size: size})
}

func (s *Service) PersonalBest(ctx context.Context, playerID string) (
	*model.LeaderboardEntry, error,
) {
	return s.store.PersonalBest(ctx, playerID)
}

func (s *Service) loadPage(ctx context.Context, key pageKey) (*Page, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.Top(ctx, (key.page-1)*key.size, key.size)
	if err != nil {
		return nil, err
	}
	return &Page{
		Entries:    entries,
		Page:       key.page,
		PageSize:   key.size,
		Total:      total,
		TotalPages: (total + key.size - 1) / key.size,
	}, nil
}
