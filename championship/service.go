package championship

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/weedbox/pokertournament/model"
)

type Service interface {
	OnStandingsUpdated(fn func(c *model.Championship))
	Recompute(c *model.Championship, matches []MatchResult) error
}

type ServiceOpt func(*service)

func WithLogger(logger zerolog.Logger) ServiceOpt {
	return func(s *service) {
		s.logger = logger
	}
}

type service struct {
	locks              sync.Map // key: championship id, value: *sync.Mutex
	logger             zerolog.Logger
	onStandingsUpdated func(c *model.Championship)
}

func NewService(opts ...ServiceOpt) Service {
	s := &service{
		logger:             zerolog.Nop(),
		onStandingsUpdated: func(c *model.Championship) {},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) OnStandingsUpdated(fn func(c *model.Championship)) {
	s.onStandingsUpdated = fn
}

/*
Recompute 重新計算並覆寫積分榜
  - 同一個 championship 不可同時重算
  - 計算失敗時不修改原本的積分榜
*/
func (s *service) Recompute(c *model.Championship, matches []MatchResult) error {
	lock, _ := s.locks.LoadOrStore(c.ID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	standings, err := Compute(*c, matches)
	if err != nil {
		s.logger.Error().Err(err).Int64("championship_id", c.ID).Msg("standings recompute failed")
		return err
	}

	c.Standings = standings
	s.logger.Info().
		Int64("championship_id", c.ID).
		Int("matches", len(matches)).
		Int("players", len(standings)).
		Msg("standings recomputed")

	s.onStandingsUpdated(c)
	return nil
}
