package pokertournament

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/weedbox/pokertournament/championship"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/storage"
)

// StoredRebuyHistory returns a rebuy lookup over stored tournaments other than tournamentID.
func StoredRebuyHistory(ctx context.Context, store storage.Store, tournamentID int64, logger zerolog.Logger) func(playerID int64) []model.PlayerRebuy {
	return func(playerID int64) []model.PlayerRebuy {
		rebuys, err := store.ListPlayerRebuys(ctx, playerID)
		if err != nil {
			logger.Warn().Err(err).Int64("player_id", playerID).Msg("rebuy history lookup failed")
			return nil
		}

		others := make([]model.PlayerRebuy, 0, len(rebuys))
		for _, r := range rebuys {
			if r.TournamentID != tournamentID {
				others = append(others, r)
			}
		}
		return others
	}
}

// MatchResults loads the finished tournaments behind a championship's matches.
func MatchResults(ctx context.Context, store storage.Store, c *model.Championship) ([]championship.MatchResult, error) {
	results := make([]championship.MatchResult, 0, len(c.Matches))
	for _, match := range c.Matches {
		t, err := store.GetTournament(ctx, match.TournamentID)
		if err != nil {
			return nil, err
		}

		// 尚未結束或已取消的賽事不計分
		if t.Status != model.TournamentStatus_Finished {
			continue
		}

		results = append(results, championship.MatchResult{
			Match:  match,
			Result: *BuildResult(t),
		})
	}
	return results, nil
}

/*
RecomputeStandings 以儲存的賽事結果重算積分榜
  - 重算成功後才寫回
*/
func RecomputeStandings(ctx context.Context, store storage.Store, svc championship.Service, championshipID int64) (*model.Championship, error) {
	c, err := store.GetChampionship(ctx, championshipID)
	if err != nil {
		return nil, err
	}

	matches, err := MatchResults(ctx, store, c)
	if err != nil {
		return nil, err
	}

	if err := svc.Recompute(c, matches); err != nil {
		return nil, err
	}

	if err := store.SaveChampionship(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
