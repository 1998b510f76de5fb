package pokertournament

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/championship"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/storage/sqlite"
)

func openLeagueStore(t *testing.T, playerIDs ...int64) *sqlite.Store {
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "league.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	for _, id := range playerIDs {
		require.NoError(t, store.SavePlayer(context.Background(), model.Player{ID: id, Name: "player", Nickname: "p"}))
	}
	return store
}

func playTournament(t *testing.T, tournamentID int64, order ...int64) *model.Tournament {
	setting := NewDefaultTournamentSetting()
	setting.TournamentID = tournamentID
	te, _ := newEngine(t, setting)

	require.NoError(t, te.OpenRegistration())
	for _, id := range order {
		require.NoError(t, te.PlayerRegister(id))
	}
	require.NoError(t, te.Start())

	// order 依名次排列，由最後一名開始淘汰
	for i := len(order) - 1; i > 0; i-- {
		_, err := te.PlayerEliminate(order[i], nil)
		require.NoError(t, err)
	}
	require.NoError(t, te.Finish(false))
	return te.GetTournament()
}

func TestRecomputeStandings(t *testing.T) {
	ctx := context.Background()
	store := openLeagueStore(t, 1, 2, 3)

	require.NoError(t, store.SaveTournament(ctx, playTournament(t, 1, 1, 2, 3)))
	require.NoError(t, store.SaveTournament(ctx, playTournament(t, 2, 2, 1, 3)))
	require.NoError(t, store.SaveTournament(ctx, playTournament(t, 3, 2, 3, 1)))

	// 尚未結束的賽事不計分
	pending := NewDefaultTournamentSetting()
	pending.TournamentID = 4
	te, _ := newEngine(t, pending)
	require.NoError(t, store.SaveTournament(ctx, te.GetTournament()))

	playedAt := time.Date(2024, 3, 10, 19, 0, 0, 0, time.UTC)
	c := &model.Championship{
		ID:                     1,
		Name:                   "Spring League",
		PeriodType:             model.PeriodType_Month,
		PointsMode:             model.PointsMode_Linear,
		LinearFirstPlacePoints: decimal.NewFromInt(100),
		CountingMode:           model.CountingMode_AllMatches,
		Tiebreaker1:            model.Tiebreaker_NumberOfWins,
		Matches: []model.ChampionshipMatch{
			{ID: 1, ChampionshipID: 1, TournamentID: 1, MatchNumber: 1, Coefficient: decimal.NewFromInt(1), PlayedAt: playedAt},
			{ID: 2, ChampionshipID: 1, TournamentID: 2, MatchNumber: 2, Coefficient: decimal.NewFromInt(1), PlayedAt: playedAt.AddDate(0, 0, 7)},
			{ID: 3, ChampionshipID: 1, TournamentID: 3, MatchNumber: 3, Coefficient: decimal.NewFromInt(1), PlayedAt: playedAt.AddDate(0, 0, 14)},
			{ID: 4, ChampionshipID: 1, TournamentID: 4, MatchNumber: 4, Coefficient: decimal.NewFromInt(1), PlayedAt: playedAt.AddDate(0, 0, 21)},
		},
	}
	require.NoError(t, store.SaveChampionship(ctx, c))

	matches, err := MatchResults(ctx, store, c)
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	updated := 0
	svc := championship.NewService()
	svc.OnStandingsUpdated(func(*model.Championship) {
		updated++
	})

	result, err := RecomputeStandings(ctx, store, svc, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	require.Len(t, result.Standings, 3)

	loaded, err := store.GetChampionship(ctx, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Standings, 3)

	positions := map[int64]int{}
	for _, s := range loaded.Standings {
		positions[s.PlayerID] = s.CurrentPosition
		assert.Equal(t, 3, s.MatchesPlayed)
	}
	assert.Equal(t, 1, positions[2])
	assert.Equal(t, 2, positions[1])
	assert.Equal(t, 3, positions[3])

	// 重算結果不變
	again, err := RecomputeStandings(ctx, store, svc, 1)
	require.NoError(t, err)
	for _, s := range again.Standings {
		assert.Equal(t, positions[s.PlayerID], s.CurrentPosition)
	}
}

func TestStoredRebuyHistory(t *testing.T) {
	ctx := context.Background()
	store := openLeagueStore(t, 1, 2)

	first := playTournament(t, 1, 1, 2)
	first.Rebuys = []model.PlayerRebuy{
		{ID: 1, PlayerID: 1, TournamentID: 1, RebuyDate: time.Date(2024, 3, 10, 19, 20, 0, 0, time.UTC), Amount: decimal.NewFromInt(100), RebuyNumber: 1},
	}
	require.NoError(t, store.SaveTournament(ctx, first))

	second := playTournament(t, 2, 1, 2)
	second.Rebuys = []model.PlayerRebuy{
		{ID: 1, PlayerID: 1, TournamentID: 2, RebuyDate: time.Date(2024, 3, 17, 19, 20, 0, 0, time.UTC), Amount: decimal.NewFromInt(100), RebuyNumber: 1},
	}
	require.NoError(t, store.SaveTournament(ctx, second))

	history := StoredRebuyHistory(ctx, store, 2, zerolog.Nop())
	rebuys := history(1)
	require.Len(t, rebuys, 1)
	assert.Equal(t, int64(1), rebuys[0].TournamentID)
	assert.Empty(t, history(2))
}
