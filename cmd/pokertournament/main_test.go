package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/storage/sqlite"
)

func setupDB(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("POKER_DB_PATH", path)
	t.Setenv("POKER_LOG_LEVEL", "error")

	ctx := context.Background()
	store, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveBlindStructure(ctx, model.BlindStructure{
		ID:   1,
		Name: "turbo",
		Levels: []model.BlindLevel{
			{LevelNumber: 1, SmallBlind: 25, BigBlind: 50, DurationMinutes: 5},
			{LevelNumber: 2, SmallBlind: 50, BigBlind: 100, DurationMinutes: 5},
		},
	}))
	require.NoError(t, store.SaveTemplate(ctx, model.TournamentTemplate{
		ID:               1,
		Name:             "turbo",
		BlindStructureID: 1,
		Config: model.TournamentConfig{
			BuyIn:               decimal.NewFromInt(50),
			StartingStack:       5000,
			SeatsPerTable:       6,
			PayoutStructureJSON: `{"type":"percentage","positions":{"1":70,"2":30}}`,
		},
	}))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	err := execute(context.Background(), args, &out)
	return out.String(), err
}

func TestMigrateCmd(t *testing.T) {
	setupDB(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "database is up to date")
}

func TestTournamentCreateCmd(t *testing.T) {
	setupDB(t)

	out, err := run(t, "tournament", "create", "5", "--template", "1", "--name", "Late Turbo", "--open")
	require.NoError(t, err)

	var created model.Tournament
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, model.TournamentStatus_Registration, created.Status)
	assert.Len(t, created.Levels, 2)

	out, err = run(t, "tournament", "show", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Late Turbo")

	_, err = run(t, "tournament", "show", "6")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = run(t, "tournament", "create", "7", "--template", "9")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestClockRunCmd_RejectsPending(t *testing.T) {
	setupDB(t)

	_, err := run(t, "tournament", "create", "5", "--template", "1")
	require.NoError(t, err)

	_, err = run(t, "clock", "run", "5")
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	_, err = run(t, "clock", "run", "abc")
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestBuildPayoutReport(t *testing.T) {
	first, second := 1, 2
	tournament := &model.Tournament{
		ID: 3,
		Config: model.TournamentConfig{
			PayoutStructureJSON: `{"type":"percentage","positions":{"1":70,"2":30}}`,
		},
		TotalPrizePool: decimal.NewFromInt(200),
		Players: []*model.TournamentPlayer{
			{PlayerID: 11, FinishPosition: &first},
			{PlayerID: 12, FinishPosition: &second},
			{PlayerID: 13},
		},
	}

	report, err := buildPayoutReport(tournament)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Entrants)
	require.Len(t, report.Payouts, 2)

	assert.Equal(t, 1, report.Payouts[0].Position)
	assert.True(t, report.Payouts[0].Amount.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, int64(11), *report.Payouts[0].PlayerID)
	assert.True(t, report.Payouts[1].Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, report.Payouts[1].Percentage.Equal(decimal.NewFromInt(30)))

	tournament.Config.PayoutStructureJSON = ""
	_, err = buildPayoutReport(tournament)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestBuildClockStatus(t *testing.T) {
	startedAt := time.Date(2024, 3, 10, 19, 0, 0, 0, time.UTC)
	tournament := &model.Tournament{
		ID:     8,
		Status: model.TournamentStatus_Running,
		Levels: []model.BlindLevel{
			{LevelNumber: 1, SmallBlind: 25, BigBlind: 50, DurationMinutes: 10},
			{LevelNumber: 2, SmallBlind: 50, BigBlind: 100, DurationMinutes: 10},
			{LevelNumber: 3, IsBreak: true, DurationMinutes: 5},
		},
		CurrentLevel:          2,
		CurrentLevelIndex:     1,
		CurrentLevelStartTime: startedAt.Add(10 * time.Minute),
		StartedAt:             &startedAt,
	}

	status := buildClockStatus(tournament, startedAt.Add(14*time.Minute))
	assert.Equal(t, 2, status.CurrentLevel)
	assert.Equal(t, "6m0s", status.TimeRemaining)
	require.Len(t, status.Upcoming, 2)
	assert.True(t, status.Upcoming[0].EndAt.Equal(startedAt.Add(20*time.Minute)))
	assert.True(t, status.Upcoming[1].IsBreak)
	assert.True(t, status.Upcoming[1].EndAt.Equal(startedAt.Add(25*time.Minute)))

	tournament.Status = model.TournamentStatus_Paused
	assert.Empty(t, buildClockStatus(tournament, startedAt).Upcoming)
}
