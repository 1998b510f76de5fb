package pokertournament

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

func TestManager_TournamentLifecycle(t *testing.T) {
	m := NewManager()

	updates := 0
	callbacks := NewTournamentEngineCallbacks()
	callbacks.OnTournamentUpdated = func(*model.Tournament) {
		updates++
	}

	tournament, err := m.CreateTournament(nil, callbacks, NewDefaultTournamentSetting())
	require.NoError(t, err)
	assert.Equal(t, 1, updates)

	_, err = m.CreateTournament(nil, nil, NewDefaultTournamentSetting())
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	require.NoError(t, m.OpenRegistration(tournament.ID))
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, m.PlayerRegister(tournament.ID, id))
	}
	require.NoError(t, m.StartTournament(tournament.ID))
	require.NoError(t, m.PauseTournament(tournament.ID))
	require.NoError(t, m.ResumeTournament(tournament.ID))
	require.NoError(t, m.AdvanceLevel(tournament.ID))

	// 進行中不可關閉
	assert.True(t, errors.Is(m.CloseTournament(tournament.ID), apperr.ErrInvalidTransition))

	_, err = m.PlayerEliminate(tournament.ID, 3, nil)
	require.NoError(t, err)
	_, err = m.PlayerEliminate(tournament.ID, 2, nil)
	require.NoError(t, err)
	require.NoError(t, m.FinishTournament(tournament.ID, false))

	result, err := m.TournamentResult(tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Entrants)
	assert.Equal(t, int64(1), result.Players[0].PlayerID)

	require.NoError(t, m.CloseTournament(tournament.ID))
	_, err = m.GetTournamentEngine(tournament.ID)
	assert.ErrorIs(t, err, ErrManagerTournamentNotFound)
}

func TestManager_TournamentNotFound(t *testing.T) {
	m := NewManager()

	assert.True(t, errors.Is(m.StartTournament(404), apperr.ErrNotFound))
	assert.True(t, errors.Is(m.PlayerRegister(404, 1), apperr.ErrNotFound))

	_, err := m.PlayerRebuy(404, 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = m.TournamentResult(404)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestManager_Reset(t *testing.T) {
	m := NewManager()
	tournament, err := m.CreateTournament(nil, nil, NewDefaultTournamentSetting())
	require.NoError(t, err)

	m.Reset()
	_, err = m.GetTournamentEngine(tournament.ID)
	assert.ErrorIs(t, err, ErrManagerTournamentNotFound)
}
