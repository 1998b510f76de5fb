package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

var startAt = time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)

func newTournament(levels ...model.BlindLevel) *model.Tournament {
	if len(levels) == 0 {
		levels = []model.BlindLevel{
			{LevelNumber: 1, SmallBlind: 25, BigBlind: 50, DurationMinutes: 20},
			{LevelNumber: 2, SmallBlind: 50, BigBlind: 100, DurationMinutes: 20},
		}
	}
	return &model.Tournament{
		ID:     1,
		Status: model.TournamentStatus_Pending,
		Levels: levels,
		Config: model.TournamentConfig{LateRegistrationLevels: 1},
	}
}

func startedTournament(levels ...model.BlindLevel) *model.Tournament {
	t := newTournament(levels...)
	_ = OpenRegistration(t)
	_ = Start(t, startAt)
	return t
}

func TestLifecycle(t *testing.T) {
	tournament := newTournament()

	require.NoError(t, OpenRegistration(tournament))
	assert.Equal(t, model.TournamentStatus_Registration, tournament.Status)

	require.NoError(t, Start(tournament, startAt))
	assert.Equal(t, model.TournamentStatus_Running, tournament.Status)
	assert.Equal(t, 1, tournament.CurrentLevel)
	assert.Equal(t, startAt, tournament.CurrentLevelStartTime)

	require.NoError(t, Pause(tournament, startAt.Add(time.Minute)))
	require.NoError(t, Resume(tournament, startAt.Add(2*time.Minute)))

	tournament.Players = []*model.TournamentPlayer{{PlayerID: 1}}
	require.NoError(t, Finish(tournament, startAt.Add(time.Hour), false))
	assert.Equal(t, model.TournamentStatus_Finished, tournament.Status)
	assert.NotNil(t, tournament.FinishedAt)
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	tournament := newTournament()

	err := Pause(tournament, startAt)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
	assert.Equal(t, model.TournamentStatus_Pending, tournament.Status)

	err = Start(tournament, startAt)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
	assert.Equal(t, model.TournamentStatus_Pending, tournament.Status)

	err = Resume(tournament, startAt)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	require.NoError(t, Cancel(tournament, startAt))
	err = Cancel(tournament, startAt)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
	err = OpenRegistration(tournament)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
	assert.Equal(t, model.TournamentStatus_Cancelled, tournament.Status)
}

func TestFinishRequiresSingleSurvivor(t *testing.T) {
	tournament := startedTournament()
	tournament.Players = []*model.TournamentPlayer{{PlayerID: 1}, {PlayerID: 2}}

	err := Finish(tournament, startAt, false)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
	assert.Equal(t, model.TournamentStatus_Running, tournament.Status)

	assert.NoError(t, Finish(tournament, startAt, true))
}

func TestTick_AdvancesAfterDuration(t *testing.T) {
	tournament := startedTournament()

	events := Tick(tournament, startAt.Add(19*time.Minute+59*time.Second))
	assert.Empty(t, events)
	assert.Equal(t, 1, tournament.CurrentLevel)

	events = Tick(tournament, startAt.Add(20*time.Minute))
	assert.Equal(t, 2, tournament.CurrentLevel)
	require.Len(t, events, 1)
	assert.Equal(t, EventType_LevelChanged, events[0].Type)
	assert.Equal(t, 1, events[0].PreviousLevel)
	assert.Equal(t, startAt.Add(20*time.Minute), tournament.CurrentLevelStartTime)
}

func TestTick_HoldsOnFinalLevel(t *testing.T) {
	tournament := startedTournament()

	Tick(tournament, startAt.Add(10*time.Hour))

	assert.Equal(t, 2, tournament.CurrentLevel)
	assert.Equal(t, model.TournamentStatus_Running, tournament.Status)
	assert.Equal(t, time.Duration(0), TimeRemaining(tournament, startAt.Add(10*time.Hour)))
}

func TestTick_MissedTicksSelfCorrect(t *testing.T) {
	tournament := startedTournament(
		model.BlindLevel{LevelNumber: 1, SmallBlind: 25, BigBlind: 50, DurationMinutes: 10},
		model.BlindLevel{LevelNumber: 2, IsBreak: true, DurationMinutes: 10},
		model.BlindLevel{LevelNumber: 3, SmallBlind: 50, BigBlind: 100, DurationMinutes: 10},
		model.BlindLevel{LevelNumber: 4, SmallBlind: 100, BigBlind: 200, DurationMinutes: 10},
	)

	// suspended for 25 minutes
	events := Tick(tournament, startAt.Add(25*time.Minute))

	assert.Equal(t, 3, tournament.CurrentLevel)
	assert.Equal(t, startAt.Add(20*time.Minute), tournament.CurrentLevelStartTime)
	assert.Equal(t, 5*time.Minute, TimeRemaining(tournament, startAt.Add(25*time.Minute)))

	types := make([]EventType, 0)
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{EventType_LevelChanged, EventType_BreakStarted, EventType_LevelChanged, EventType_BreakEnded}, types)
}

func TestTick_MonotonicWhileRunning(t *testing.T) {
	tournament := startedTournament(
		model.BlindLevel{LevelNumber: 1, DurationMinutes: 3},
		model.BlindLevel{LevelNumber: 2, DurationMinutes: 5},
		model.BlindLevel{LevelNumber: 3, DurationMinutes: 7},
	)

	last := tournament.CurrentLevel
	for minute := 0; minute < 30; minute++ {
		Tick(tournament, startAt.Add(time.Duration(minute)*time.Minute))
		assert.GreaterOrEqual(t, tournament.CurrentLevel, last)
		last = tournament.CurrentLevel
	}
	assert.Equal(t, 3, last)
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	tournament := startedTournament()

	pauseAt := startAt.Add(7 * time.Minute)
	before := TimeRemaining(tournament, pauseAt)
	require.NoError(t, Pause(tournament, pauseAt))

	// no ticks count while paused
	assert.Empty(t, Tick(tournament, pauseAt.Add(time.Hour)))
	assert.Equal(t, before, TimeRemaining(tournament, pauseAt.Add(time.Hour)))

	resumeAt := pauseAt.Add(45 * time.Minute)
	require.NoError(t, Resume(tournament, resumeAt))
	assert.Equal(t, before, TimeRemaining(tournament, resumeAt))
	assert.Equal(t, 13*time.Minute, before)

	Tick(tournament, resumeAt.Add(13*time.Minute))
	assert.Equal(t, 2, tournament.CurrentLevel)
}

func TestAdvanceLevel(t *testing.T) {
	tournament := startedTournament()

	events, err := AdvanceLevel(tournament, startAt.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 2, tournament.CurrentLevel)
	assert.Equal(t, 20*time.Minute, TimeRemaining(tournament, startAt.Add(5*time.Minute)))

	_, err = AdvanceLevel(tournament, startAt.Add(6*time.Minute))
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestIsLateRegistrationOpen(t *testing.T) {
	tournament := newTournament()
	assert.False(t, IsLateRegistrationOpen(tournament))

	require.NoError(t, OpenRegistration(tournament))
	assert.True(t, IsLateRegistrationOpen(tournament))

	require.NoError(t, Start(tournament, startAt))
	assert.True(t, IsLateRegistrationOpen(tournament))

	Tick(tournament, startAt.Add(20*time.Minute))
	assert.False(t, IsLateRegistrationOpen(tournament))
}
