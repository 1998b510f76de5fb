package move_manager

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/seat_manager"
)

func testMoves() []*seat_manager.Move {
	return []*seat_manager.Move{
		{
			PlayerID: 7,
			From:     seat_manager.Seat{TableID: 1, TableNumber: 1, SeatNumber: 9},
			To:       seat_manager.Seat{TableID: 3, TableNumber: 3, SeatNumber: 3},
		},
		{
			PlayerID: 16,
			From:     seat_manager.Seat{TableID: 2, TableNumber: 2, SeatNumber: 9},
			To:       seat_manager.Seat{TableID: 3, TableNumber: 3, SeatNumber: 4},
		},
	}
}

func waitState(t *testing.T, ch chan MoveBatchState, d time.Duration) MoveBatchState {
	select {
	case state := <-ch:
		return state
	case <-time.After(d):
		t.Fatal("moves were not confirmed in time")
	}
	return MoveBatchState{}
}

func Test_InitMoveManager(t *testing.T) {
	m := NewMoveManager(MoveOption{Timeout: 1})
	defer m.Close()

	assert.Equal(t, 1, m.GetState().Timeout)
	assert.Equal(t, int64(0), m.GetState().BatchID)
	assert.Empty(t, m.GetState().Moves)
}

func Test_ConfirmAllMoves(t *testing.T) {
	confirmed := make(chan MoveBatchState, 2)
	m := NewMoveManager(MoveOption{
		Timeout: 10,
		OnMovesConfirmed: func(state MoveBatchState) {
			confirmed <- state
		},
	})
	defer m.Close()

	m.Open(1, testMoves())
	assert.Len(t, m.GetState().Moves, 2)
	assert.False(t, m.GetState().Moves[7].IsConfirmed)

	require.NoError(t, m.Confirm(7))
	assert.True(t, m.GetState().Moves[7].IsConfirmed)
	require.NoError(t, m.Confirm(16))

	state := waitState(t, confirmed, 2*time.Second)
	assert.Equal(t, int64(1), state.BatchID)
	for _, pm := range state.Moves {
		assert.True(t, pm.IsConfirmed)
	}
	assert.Equal(t, 3, state.Moves[16].Move.To.TableNumber)

	select {
	case <-confirmed:
		t.Fatal("batch confirmed twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_TimeoutAutoConfirms(t *testing.T) {
	confirmed := make(chan MoveBatchState, 1)
	m := NewMoveManager(MoveOption{
		Timeout: 1,
		OnMovesConfirmed: func(state MoveBatchState) {
			confirmed <- state
		},
	})
	defer m.Close()

	m.Open(2, testMoves())
	require.NoError(t, m.Confirm(7))

	state := waitState(t, confirmed, 3*time.Second)
	assert.True(t, state.Moves[16].IsConfirmed)
}

func Test_ConfirmUnknownMove(t *testing.T) {
	m := NewMoveManager(MoveOption{Timeout: 1})
	defer m.Close()

	m.Open(3, testMoves())
	assert.True(t, errors.Is(m.Confirm(99), apperr.ErrNotFound))
}

func Test_EmptyBatchConfirmsImmediately(t *testing.T) {
	confirmed := make(chan MoveBatchState, 1)
	m := NewMoveManager(MoveOption{
		Timeout: 10,
		OnMovesConfirmed: func(state MoveBatchState) {
			confirmed <- state
		},
	})
	defer m.Close()

	m.Open(4, nil)
	state := waitState(t, confirmed, time.Second)
	assert.Equal(t, int64(4), state.BatchID)
	assert.Empty(t, state.Moves)
}
