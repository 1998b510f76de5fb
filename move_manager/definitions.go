package move_manager

import (
	"sync"

	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/seat_manager"
	"github.com/weedbox/syncsaga"
)

var (
	ErrMoveNotFound = apperr.NotFound("move_manager: move not found")
)

type MoveManager interface {
	Confirm(playerID int64) error
	Open(batchID int64, moves []*seat_manager.Move)
	Close()
	GetState() MoveBatchState
}

type moveManager struct {
	onMovesConfirmed func(state MoveBatchState)
	rg               *syncsaga.ReadyGroup
	state            *MoveBatchState
	mu               sync.Mutex
}

type MoveOption struct {
	Timeout          int // 秒，逾時自動確認
	OnMovesConfirmed func(state MoveBatchState)
}

type MoveBatchState struct {
	Timeout int                    `json:"timeout"`
	BatchID int64                  `json:"batch_id"`
	Moves   map[int64]*PendingMove `json:"moves"` // key: player_id, value: move
}

type PendingMove struct {
	PlayerID    int64             `json:"player_id"`
	Move        seat_manager.Move `json:"move"`
	IsConfirmed bool              `json:"is_confirmed"`
}
