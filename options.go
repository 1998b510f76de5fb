package pokertournament

import (
	"time"

	"github.com/weedbox/pokertournament/clock"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/move_manager"
	"github.com/weedbox/pokertournament/payout"
	"github.com/weedbox/pokertournament/seat_manager"
)

type TournamentEngineCallbacks struct {
	OnTournamentUpdated      func(t *model.Tournament)
	OnTournamentErrorUpdated func(t *model.Tournament, err error)
	OnClockEvent             func(t *model.Tournament, e clock.Event)
	OnPlayerEliminated       func(t *model.Tournament, r *payout.EliminationResult)
	OnSeatsMoved             func(t *model.Tournament, moves []*seat_manager.Move)
	OnMovesConfirmed         func(tournamentID int64, state move_manager.MoveBatchState)
}

func NewTournamentEngineCallbacks() *TournamentEngineCallbacks {
	return &TournamentEngineCallbacks{
		OnTournamentUpdated:      func(*model.Tournament) {},
		OnTournamentErrorUpdated: func(*model.Tournament, error) {},
		OnClockEvent:             func(*model.Tournament, clock.Event) {},
		OnPlayerEliminated:       func(*model.Tournament, *payout.EliminationResult) {},
		OnSeatsMoved:             func(*model.Tournament, []*seat_manager.Move) {},
		OnMovesConfirmed:         func(int64, move_manager.MoveBatchState) {},
	}
}

type TournamentEngineOptions struct {
	TickInterval       time.Duration // 計時器輪詢間隔
	MoveConfirmTimeout int           // 換桌確認逾時秒數
	Username           string        // 稽核紀錄的操作者
}

func NewTournamentEngineOptions() *TournamentEngineOptions {
	return &TournamentEngineOptions{
		TickInterval:       500 * time.Millisecond,
		MoveConfirmTimeout: 30,
		Username:           "system",
	}
}
