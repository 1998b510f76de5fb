package seat_manager

import (
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

var (
	ErrInvalidSeatsPerTable = apperr.Configuration("seat manager: seats per table must be at least 2")
	ErrPlayerNotFound       = apperr.NotFound("seat manager: player not found")
	ErrPlayerAlreadySeated  = apperr.DataIntegrity("seat manager: player is already seated")
	ErrPlayerEliminated     = apperr.InvalidTransition("seat manager: player is eliminated")
	ErrPlayerNotSeated      = apperr.InvalidTransition("seat manager: player is not seated")
)

type SeatManager interface {
	SeatPlayer(playerID int64) (*Seat, error)
	Release(playerID int64) error
	LockSeat(playerID int64, locked bool) error
	Balance() ([]*Move, error)
	BreakTables() ([]*Move, error)
	Validate() error

	Occupancy() map[int64]int
}

type Seat struct {
	TableID     int64 `json:"table_id"`
	TableNumber int   `json:"table_number"`
	SeatNumber  int   `json:"seat_number"`
}

type Move struct {
	PlayerID int64 `json:"player_id"`
	From     Seat  `json:"from"`
	To       Seat  `json:"to"`
}

/*
NewSeatManager 建立多桌座位管理
  - 直接操作傳入的 Tournament (Players / Tables)
  - 可單獨使用，同一實例的操作彼此互斥；呼叫端不可在其他地方同時修改該 Tournament
  - 座位號碼從 1 到 MaxSeats
*/
func NewSeatManager(t *model.Tournament) (SeatManager, error) {
	if t.Config.SeatsPerTable < 2 {
		return nil, ErrInvalidSeatsPerTable
	}

	return &seatManager{
		tournament:    t,
		seatsPerTable: t.Config.SeatsPerTable,
	}, nil
}
