package seat_manager

import (
	"sync"

	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

type seatManager struct {
	tournament    *model.Tournament
	seatsPerTable int
	mu            sync.Mutex // 同一個 SeatManager 可被多個 goroutine 共用 (例如場控工具)
}

/*
SeatPlayer 抽座位
  - 選擇人數最少的啟用桌 (同人數取桌號小者)
  - 座位取最小的空位
  - 所有桌都滿時，重新啟用停用桌或開新桌
*/
func (sm *seatManager) SeatPlayer(playerID int64) (*Seat, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	p := sm.tournament.FindPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	if p.IsEliminated {
		return nil, ErrPlayerEliminated
	}

	if p.IsSeated() {
		return nil, ErrPlayerAlreadySeated
	}

	table := sm.emptiestTable(nil)
	if table == nil {
		table = sm.openTable()
	}

	seat := sm.sit(p, table)
	return &seat, nil
}

func (sm *seatManager) Release(playerID int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	p := sm.tournament.FindPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	if !p.IsSeated() {
		return nil
	}

	tableID := *p.TableID
	p.TableID = nil
	p.SeatNumber = nil
	p.IsLocked = false

	// 沒人的桌子停用
	if table := sm.tournament.FindTable(tableID); table != nil && sm.occupancy(table.ID) == 0 {
		table.IsActive = false
	}

	return nil
}

func (sm *seatManager) LockSeat(playerID int64, locked bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	p := sm.tournament.FindPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	if !p.IsSeated() {
		return ErrPlayerNotSeated
	}

	p.IsLocked = locked
	return nil
}

/*
Balance 平衡各桌人數
  - 每次移動一位玩家: 由人數最多的桌 (需有未鎖定玩家) 移到人數最少且有空位的桌
  - 移動座號最大的未鎖定玩家，坐到最小的空位
  - 直到最多與最少的差距 <= 1，或沒有合法的移動
  - AutoBreakTables 開啟時先嘗試拆桌
*/
func (sm *seatManager) Balance() ([]*Move, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	moves := make([]*Move, 0)
	if sm.tournament.Config.AutoBreakTables {
		moves = append(moves, sm.breakTables()...)
	}

	moves = append(moves, sm.balance()...)
	return moves, nil
}

func (sm *seatManager) BreakTables() ([]*Move, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.breakTables(), nil
}

/*
Validate 檢查座位資料完整性
  - 玩家重複入座、同座位兩人、超過座位上限、坐在停用桌、已淘汰玩家仍在座
*/
func (sm *seatManager) Validate() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	players := make(map[int64]bool)
	seats := make(map[Seat]int64)
	counts := make(map[int64]int)

	for _, p := range sm.tournament.Players {
		if players[p.PlayerID] {
			return apperr.DataIntegrity("player %d appears twice", p.PlayerID)
		}
		players[p.PlayerID] = true

		if !p.IsSeated() {
			continue
		}

		if p.IsEliminated {
			return apperr.DataIntegrity("eliminated player %d is still seated", p.PlayerID)
		}

		table := sm.tournament.FindTable(*p.TableID)
		if table == nil {
			return apperr.DataIntegrity("player %d is seated at unknown table %d", p.PlayerID, *p.TableID)
		}

		if !table.IsActive {
			return apperr.DataIntegrity("player %d is seated at inactive table %d", p.PlayerID, table.TableNumber)
		}

		if *p.SeatNumber < 1 || *p.SeatNumber > table.MaxSeats {
			return apperr.DataIntegrity("player %d has seat %d outside table %d", p.PlayerID, *p.SeatNumber, table.TableNumber)
		}

		seat := Seat{TableID: table.ID, TableNumber: table.TableNumber, SeatNumber: *p.SeatNumber}
		if other, exist := seats[seat]; exist {
			return apperr.DataIntegrity("players %d and %d share seat %d at table %d", other, p.PlayerID, seat.SeatNumber, table.TableNumber)
		}
		seats[seat] = p.PlayerID

		counts[table.ID]++
		if counts[table.ID] > table.MaxSeats {
			return apperr.DataIntegrity("table %d is over capacity", table.TableNumber)
		}
	}

	return nil
}

func (sm *seatManager) Occupancy() map[int64]int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	counts := make(map[int64]int)
	for _, table := range sm.tournament.ActiveTables() {
		counts[table.ID] = sm.occupancy(table.ID)
	}
	return counts
}
