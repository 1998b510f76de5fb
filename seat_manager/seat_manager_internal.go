package seat_manager

import (
	"sort"

	"github.com/thoas/go-funk"
	"github.com/weedbox/pokertournament/model"
)

func (sm *seatManager) occupancy(tableID int64) int {
	return len(sm.tournament.TablePlayers(tableID))
}

func (sm *seatManager) takenSeats(tableID int64) []int {
	return funk.Map(sm.tournament.TablePlayers(tableID), func(p *model.TournamentPlayer) int {
		return *p.SeatNumber
	}).([]int)
}

func (sm *seatManager) lowestFreeSeat(table *model.PokerTable) int {
	taken := sm.takenSeats(table.ID)
	for seatNumber := 1; seatNumber <= table.MaxSeats; seatNumber++ {
		if !funk.ContainsInt(taken, seatNumber) {
			return seatNumber
		}
	}
	return 0
}

// sortedTables orders active tables by occupancy, then table number.
func (sm *seatManager) sortedTables(descending bool) []*model.PokerTable {
	tables := sm.tournament.ActiveTables()
	counts := make(map[int64]int, len(tables))
	for _, table := range tables {
		counts[table.ID] = sm.occupancy(table.ID)
	}

	sort.SliceStable(tables, func(i, j int) bool {
		ci, cj := counts[tables[i].ID], counts[tables[j].ID]
		if ci != cj {
			if descending {
				return ci > cj
			}
			return ci < cj
		}
		return tables[i].TableNumber < tables[j].TableNumber
	})
	return tables
}

// emptiestTable returns the least occupied active table with a free seat.
func (sm *seatManager) emptiestTable(exclude *model.PokerTable) *model.PokerTable {
	for _, table := range sm.sortedTables(false) {
		if exclude != nil && table.ID == exclude.ID {
			continue
		}
		if sm.occupancy(table.ID) < table.MaxSeats {
			return table
		}
	}
	return nil
}

func (sm *seatManager) openTable() *model.PokerTable {
	// 優先重新啟用桌號最小的停用桌
	var reusable *model.PokerTable
	for _, table := range sm.tournament.Tables {
		if table.IsActive {
			continue
		}
		if reusable == nil || table.TableNumber < reusable.TableNumber {
			reusable = table
		}
	}

	if reusable != nil {
		reusable.IsActive = true
		reusable.MaxSeats = sm.seatsPerTable
		return reusable
	}

	var maxID int64
	maxNumber := 0
	for _, table := range sm.tournament.Tables {
		if table.ID > maxID {
			maxID = table.ID
		}
		if table.TableNumber > maxNumber {
			maxNumber = table.TableNumber
		}
	}

	table := &model.PokerTable{
		ID:          maxID + 1,
		TableNumber: maxNumber + 1,
		IsActive:    true,
		MaxSeats:    sm.seatsPerTable,
	}
	sm.tournament.Tables = append(sm.tournament.Tables, table)
	return table
}

func (sm *seatManager) sit(p *model.TournamentPlayer, table *model.PokerTable) Seat {
	seatNumber := sm.lowestFreeSeat(table)
	tableID := table.ID
	p.TableID = &tableID
	p.SeatNumber = &seatNumber

	return Seat{
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		SeatNumber:  seatNumber,
	}
}

func (sm *seatManager) seatOf(p *model.TournamentPlayer) Seat {
	table := sm.tournament.FindTable(*p.TableID)
	return Seat{
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		SeatNumber:  *p.SeatNumber,
	}
}

// mover returns the unlocked player with the highest seat number.
func (sm *seatManager) mover(table *model.PokerTable) *model.TournamentPlayer {
	var selected *model.TournamentPlayer
	for _, p := range sm.tournament.TablePlayers(table.ID) {
		if p.IsLocked {
			continue
		}
		if selected == nil || *p.SeatNumber > *selected.SeatNumber {
			selected = p
		}
	}
	return selected
}

func (sm *seatManager) move(p *model.TournamentPlayer, to *model.PokerTable) *Move {
	from := sm.seatOf(p)
	p.TableID = nil
	p.SeatNumber = nil
	seat := sm.sit(p, to)

	if fromTable := sm.tournament.FindTable(from.TableID); fromTable != nil && sm.occupancy(fromTable.ID) == 0 {
		fromTable.IsActive = false
	}

	return &Move{
		PlayerID: p.PlayerID,
		From:     from,
		To:       seat,
	}
}

func (sm *seatManager) balance() []*Move {
	moves := make([]*Move, 0)

	// 每次移動都讓人數差距縮小，上限為玩家人數以防萬一
	for i := 0; i <= len(sm.tournament.Players); i++ {
		to := sm.emptiestTable(nil)
		if to == nil {
			break
		}

		tables := sm.sortedTables(true)
		if len(tables) < 2 {
			break
		}

		maxCount := sm.occupancy(tables[0].ID)
		minCount := sm.occupancy(tables[len(tables)-1].ID)
		if maxCount-minCount <= 1 {
			break
		}

		destCount := sm.occupancy(to.ID)

		var mover *model.TournamentPlayer
		for _, table := range tables {
			if sm.occupancy(table.ID)-destCount < 2 {
				break
			}
			if candidate := sm.mover(table); candidate != nil {
				mover = candidate
				break
			}
		}

		if mover == nil {
			break
		}

		moves = append(moves, sm.move(mover, to))
	}

	return moves
}

/*
breakTables 拆桌
  - 剩餘玩家可以坐進少一張桌子時，拆掉桌號最大且無鎖定玩家的桌
  - 被拆桌玩家依座號由大到小，逐一移到人數最少的桌
*/
func (sm *seatManager) breakTables() []*Move {
	moves := make([]*Move, 0)

	for {
		active := sm.tournament.ActiveTables()
		if len(active) < 2 {
			break
		}

		seated := 0
		capacity := 0
		for _, table := range active {
			seated += sm.occupancy(table.ID)
			capacity += table.MaxSeats
		}

		target := sm.tableToBreak(active)
		if target == nil {
			break
		}

		if seated > capacity-target.MaxSeats {
			break
		}

		for {
			p := sm.mover(target)
			if p == nil {
				break
			}

			to := sm.emptiestTable(target)
			if to == nil {
				break
			}
			moves = append(moves, sm.move(p, to))
		}

		if sm.occupancy(target.ID) > 0 {
			break
		}
		target.IsActive = false
	}

	return moves
}

func (sm *seatManager) tableToBreak(active []*model.PokerTable) *model.PokerTable {
	var target *model.PokerTable
	for _, table := range active {
		locked := funk.Filter(sm.tournament.TablePlayers(table.ID), func(p *model.TournamentPlayer) bool {
			return p.IsLocked
		}).([]*model.TournamentPlayer)
		if len(locked) > 0 {
			continue
		}
		if target == nil || table.TableNumber > target.TableNumber {
			target = table
		}
	}
	return target
}
