package model

type PokerTable struct {
	ID          int64 `json:"id"`
	TableNumber int   `json:"table_number"` // 桌號
	IsActive    bool  `json:"is_active"`    // 人數歸零後停用，座位可重新使用
	MaxSeats    int   `json:"max_seats"`    // 座位數上限
}

// TablePlayers lists the players seated at tableID.
func (t Tournament) TablePlayers(tableID int64) []*TournamentPlayer {
	players := make([]*TournamentPlayer, 0)
	for _, p := range t.Players {
		if p.TableID != nil && *p.TableID == tableID {
			players = append(players, p)
		}
	}
	return players
}

func (t Tournament) ActiveTables() []*PokerTable {
	tables := make([]*PokerTable, 0)
	for _, table := range t.Tables {
		if table.IsActive {
			tables = append(tables, table)
		}
	}
	return tables
}
