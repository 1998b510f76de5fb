package model

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thoas/go-funk"
)

type TournamentConfig struct {
	// financial
	BuyIn             decimal.Decimal `json:"buy_in"`             // 報名費
	Rake              decimal.Decimal `json:"rake"`               // 抽水 (百分比或固定金額)
	RakeType          RakeType        `json:"rake_type"`          // 抽水方式
	RakeRebuys        bool            `json:"rake_rebuys"`        // 補碼是否抽水
	RakeAddOns        bool            `json:"rake_add_ons"`       // 增購是否抽水
	Currency          string          `json:"currency"`           // 幣別 (不驗證)
	CurrencyPrecision int32           `json:"currency_precision"` // 金額小數位數

	// seating & clock
	StartingStack          int64 `json:"starting_stack"`           // 起始籌碼
	SeatsPerTable          int   `json:"seats_per_table"`          // 每桌人數上限
	LateRegistrationLevels int   `json:"late_registration_levels"` // 延遲報名至盲注等級
	AutoBreakTables        bool  `json:"auto_break_tables"`        // 人數足夠時自動拆桌

	// rebuy
	AllowRebuys           bool            `json:"allow_rebuys"`
	AllowDoubleUpRebuy    bool            `json:"allow_double_up_rebuy"` // 籌碼未歸零也可補碼
	RebuyLimitType        RebuyLimitType  `json:"rebuy_limit_type"`
	MaxRebuysPerPlayer    int             `json:"max_rebuys_per_player"`
	RebuyMaxLevel         int             `json:"rebuy_max_level"`
	RebuyPeriodMonths     int             `json:"rebuy_period_months"`
	RebuyUntilPlayersLeft int             `json:"rebuy_until_players_left"`
	RebuyPrice            decimal.Decimal `json:"rebuy_price"`
	RebuyStack            *int64          `json:"rebuy_stack,omitempty"` // nil 表示使用起始籌碼

	// add-on
	AllowAddOn   bool            `json:"allow_add_on"`
	AddOnAtLevel int             `json:"add_on_at_level"`
	AddOnPrice   decimal.Decimal `json:"add_on_price"`
	AddOnStack   int64           `json:"add_on_stack"`

	// bounty
	BountyType      BountyType      `json:"bounty_type"`
	BountyAmount    decimal.Decimal `json:"bounty_amount"`
	BountyIncrement decimal.Decimal `json:"bounty_increment"`

	PayoutStructureJSON string `json:"payout_structure_json"` // 派彩結構 (serialized)
}

func (c TournamentConfig) Clone() TournamentConfig {
	if c.RebuyStack != nil {
		stack := *c.RebuyStack
		c.RebuyStack = &stack
	}
	return c
}

// Precision returns the configured currency precision, 2 when unset.
func (c TournamentConfig) Precision() int32 {
	if c.CurrencyPrecision <= 0 {
		return 2
	}
	return c.CurrencyPrecision
}

func (c TournamentConfig) EffectiveRebuyPrice() decimal.Decimal {
	if c.RebuyPrice.IsPositive() {
		return c.RebuyPrice
	}
	return c.BuyIn
}

func (c TournamentConfig) EffectiveRebuyStack() int64 {
	if c.RebuyStack != nil {
		return *c.RebuyStack
	}
	return c.StartingStack
}

func (c TournamentConfig) AllowBounty() bool {
	return c.BountyType == BountyType_Fixed || c.BountyType == BountyType_Progressive
}

type TournamentTemplate struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	BlindStructureID int64            `json:"blind_structure_id"`
	Config           TournamentConfig `json:"config"`
}

type Tournament struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	TemplateID       int64            `json:"template_id"`
	BlindStructureID int64            `json:"blind_structure_id"`
	Config           TournamentConfig `json:"config"` // 由 Template 複製 (copy-on-create)
	Levels           []BlindLevel     `json:"levels"` // 由 BlindStructure 複製

	Status                TournamentStatus `json:"status"`
	CurrentLevel          int              `json:"current_level"`            // 當前盲注等級 (LevelNumber)
	CurrentLevelIndex     int              `json:"current_level_index"`      // 當前盲注等級索引值
	CurrentLevelStartTime time.Time        `json:"current_level_start_time"` // 當前等級開始時間
	PausedElapsed         time.Duration    `json:"paused_elapsed"`           // 暫停時當前等級已經過時間
	StartedAt             *time.Time       `json:"started_at,omitempty"`
	FinishedAt            *time.Time       `json:"finished_at,omitempty"`

	TotalPrizePool  decimal.Decimal `json:"total_prize_pool"`
	TotalBountyPool decimal.Decimal `json:"total_bounty_pool"`
	TotalEntries    int             `json:"total_entries"`
	TotalRebuys     int             `json:"total_rebuys"`
	TotalAddOns     int             `json:"total_add_ons"`

	Players []*TournamentPlayer `json:"players"`
	Tables  []*PokerTable       `json:"tables"`
	Rebuys  []PlayerRebuy       `json:"rebuys"`

	UpdateSerial int64 `json:"update_serial"` // 更新序列號 (數字越大越晚發生)
}

type TournamentPlayer struct {
	PlayerID             int64           `json:"player_id"`
	TableID              *int64          `json:"table_id,omitempty"`    // 淘汰後為 nil
	SeatNumber           *int            `json:"seat_number,omitempty"` // 淘汰後為 nil
	IsLocked             bool            `json:"is_locked"`             // 座位鎖定，不參與平衡
	CurrentStack         int64           `json:"current_stack"`
	RebuyCount           int             `json:"rebuy_count"`
	HasAddOn             bool            `json:"has_add_on"`
	IsEliminated         bool            `json:"is_eliminated"`
	FinishPosition       *int            `json:"finish_position,omitempty"`
	EliminationTime      *time.Time      `json:"elimination_time,omitempty"`
	EliminatedByPlayerID *int64          `json:"eliminated_by_player_id,omitempty"` // 僅供賞金歸屬查詢
	Winnings             decimal.Decimal `json:"winnings"`
	BountyWinnings       decimal.Decimal `json:"bounty_winnings"`
	CurrentBounty        decimal.Decimal `json:"current_bounty"`
	TotalCost            decimal.Decimal `json:"total_cost"` // 報名 + 補碼 + 增購
	ChampionshipPoints   decimal.Decimal `json:"championship_points"`
	BountyKills          int             `json:"bounty_kills"`
}

func (p TournamentPlayer) IsSeated() bool {
	return p.TableID != nil && p.SeatNumber != nil
}

type PlayerRebuy struct {
	ID           int64           `json:"id"`
	PlayerID     int64           `json:"player_id"`
	TournamentID int64           `json:"tournament_id"`
	RebuyDate    time.Time       `json:"rebuy_date"`
	Amount       decimal.Decimal `json:"amount"`
	RebuyNumber  int             `json:"rebuy_number"`
}

type Player struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// Setters
func (t *Tournament) RefreshUpdateSerial() {
	t.UpdateSerial++
}

// Getters
func (t Tournament) FindPlayer(playerID int64) *TournamentPlayer {
	for _, p := range t.Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}

func (t Tournament) FindTable(tableID int64) *PokerTable {
	for _, table := range t.Tables {
		if table.ID == tableID {
			return table
		}
	}
	return nil
}

func (t Tournament) RemainingPlayers() []*TournamentPlayer {
	return funk.Filter(t.Players, func(p *TournamentPlayer) bool {
		return !p.IsEliminated
	}).([]*TournamentPlayer)
}

func (t Tournament) EliminatedPlayers() []*TournamentPlayer {
	return funk.Filter(t.Players, func(p *TournamentPlayer) bool {
		return p.IsEliminated
	}).([]*TournamentPlayer)
}

func (t Tournament) PlayerRebuys(playerID int64) []PlayerRebuy {
	return funk.Filter(t.Rebuys, func(r PlayerRebuy) bool {
		return r.PlayerID == playerID
	}).([]PlayerRebuy)
}

func (t Tournament) CurrentBlindLevel() (BlindLevel, bool) {
	if t.CurrentLevelIndex < 0 || t.CurrentLevelIndex >= len(t.Levels) {
		return BlindLevel{}, false
	}
	return t.Levels[t.CurrentLevelIndex], true
}

// Clone deep-copies the aggregate so an operation can be applied to the copy
// and swapped in only on success.
func (t Tournament) Clone() *Tournament {
	clone := t
	clone.Config = t.Config.Clone()

	clone.Levels = make([]BlindLevel, len(t.Levels))
	copy(clone.Levels, t.Levels)

	clone.Players = make([]*TournamentPlayer, 0, len(t.Players))
	for _, p := range t.Players {
		clone.Players = append(clone.Players, p.Clone())
	}

	clone.Tables = make([]*PokerTable, 0, len(t.Tables))
	for _, table := range t.Tables {
		copied := *table
		clone.Tables = append(clone.Tables, &copied)
	}

	clone.Rebuys = make([]PlayerRebuy, len(t.Rebuys))
	copy(clone.Rebuys, t.Rebuys)

	if t.StartedAt != nil {
		startedAt := *t.StartedAt
		clone.StartedAt = &startedAt
	}
	if t.FinishedAt != nil {
		finishedAt := *t.FinishedAt
		clone.FinishedAt = &finishedAt
	}
	return &clone
}

func (p TournamentPlayer) Clone() *TournamentPlayer {
	clone := p
	if p.TableID != nil {
		v := *p.TableID
		clone.TableID = &v
	}
	if p.SeatNumber != nil {
		v := *p.SeatNumber
		clone.SeatNumber = &v
	}
	if p.FinishPosition != nil {
		v := *p.FinishPosition
		clone.FinishPosition = &v
	}
	if p.EliminationTime != nil {
		v := *p.EliminationTime
		clone.EliminationTime = &v
	}
	if p.EliminatedByPlayerID != nil {
		v := *p.EliminatedByPlayerID
		clone.EliminatedByPlayerID = &v
	}
	return &clone
}
