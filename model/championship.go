package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Championship struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	PeriodType PeriodType `json:"period_type"` // 分期方式 (月/季)

	// points
	PointsMode              PointsMode      `json:"points_mode"`
	LinearFirstPlacePoints  decimal.Decimal `json:"linear_first_place_points"`
	ProportionalTotalPoints decimal.Decimal `json:"proportional_total_points"`
	FixedPointsTable        string          `json:"fixed_points_table"` // position -> points (serialized)
	PointsPrecision         int32           `json:"points_precision"`

	// tiebreakers
	Tiebreaker1 Tiebreaker `json:"tiebreaker_1"`
	Tiebreaker2 Tiebreaker `json:"tiebreaker_2"`
	Tiebreaker3 Tiebreaker `json:"tiebreaker_3"`

	// counting
	CountingMode  CountingMode `json:"counting_mode"`
	BestX         int          `json:"best_x"`
	ExcludeWorstX int          `json:"exclude_worst_x"`

	// bonuses & penalties
	ParticipationPoints   decimal.Decimal  `json:"participation_points"`
	PointsPerBounty       decimal.Decimal  `json:"points_per_bounty"`
	VictoryBonus          decimal.Decimal  `json:"victory_bonus"`
	Top3Bonus             decimal.Decimal  `json:"top3_bonus"`
	RebuyPenaltyMode      RebuyPenaltyMode `json:"rebuy_penalty_mode"`
	RebuyPointsPenalty    decimal.Decimal  `json:"rebuy_points_penalty"`
	RebuyPointsMultiplier decimal.Decimal  `json:"rebuy_points_multiplier"`
	FinalMatchCoefficient decimal.Decimal  `json:"final_match_coefficient"`
	MainEventCoefficient  decimal.Decimal  `json:"main_event_coefficient"`

	// championship-wide rebuy limits, used by RebuyLimitType_ByPeriod
	RebuyLimitType     RebuyLimitType `json:"rebuy_limit_type"`
	MaxRebuysPerPlayer int            `json:"max_rebuys_per_player"`
	RebuyPeriodMonths  int            `json:"rebuy_period_months"`

	Matches   []ChampionshipMatch    `json:"matches"`
	Standings []ChampionshipStanding `json:"standings"`
}

// Precision returns the configured points precision, 2 when unset.
func (c Championship) Precision() int32 {
	if c.PointsPrecision <= 0 {
		return 2
	}
	return c.PointsPrecision
}

func (c Championship) Tiebreakers() []Tiebreaker {
	tbs := make([]Tiebreaker, 0, 3)
	for _, tb := range []Tiebreaker{c.Tiebreaker1, c.Tiebreaker2, c.Tiebreaker3} {
		if tb != "" && tb != Tiebreaker_None {
			tbs = append(tbs, tb)
		}
	}
	return tbs
}

type ChampionshipMatch struct {
	ID               int64           `json:"id"`
	ChampionshipID   int64           `json:"championship_id"`
	TournamentID     int64           `json:"tournament_id"`
	MatchNumber      int             `json:"match_number"`
	Coefficient      decimal.Decimal `json:"coefficient"` // 權重
	IsFinal          bool            `json:"is_final"`
	IsMainEvent      bool            `json:"is_main_event"`
	PlayedAt         time.Time       `json:"played_at"`
	FixedPointsTable string          `json:"fixed_points_table"` // 覆寫賽事積分表 (serialized)
}

// ChampionshipStanding is derived from matches and never edited by hand.
type ChampionshipStanding struct {
	ChampionshipID  int64                      `json:"championship_id"`
	PlayerID        int64                      `json:"player_id"`
	TotalPoints     decimal.Decimal            `json:"total_points"`
	CurrentPosition int                        `json:"current_position"`
	MatchesPlayed   int                        `json:"matches_played"`
	MatchesCounted  int                        `json:"matches_counted"`
	Victories       int                        `json:"victories"`
	Top3Finishes    int                        `json:"top3_finishes"`
	BestPosition    int                        `json:"best_position"`
	AveragePosition decimal.Decimal            `json:"average_position"`
	PositionStdDev  decimal.Decimal            `json:"position_std_dev"`
	TotalWinnings   decimal.Decimal            `json:"total_winnings"`
	TotalCost       decimal.Decimal            `json:"total_cost"`
	ROI             decimal.Decimal            `json:"roi"` // 百分比
	BountyKills     int                        `json:"bounty_kills"`
	MonthlyPoints   map[string]decimal.Decimal `json:"monthly_points"`   // key: YYYY-MM
	QuarterlyPoints map[string]decimal.Decimal `json:"quarterly_points"` // key: YYYY-Qn
}

// TournamentResult is the completed-tournament snapshot consumed by scoring.
type TournamentResult struct {
	TournamentID      int64                   `json:"tournament_id"`
	PlayedAt          time.Time               `json:"played_at"`
	Entrants          int                     `json:"entrants"`
	PrizePool         decimal.Decimal         `json:"prize_pool"`
	PrizeDistribution map[int]decimal.Decimal `json:"prize_distribution"` // position -> percentage
	Players           []ResultPlayer          `json:"players"`
}

type ResultPlayer struct {
	PlayerID       int64           `json:"player_id"`
	FinishPosition int             `json:"finish_position"`
	BountyKills    int             `json:"bounty_kills"`
	RebuyCount     int             `json:"rebuy_count"`
	HasAddOn       bool            `json:"has_add_on"`
	Winnings       decimal.Decimal `json:"winnings"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}
