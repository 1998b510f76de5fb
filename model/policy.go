package model

type TournamentStatus string

const (
	TournamentStatus_Pending      TournamentStatus = "pending"      // 尚未開放報名
	TournamentStatus_Registration TournamentStatus = "registration" // 報名中
	TournamentStatus_Running      TournamentStatus = "running"      // 計時中
	TournamentStatus_Paused       TournamentStatus = "paused"       // 暫停中
	TournamentStatus_Finished     TournamentStatus = "finished"     // 已結束
	TournamentStatus_Cancelled    TournamentStatus = "cancelled"    // 已取消
)

func (s TournamentStatus) IsEnded() bool {
	return s == TournamentStatus_Finished || s == TournamentStatus_Cancelled
}

// IsPlaying reports whether the clock has started and the tournament is not over.
func (s TournamentStatus) IsPlaying() bool {
	return s == TournamentStatus_Running || s == TournamentStatus_Paused
}

type RakeType string

const (
	RakeType_Percentage RakeType = "percentage"
	RakeType_Fixed      RakeType = "fixed"
)

type RebuyLimitType string

const (
	RebuyLimitType_ByNumber          RebuyLimitType = "by_number"            // 每人補碼次數上限
	RebuyLimitType_ByLevel           RebuyLimitType = "by_level"             // 指定盲注等級前可補碼
	RebuyLimitType_ByPeriod          RebuyLimitType = "by_period"            // 一段期間 (月) 內補碼次數上限
	RebuyLimitType_UntilXPlayersLeft RebuyLimitType = "until_x_players_left" // 剩餘人數低於門檻後停止補碼
	RebuyLimitType_Combined          RebuyLimitType = "combined"             // 以上條件同時成立
	RebuyLimitType_Unlimited         RebuyLimitType = "unlimited"            // 不限次數
)

type BountyType string

const (
	BountyType_None        BountyType = "none"
	BountyType_Fixed       BountyType = "fixed"       // 固定賞金
	BountyType_Progressive BountyType = "progressive" // 累進賞金
)

type PayoutType string

const (
	PayoutType_Percentage PayoutType = "percentage"
	PayoutType_Fixed      PayoutType = "fixed"
)

type PeriodType string

const (
	PeriodType_None    PeriodType = "none"
	PeriodType_Month   PeriodType = "month"
	PeriodType_Quarter PeriodType = "quarter"
)

type PointsMode string

const (
	PointsMode_Linear                PointsMode = "linear"
	PointsMode_FixedByPosition       PointsMode = "fixed_by_position"
	PointsMode_ProportionalPrizePool PointsMode = "proportional_prize_pool"
)

type CountingMode string

const (
	CountingMode_AllMatches     CountingMode = "all_matches"
	CountingMode_BestXOfSeason  CountingMode = "best_x_of_season"
	CountingMode_BestXPerPeriod CountingMode = "best_x_per_period"
)

type Tiebreaker string

const (
	Tiebreaker_None                 Tiebreaker = "none"
	Tiebreaker_NumberOfWins         Tiebreaker = "number_of_wins"
	Tiebreaker_BestIndividualResult Tiebreaker = "best_individual_result"
	Tiebreaker_HeadToHead           Tiebreaker = "head_to_head"
	Tiebreaker_SumOfPositions       Tiebreaker = "sum_of_positions"
	Tiebreaker_MoreMatchesPlayed    Tiebreaker = "more_matches_played"
)

type RebuyPenaltyMode string

const (
	RebuyPenaltyMode_None       RebuyPenaltyMode = "none"
	RebuyPenaltyMode_Subtract   RebuyPenaltyMode = "subtract"   // 每次補碼扣分
	RebuyPenaltyMode_Multiplier RebuyPenaltyMode = "multiplier" // 有補碼時整場分數乘上倍率
)
