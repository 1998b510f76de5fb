package championship

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

// MatchResult pairs a championship match with the finishing order of its tournament.
type MatchResult struct {
	Match  model.ChampionshipMatch `json:"match"`
	Result model.TournamentResult  `json:"result"`
}

func (mr MatchResult) PlayedAt() time.Time {
	if !mr.Match.PlayedAt.IsZero() {
		return mr.Match.PlayedAt
	}
	return mr.Result.PlayedAt
}

// ScoredMatch is one player's score in one match.
type ScoredMatch struct {
	MatchNumber  int             `json:"match_number"`
	TournamentID int64           `json:"tournament_id"`
	PlayedAt     time.Time       `json:"played_at"`
	PlayerID     int64           `json:"player_id"`
	Position     int             `json:"position"`
	Points       decimal.Decimal `json:"points"`
	Counted      bool            `json:"counted"`
	BountyKills  int             `json:"bounty_kills"`
	Winnings     decimal.Decimal `json:"winnings"`
	Cost         decimal.Decimal `json:"cost"`
}

/*
Compute 重新計算積分榜
  - 只依賴傳入的賽事結果，與先前的積分榜無關
  - 賽事依 MatchNumber、TournamentID 排序後計分
  - 相同輸入必定得到相同結果
*/
func Compute(c model.Championship, matches []MatchResult) ([]model.ChampionshipStanding, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	ordered := make([]MatchResult, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Match.MatchNumber != ordered[j].Match.MatchNumber {
			return ordered[i].Match.MatchNumber < ordered[j].Match.MatchNumber
		}
		return ordered[i].Match.TournamentID < ordered[j].Match.TournamentID
	})

	byPlayer := make(map[int64][]*ScoredMatch)
	for _, mr := range ordered {
		scores, err := ScoreMatch(c, mr)
		if err != nil {
			return nil, err
		}
		for _, sm := range scores {
			byPlayer[sm.PlayerID] = append(byPlayer[sm.PlayerID], sm)
		}
	}

	standings := make([]*model.ChampionshipStanding, 0, len(byPlayer))
	for playerID, scores := range byPlayer {
		selectCounted(c, scores)

		standing := summarize(scores)
		standing.ChampionshipID = c.ID
		standing.PlayerID = playerID
		standings = append(standings, standing)
	}

	rank(c.Tiebreakers(), standings, byPlayer)

	results := make([]model.ChampionshipStanding, 0, len(standings))
	for _, s := range standings {
		results = append(results, *s)
	}
	return results, nil
}

// Validate rejects unknown policy values before any scoring happens.
func Validate(c model.Championship) error {
	switch c.PointsMode {
	case model.PointsMode_Linear, model.PointsMode_FixedByPosition, model.PointsMode_ProportionalPrizePool:
	default:
		return apperr.Configuration("unknown points mode %q", c.PointsMode)
	}

	switch c.CountingMode {
	case model.CountingMode_AllMatches:
	case model.CountingMode_BestXOfSeason:
		if c.BestX <= 0 {
			return apperr.Configuration("best_x must be positive for %s", c.CountingMode)
		}
	case model.CountingMode_BestXPerPeriod:
		if c.BestX <= 0 {
			return apperr.Configuration("best_x must be positive for %s", c.CountingMode)
		}
		if c.PeriodType != model.PeriodType_Month && c.PeriodType != model.PeriodType_Quarter {
			return apperr.Configuration("%s requires a month or quarter period", c.CountingMode)
		}
	default:
		return apperr.Configuration("unknown counting mode %q", c.CountingMode)
	}

	if c.ExcludeWorstX < 0 {
		return apperr.Configuration("exclude_worst_x must not be negative")
	}

	switch c.RebuyPenaltyMode {
	case "", model.RebuyPenaltyMode_None, model.RebuyPenaltyMode_Subtract, model.RebuyPenaltyMode_Multiplier:
	default:
		return apperr.Configuration("unknown rebuy penalty mode %q", c.RebuyPenaltyMode)
	}

	for _, tb := range c.Tiebreakers() {
		switch tb {
		case model.Tiebreaker_NumberOfWins,
			model.Tiebreaker_BestIndividualResult,
			model.Tiebreaker_HeadToHead,
			model.Tiebreaker_SumOfPositions,
			model.Tiebreaker_MoreMatchesPlayed:
		default:
			return apperr.Configuration("unknown tiebreaker %q", tb)
		}
	}

	return nil
}
