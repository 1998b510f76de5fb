package championship

import (
	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payload"
)

var one = decimal.NewFromInt(1)

/*
ScoreMatch 計算一場賽事每位玩家的積分
  - 原始分數 (PointsMode) × Coefficient × FinalMatchCoefficient × MainEventCoefficient
  - 依序加上參賽分、賞金分、冠軍加分、前三加分
  - 最後套用補碼懲罰，四捨五入到 PointsPrecision
*/
func ScoreMatch(c model.Championship, mr MatchResult) ([]*ScoredMatch, error) {
	fieldSize := mr.Result.Entrants
	if fieldSize <= 0 {
		fieldSize = len(mr.Result.Players)
	}

	table := fixedPointsTable(c, mr.Match)
	coefficient := matchCoefficient(c, mr.Match)

	scores := make([]*ScoredMatch, 0, len(mr.Result.Players))
	for _, rp := range mr.Result.Players {
		var raw decimal.Decimal
		switch c.PointsMode {
		case model.PointsMode_Linear:
			raw = LinearPoints(c.LinearFirstPlacePoints, fieldSize, rp.FinishPosition)
		case model.PointsMode_FixedByPosition:
			raw = table[rp.FinishPosition]
		case model.PointsMode_ProportionalPrizePool:
			raw = ProportionalPoints(c.ProportionalTotalPoints, mr.Result.PrizeDistribution, rp.FinishPosition)
		default:
			return nil, apperr.Configuration("unknown points mode %q", c.PointsMode)
		}

		points := raw.Mul(coefficient)
		points = points.Add(c.ParticipationPoints)
		points = points.Add(c.PointsPerBounty.Mul(decimal.NewFromInt(int64(rp.BountyKills))))
		if rp.FinishPosition == 1 {
			points = points.Add(c.VictoryBonus)
		}
		if rp.FinishPosition >= 1 && rp.FinishPosition <= 3 {
			points = points.Add(c.Top3Bonus)
		}

		switch c.RebuyPenaltyMode {
		case model.RebuyPenaltyMode_Subtract:
			points = points.Sub(c.RebuyPointsPenalty.Mul(decimal.NewFromInt(int64(rp.RebuyCount))))
		case model.RebuyPenaltyMode_Multiplier:
			if rp.RebuyCount > 0 {
				points = points.Mul(c.RebuyPointsMultiplier)
			}
		}

		scores = append(scores, &ScoredMatch{
			MatchNumber:  mr.Match.MatchNumber,
			TournamentID: mr.Match.TournamentID,
			PlayedAt:     mr.PlayedAt(),
			PlayerID:     rp.PlayerID,
			Position:     rp.FinishPosition,
			Points:       points.Round(c.Precision()),
			BountyKills:  rp.BountyKills,
			Winnings:     rp.Winnings,
			Cost:         rp.TotalCost,
		})
	}

	return scores, nil
}

/*
LinearPoints 線性遞減積分
  - step = first / (fieldSize - 1)，最後一名為 0
  - 只有一位參賽者時拿到全部分數
*/
func LinearPoints(first decimal.Decimal, fieldSize int, position int) decimal.Decimal {
	if position < 1 {
		return decimal.Zero
	}

	if fieldSize <= 1 {
		if position == 1 {
			return first
		}
		return decimal.Zero
	}

	step := first.Div(decimal.NewFromInt(int64(fieldSize - 1)))
	points := first.Sub(step.Mul(decimal.NewFromInt(int64(position - 1))))
	if points.IsNegative() {
		return decimal.Zero
	}
	return points
}

// ProportionalPoints splits total by each paid position's share of the prize pool.
func ProportionalPoints(total decimal.Decimal, distribution map[int]decimal.Decimal, position int) decimal.Decimal {
	share, ok := distribution[position]
	if !ok {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, pct := range distribution {
		sum = sum.Add(pct)
	}
	if !sum.IsPositive() {
		return decimal.Zero
	}

	return total.Mul(share).Div(sum)
}

func fixedPointsTable(c model.Championship, match model.ChampionshipMatch) map[int]decimal.Decimal {
	if table, ok := payload.ParsePositionPoints(match.FixedPointsTable); ok && len(table) > 0 {
		return table
	}

	table, _ := payload.ParsePositionPoints(c.FixedPointsTable)
	return table
}

// matchCoefficient treats unset (zero) coefficients as 1.
func matchCoefficient(c model.Championship, match model.ChampionshipMatch) decimal.Decimal {
	coefficient := one
	if match.Coefficient.IsPositive() {
		coefficient = match.Coefficient
	}
	if match.IsFinal && c.FinalMatchCoefficient.IsPositive() {
		coefficient = coefficient.Mul(c.FinalMatchCoefficient)
	}
	if match.IsMainEvent && c.MainEventCoefficient.IsPositive() {
		coefficient = coefficient.Mul(c.MainEventCoefficient)
	}
	return coefficient
}
