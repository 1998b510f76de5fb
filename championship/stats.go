package championship

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/model"
)

var hundred = decimal.NewFromInt(100)

func summarize(scores []*ScoredMatch) *model.ChampionshipStanding {
	s := &model.ChampionshipStanding{
		TotalPoints:     decimal.Zero,
		TotalWinnings:   decimal.Zero,
		TotalCost:       decimal.Zero,
		MonthlyPoints:   make(map[string]decimal.Decimal),
		QuarterlyPoints: make(map[string]decimal.Decimal),
	}

	positions := make([]float64, 0, len(scores))
	for _, sm := range scores {
		s.MatchesPlayed++
		s.BountyKills += sm.BountyKills
		s.TotalWinnings = s.TotalWinnings.Add(sm.Winnings)
		s.TotalCost = s.TotalCost.Add(sm.Cost)

		if sm.Position == 1 {
			s.Victories++
		}
		if sm.Position >= 1 && sm.Position <= 3 {
			s.Top3Finishes++
		}
		if sm.Position > 0 && (s.BestPosition == 0 || sm.Position < s.BestPosition) {
			s.BestPosition = sm.Position
		}
		positions = append(positions, float64(sm.Position))

		if !sm.Counted {
			continue
		}

		s.MatchesCounted++
		s.TotalPoints = s.TotalPoints.Add(sm.Points)

		month := MonthKey(sm.PlayedAt)
		s.MonthlyPoints[month] = s.MonthlyPoints[month].Add(sm.Points)
		quarter := QuarterKey(sm.PlayedAt)
		s.QuarterlyPoints[quarter] = s.QuarterlyPoints[quarter].Add(sm.Points)
	}

	mean, stddev := meanStdDev(positions)
	s.AveragePosition = decimal.NewFromFloat(mean).Round(2)
	s.PositionStdDev = decimal.NewFromFloat(stddev).Round(2)
	s.ROI = ROI(s.TotalWinnings, s.TotalCost)

	return s
}

// ROI is (winnings - cost) / cost in percent, 0 when nothing was spent.
func ROI(winnings decimal.Decimal, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return winnings.Sub(cost).Div(cost).Mul(hundred).Round(2)
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
