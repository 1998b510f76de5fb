package payout

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payload"
)

/*
Compute 依據派彩結構計算各名次獎金
  - 選用 MinPlayers <= entrants 中最大的 tier，沒有則 StructureNotApplicable
  - percentage: round(pool × pct / 100)，百分比總和超過 100 為設定錯誤
  - fixed: 總額超過獎池為設定錯誤
  - 超過參賽人數的名次不派彩
*/
func Compute(ps payload.PayoutStructure, entrants int, pool decimal.Decimal, precision int32) (map[int]decimal.Decimal, error) {
	tier, ok := ps.TierFor(entrants)
	if !ok {
		return nil, apperr.New(apperr.Kind_StructureNotApplicable, "no payout tier for %d entrants", entrants)
	}

	positions := paidPositions(tier, entrants)
	amounts := make(map[int]decimal.Decimal, len(positions))

	switch tier.Type {
	case model.PayoutType_Percentage:
		total := decimal.Zero
		for _, value := range tier.Positions {
			total = total.Add(value)
		}
		if total.GreaterThan(hundred) {
			return nil, apperr.Configuration("payout percentages sum to %s", total)
		}

		sum := decimal.Zero
		for _, position := range positions {
			amount := pool.Mul(tier.Positions[position]).Div(hundred).Round(precision)
			amounts[position] = amount
			sum = sum.Add(amount)
		}

		// 四捨五入差額由最高名次吸收
		residue := pool.Sub(sum)
		if len(positions) > 0 && (residue.IsNegative() || (total.Equal(hundred) && len(positions) == len(tier.Positions))) {
			top := positions[0]
			amounts[top] = amounts[top].Add(residue)
		}

	case model.PayoutType_Fixed:
		sum := decimal.Zero
		for _, position := range positions {
			amounts[position] = tier.Positions[position].Round(precision)
			sum = sum.Add(amounts[position])
		}
		if sum.GreaterThan(pool) {
			return nil, apperr.Configuration("fixed payouts %s exceed prize pool %s", sum, pool)
		}

	default:
		return nil, apperr.Configuration("unknown payout type %q", tier.Type)
	}

	return amounts, nil
}

// Distribution returns the share of the pool per position in percent.
func Distribution(ps payload.PayoutStructure, entrants int, pool decimal.Decimal) (map[int]decimal.Decimal, error) {
	tier, ok := ps.TierFor(entrants)
	if !ok {
		return nil, apperr.New(apperr.Kind_StructureNotApplicable, "no payout tier for %d entrants", entrants)
	}

	distribution := make(map[int]decimal.Decimal)
	for _, position := range paidPositions(tier, entrants) {
		value := tier.Positions[position]
		if tier.Type == model.PayoutType_Fixed {
			if pool.IsZero() {
				continue
			}
			value = value.Mul(hundred).Div(pool)
		}
		distribution[position] = value
	}
	return distribution, nil
}

/*
ApplyPayouts 將獎金寫入每位玩家的 Winnings
  - 未設定或無法解析的派彩結構視為不派彩
  - 派彩總額不得超過獎池 (DataIntegrity)
*/
func ApplyPayouts(t *model.Tournament) (map[int]decimal.Decimal, error) {
	for _, p := range t.Players {
		p.Winnings = decimal.Zero
	}

	ps, ok := payload.ParsePayoutStructure(t.Config.PayoutStructureJSON)
	if !ok {
		return map[int]decimal.Decimal{}, nil
	}

	amounts, err := Compute(ps, len(t.Players), t.TotalPrizePool, t.Config.Precision())
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	for _, p := range t.Players {
		if p.FinishPosition == nil {
			continue
		}
		if amount, ok := amounts[*p.FinishPosition]; ok {
			p.Winnings = amount
			paid = paid.Add(amount)
		}
	}

	if paid.GreaterThan(t.TotalPrizePool) {
		return nil, apperr.DataIntegrity("payouts %s exceed prize pool %s", paid, t.TotalPrizePool)
	}

	return amounts, nil
}

func paidPositions(tier payload.PayoutTier, entrants int) []int {
	positions := make([]int, 0, len(tier.Positions))
	for position := range tier.Positions {
		if position <= entrants {
			positions = append(positions, position)
		}
	}
	sort.Ints(positions)
	return positions
}
