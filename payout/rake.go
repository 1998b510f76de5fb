package payout

import (
	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

var hundred = decimal.NewFromInt(100)

/*
RakeOf 計算抽水金額
  - percentage: amount × Rake / 100
  - fixed: Rake (不超過 amount)
*/
func RakeOf(config model.TournamentConfig, amount decimal.Decimal) (decimal.Decimal, error) {
	if config.Rake.IsZero() {
		return decimal.Zero, nil
	}

	if config.Rake.IsNegative() {
		return decimal.Zero, apperr.Configuration("negative rake %s", config.Rake)
	}

	switch config.RakeType {
	case model.RakeType_Percentage:
		if config.Rake.GreaterThan(hundred) {
			return decimal.Zero, apperr.Configuration("rake percentage %s exceeds 100", config.Rake)
		}
		return amount.Mul(config.Rake).Div(hundred).Round(config.Precision()), nil
	case model.RakeType_Fixed:
		if config.Rake.GreaterThan(amount) {
			return decimal.Zero, apperr.Configuration("fixed rake %s exceeds amount %s", config.Rake, amount)
		}
		return config.Rake, nil
	}

	return decimal.Zero, apperr.Configuration("unknown rake type %q", config.RakeType)
}

// NetBuyIn is the part of a buy-in that reaches the prize pool.
func NetBuyIn(config model.TournamentConfig) (decimal.Decimal, error) {
	rake, err := RakeOf(config, config.BuyIn)
	if err != nil {
		return decimal.Zero, err
	}
	return config.BuyIn.Sub(rake), nil
}

func NetRebuy(config model.TournamentConfig) (decimal.Decimal, error) {
	price := config.EffectiveRebuyPrice()
	if !config.RakeRebuys {
		return price, nil
	}

	rake, err := RakeOf(config, price)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Sub(rake), nil
}

func NetAddOn(config model.TournamentConfig) (decimal.Decimal, error) {
	if !config.RakeAddOns {
		return config.AddOnPrice, nil
	}

	rake, err := RakeOf(config, config.AddOnPrice)
	if err != nil {
		return decimal.Zero, err
	}
	return config.AddOnPrice.Sub(rake), nil
}
