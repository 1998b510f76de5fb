package payout

import (
	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/model"
)

// InitialBounty is the bounty placed on a player when they enter.
func InitialBounty(config model.TournamentConfig) decimal.Decimal {
	if !config.AllowBounty() {
		return decimal.Zero
	}
	return config.BountyAmount
}

// EntryCost is what a player pays to register: buy-in plus the bounty fee.
func EntryCost(config model.TournamentConfig) decimal.Decimal {
	return config.BuyIn.Add(InitialBounty(config))
}

/*
CollectBounty 處理淘汰時的賞金
  - fixed: 淘汰者獲得 BountyAmount
  - progressive: 淘汰者獲得被淘汰者身上的 CurrentBounty，其餘存活玩家的賞金增加 BountyIncrement
  - 賞金與名次獎金分開記錄在 BountyWinnings
*/
func CollectBounty(t *model.Tournament, victim *model.TournamentPlayer, eliminator *model.TournamentPlayer) decimal.Decimal {
	if eliminator != nil {
		eliminator.BountyKills++
	}

	collected := decimal.Zero

	switch t.Config.BountyType {
	case model.BountyType_Fixed:
		if eliminator != nil {
			collected = t.Config.BountyAmount
		}
	case model.BountyType_Progressive:
		if eliminator != nil {
			collected = victim.CurrentBounty
		}

		for _, p := range t.Players {
			if p.IsEliminated || p.PlayerID == victim.PlayerID {
				continue
			}
			p.CurrentBounty = p.CurrentBounty.Add(t.Config.BountyIncrement)
		}
	default:
		return decimal.Zero
	}

	victim.CurrentBounty = decimal.Zero

	if eliminator != nil {
		eliminator.BountyWinnings = eliminator.BountyWinnings.Add(collected)
	}

	return collected
}
