package eligibility

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payout"
)

type Reason string

const (
	Reason_None              Reason = ""
	Reason_TournamentNotOpen Reason = "tournament_not_open"  // 賽事未在報名或進行中
	Reason_RebuysDisabled    Reason = "rebuys_disabled"      // 不允許補碼
	Reason_AddOnDisabled     Reason = "add_on_disabled"      // 不允許增購
	Reason_PlayerEliminated  Reason = "player_eliminated"    // 玩家已淘汰
	Reason_NotBusted         Reason = "not_busted"           // 玩家尚有籌碼
	Reason_LimitExceeded     Reason = "limit_exceeded"       // 超過補碼限制
	Reason_WrongLevel        Reason = "wrong_level"          // 非增購等級
	Reason_AddOnAlreadyTaken Reason = "add_on_already_taken" // 已經增購過
)

type Input struct {
	Config               model.TournamentConfig
	Status               model.TournamentStatus
	CurrentLevel         int
	LateRegistrationOpen bool
	PlayersRemaining     int // 未淘汰人數
	Player               model.TournamentPlayer
	History              []model.PlayerRebuy // 該玩家的補碼紀錄 (可跨賽事，供 by_period 使用)
	Now                  time.Time
}

type Verdict struct {
	Allowed        bool            `json:"allowed"`
	Reason         Reason          `json:"reason,omitempty"`
	Cost           decimal.Decimal `json:"cost"`            // 玩家支付金額
	NetToPool      decimal.Decimal `json:"net_to_pool"`     // 進入獎池金額
	ResultingStack int64           `json:"resulting_stack"` // 成功後的籌碼量 (補碼為 RebuyStack，增購為現有籌碼加上 AddOnStack)
}

func Denied(reason Reason) Verdict {
	return Verdict{Allowed: false, Reason: reason}
}

func (in Input) isOpen() bool {
	return in.Status.IsPlaying() || (in.LateRegistrationOpen && !in.Status.IsEnded())
}

/*
EvaluateRebuy 判斷玩家是否可補碼
  - 檢查順序 (第一個失敗的條件為拒絕原因):
    1. 賽事在報名或進行中
    2. AllowRebuys
    3. 玩家未淘汰，且籌碼歸零 (AllowDoubleUpRebuy 時不限籌碼)
    4. RebuyLimitType 限制
  - 未知的 RebuyLimitType 為設定錯誤
*/
func EvaluateRebuy(in Input) (Verdict, error) {
	if !in.isOpen() {
		return Denied(Reason_TournamentNotOpen), nil
	}

	if !in.Config.AllowRebuys {
		return Denied(Reason_RebuysDisabled), nil
	}

	if in.Player.IsEliminated {
		return Denied(Reason_PlayerEliminated), nil
	}

	if in.Player.CurrentStack > 0 && !in.Config.AllowDoubleUpRebuy {
		return Denied(Reason_NotBusted), nil
	}

	exceeded, err := in.rebuyLimitExceeded()
	if err != nil {
		return Verdict{}, err
	}
	if exceeded {
		return Denied(Reason_LimitExceeded), nil
	}

	net, err := payout.NetRebuy(in.Config)
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		Allowed:        true,
		Cost:           in.Config.EffectiveRebuyPrice(),
		NetToPool:      net,
		ResultingStack: in.Config.EffectiveRebuyStack(),
	}, nil
}

/*
EvaluateAddOn 判斷玩家是否可增購
  - 只在 AddOnAtLevel 等級可增購，每位玩家限一次
*/
func EvaluateAddOn(in Input) (Verdict, error) {
	if !in.Status.IsPlaying() {
		return Denied(Reason_TournamentNotOpen), nil
	}

	if !in.Config.AllowAddOn {
		return Denied(Reason_AddOnDisabled), nil
	}

	if in.Player.IsEliminated {
		return Denied(Reason_PlayerEliminated), nil
	}

	if in.CurrentLevel != in.Config.AddOnAtLevel {
		return Denied(Reason_WrongLevel), nil
	}

	if in.Player.HasAddOn {
		return Denied(Reason_AddOnAlreadyTaken), nil
	}

	net, err := payout.NetAddOn(in.Config)
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		Allowed:        true,
		Cost:           in.Config.AddOnPrice,
		NetToPool:      net,
		ResultingStack: in.Player.CurrentStack + in.Config.AddOnStack,
	}, nil
}

func (in Input) rebuyLimitExceeded() (bool, error) {
	c := in.Config

	switch c.RebuyLimitType {
	case model.RebuyLimitType_ByNumber:
		return in.byNumberExceeded(), nil
	case model.RebuyLimitType_ByLevel:
		return in.byLevelExceeded(), nil
	case model.RebuyLimitType_ByPeriod:
		return in.byPeriodExceeded(), nil
	case model.RebuyLimitType_UntilXPlayersLeft:
		return in.untilPlayersLeftExceeded(), nil
	case model.RebuyLimitType_Combined:
		// 只檢查有設定參數的條件
		if c.MaxRebuysPerPlayer > 0 && in.byNumberExceeded() {
			return true, nil
		}
		if c.RebuyMaxLevel > 0 && in.byLevelExceeded() {
			return true, nil
		}
		if c.RebuyPeriodMonths > 0 && c.MaxRebuysPerPlayer > 0 && in.byPeriodExceeded() {
			return true, nil
		}
		if c.RebuyUntilPlayersLeft > 0 && in.untilPlayersLeftExceeded() {
			return true, nil
		}
		return false, nil
	case model.RebuyLimitType_Unlimited:
		return false, nil
	}

	return false, apperr.Configuration("unknown rebuy limit type %q", c.RebuyLimitType)
}

func (in Input) byNumberExceeded() bool {
	return in.Player.RebuyCount >= in.Config.MaxRebuysPerPlayer
}

func (in Input) byLevelExceeded() bool {
	return in.CurrentLevel > in.Config.RebuyMaxLevel
}

func (in Input) byPeriodExceeded() bool {
	return CountInTrailingMonths(in.History, in.Now, in.Config.RebuyPeriodMonths) >= in.Config.MaxRebuysPerPlayer
}

func (in Input) untilPlayersLeftExceeded() bool {
	return in.PlayersRemaining < in.Config.RebuyUntilPlayersLeft
}

// CountInTrailingMonths counts rebuys dated within (now - months, now].
func CountInTrailingMonths(history []model.PlayerRebuy, now time.Time, months int) int {
	windowStart := now.AddDate(0, -months, 0)
	count := 0
	for _, r := range history {
		if r.RebuyDate.After(windowStart) && !r.RebuyDate.After(now) {
			count++
		}
	}
	return count
}
