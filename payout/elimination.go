package payout

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

type EliminationResult struct {
	PlayerID        int64           `json:"player_id"`
	FinishPosition  int             `json:"finish_position"`
	EliminatedBy    *int64          `json:"eliminated_by,omitempty"`
	BountyCollected decimal.Decimal `json:"bounty_collected"`
}

/*
Eliminate 淘汰玩家
  - 名次 = 淘汰前剩餘人數
  - 最後一位玩家不可被淘汰，需透過 Finish 結束賽事
  - 座位釋放由 seat_manager 處理
*/
func Eliminate(t *model.Tournament, playerID int64, eliminatedBy *int64, now time.Time) (*EliminationResult, error) {
	if !t.Status.IsPlaying() {
		return nil, apperr.InvalidTransition("cannot eliminate while tournament is %s", t.Status)
	}

	victim := t.FindPlayer(playerID)
	if victim == nil {
		return nil, apperr.NotFound("player %d is not registered", playerID)
	}

	if victim.IsEliminated {
		return nil, apperr.InvalidTransition("player %d is already eliminated", playerID)
	}

	remaining := len(t.RemainingPlayers())
	if remaining <= 1 {
		return nil, apperr.InvalidTransition("player %d is the last player remaining", playerID)
	}

	var eliminator *model.TournamentPlayer
	if eliminatedBy != nil {
		if *eliminatedBy == playerID {
			return nil, apperr.InvalidTransition("player %d cannot eliminate themselves", playerID)
		}

		eliminator = t.FindPlayer(*eliminatedBy)
		if eliminator == nil {
			return nil, apperr.NotFound("eliminating player %d is not registered", *eliminatedBy)
		}
		if eliminator.IsEliminated {
			return nil, apperr.InvalidTransition("eliminating player %d is already eliminated", *eliminatedBy)
		}
	}

	collected := CollectBounty(t, victim, eliminator)

	position := remaining
	eliminatedAt := now
	victim.IsEliminated = true
	victim.CurrentStack = 0
	victim.FinishPosition = &position
	victim.EliminationTime = &eliminatedAt
	if eliminatedBy != nil {
		by := *eliminatedBy
		victim.EliminatedByPlayerID = &by
	}

	return &EliminationResult{
		PlayerID:        playerID,
		FinishPosition:  position,
		EliminatedBy:    victim.EliminatedByPlayerID,
		BountyCollected: collected,
	}, nil
}

// ShiftFinishPositions moves every eliminated player down one place for a late entrant.
func ShiftFinishPositions(t *model.Tournament) {
	for _, p := range t.Players {
		if p.IsEliminated && p.FinishPosition != nil {
			position := *p.FinishPosition + 1
			p.FinishPosition = &position
		}
	}
}

/*
AssignFinalPositions 為剩餘玩家排名
  - 依籌碼由多到少，同籌碼依 PlayerID 由小到大
  - 正常結束時只剩一位玩家 (冠軍)
*/
func AssignFinalPositions(t *model.Tournament) {
	remaining := t.RemainingPlayers()
	sort.SliceStable(remaining, func(i, j int) bool {
		if remaining[i].CurrentStack != remaining[j].CurrentStack {
			return remaining[i].CurrentStack > remaining[j].CurrentStack
		}
		return remaining[i].PlayerID < remaining[j].PlayerID
	})

	for i, p := range remaining {
		position := i + 1
		p.FinishPosition = &position
	}
}

// ValidateFinishPositions checks that positions form a permutation of 1..N.
func ValidateFinishPositions(t *model.Tournament) error {
	seen := make(map[int]int64, len(t.Players))
	for _, p := range t.Players {
		if p.FinishPosition == nil {
			return apperr.DataIntegrity("player %d has no finish position", p.PlayerID)
		}

		position := *p.FinishPosition
		if position < 1 || position > len(t.Players) {
			return apperr.DataIntegrity("player %d has finish position %d out of range", p.PlayerID, position)
		}

		if other, ok := seen[position]; ok {
			return apperr.DataIntegrity("finish position %d shared by players %d and %d", position, other, p.PlayerID)
		}
		seen[position] = p.PlayerID
	}
	return nil
}
