package pokertournament

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/audit"
	"github.com/weedbox/pokertournament/clock"
	"github.com/weedbox/pokertournament/eligibility"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payload"
	"github.com/weedbox/pokertournament/payout"
	"github.com/weedbox/pokertournament/seat_manager"
)

// errDenied rolls back an operation whose eligibility verdict was negative.
var errDenied = errors.New("tournament: request denied")

func validateConfig(c model.TournamentConfig) error {
	if c.SeatsPerTable < 2 {
		return apperr.Configuration("seats per table %d must be at least 2", c.SeatsPerTable)
	}

	if c.StartingStack <= 0 {
		return apperr.Configuration("starting stack %d must be positive", c.StartingStack)
	}

	if c.BuyIn.IsNegative() {
		return apperr.Configuration("buy-in %s must not be negative", c.BuyIn)
	}

	if _, err := payout.NetBuyIn(c); err != nil {
		return err
	}

	switch c.BountyType {
	case "", model.BountyType_None, model.BountyType_Fixed, model.BountyType_Progressive:
	default:
		return apperr.Configuration("unknown bounty type %q", c.BountyType)
	}

	if c.AllowAddOn && c.AddOnAtLevel <= 0 {
		return apperr.Configuration("add-on level %d must be positive", c.AddOnAtLevel)
	}

	return nil
}

/*
apply 在賽事副本上執行操作
  - 成功時替換賽事並發出更新事件
  - 失敗時賽事維持原狀
*/
func (te *tournamentEngine) apply(eventName string, playerID int64, description string, fn func(t *model.Tournament) error) error {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return ErrTournamentNotCreated
	}

	before := te.tournament
	clone := before.Clone()
	if err := fn(clone); err != nil {
		if err != errDenied {
			te.emitErrorEvent(eventName, playerID, err)
		}
		return err
	}

	te.tournament = clone
	te.emitEvent(eventName, playerID)
	te.record(eventName, description, before, te.tournament)
	return nil
}

// record appends an audit entry, failures are logged only.
func (te *tournamentEngine) record(action string, description string, before interface{}, after *model.Tournament) {
	r, err := audit.NewRecord(audit.Kind_Tournament, after.ID, te.options.Username, action, description, before, after)
	if err != nil {
		te.logger.Warn().Err(err).Str("action", action).Msg("audit record encode failed")
		return
	}

	if err := te.sink.Append(context.Background(), r); err != nil {
		te.logger.Warn().Err(err).Str("action", action).Msg("audit record append failed")
	}
}

func (te *tournamentEngine) tournamentID() int64 {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return 0
	}
	return te.tournament.ID
}

func (te *tournamentEngine) emitClockEvents(events []clock.Event) {
	for _, e := range events {
		te.logger.Info().
			Int64("tournament_id", te.tournament.ID).
			Str("event", string(e.Type)).
			Int("level", e.Level.LevelNumber).
			Int("previous_level", e.PreviousLevel).
			Msg("clock event")
		te.onClockEvent(te.tournament, e)
	}
}

// openMoves publishes seat moves and waits for the moved players to confirm.
func (te *tournamentEngine) openMoves(moves []*seat_manager.Move) {
	if len(moves) == 0 {
		return
	}

	te.lock.Lock()
	batchID := te.tournament.UpdateSerial
	te.onSeatsMoved(te.tournament, moves)
	te.lock.Unlock()

	te.mm.Open(batchID, moves)
}

func (te *tournamentEngine) eligibilityInput(t *model.Tournament, playerID int64) (eligibility.Input, error) {
	p := t.FindPlayer(playerID)
	if p == nil {
		return eligibility.Input{}, ErrTournamentPlayerNotFound
	}

	history := make([]model.PlayerRebuy, 0)
	history = append(history, te.rebuyHistory(playerID)...)
	history = append(history, t.PlayerRebuys(playerID)...)
	return eligibility.Input{
		Config:               t.Config,
		Status:               t.Status,
		CurrentLevel:         t.CurrentLevel,
		LateRegistrationOpen: clock.IsLateRegistrationOpen(t),
		PlayersRemaining:     len(t.RemainingPlayers()),
		Player:               *p,
		History:              history,
		Now:                  te.now(),
	}, nil
}

func seatAndBalance(t *model.Tournament, playerID int64) ([]*seat_manager.Move, error) {
	sm, err := seat_manager.NewSeatManager(t)
	if err != nil {
		return nil, err
	}

	if _, err := sm.SeatPlayer(playerID); err != nil {
		return nil, err
	}

	return balanceAndValidate(sm)
}

func releaseAndBalance(t *model.Tournament, playerID int64) ([]*seat_manager.Move, error) {
	sm, err := seat_manager.NewSeatManager(t)
	if err != nil {
		return nil, err
	}

	if err := sm.Release(playerID); err != nil {
		return nil, err
	}

	return balanceAndValidate(sm)
}

func balanceAndValidate(sm seat_manager.SeatManager) ([]*seat_manager.Move, error) {
	moves, err := sm.Balance()
	if err != nil {
		return nil, err
	}

	if err := sm.Validate(); err != nil {
		return nil, err
	}
	return moves, nil
}

func removePlayer(players []*model.TournamentPlayer, playerID int64) []*model.TournamentPlayer {
	kept := make([]*model.TournamentPlayer, 0, len(players))
	for _, p := range players {
		if p.PlayerID != playerID {
			kept = append(kept, p)
		}
	}
	return kept
}

// BuildResult summarizes a tournament for championship scoring.
func BuildResult(t *model.Tournament) *model.TournamentResult {
	r := &model.TournamentResult{
		TournamentID:      t.ID,
		Entrants:          len(t.Players),
		PrizePool:         t.TotalPrizePool,
		PrizeDistribution: map[int]decimal.Decimal{},
		Players:           make([]model.ResultPlayer, 0, len(t.Players)),
	}

	if t.FinishedAt != nil {
		r.PlayedAt = *t.FinishedAt
	}

	if ps, ok := payload.ParsePayoutStructure(t.Config.PayoutStructureJSON); ok {
		if dist, err := payout.Distribution(ps, r.Entrants, t.TotalPrizePool); err == nil {
			r.PrizeDistribution = dist
		}
	}

	for _, p := range t.Players {
		position := 0
		if p.FinishPosition != nil {
			position = *p.FinishPosition
		}
		r.Players = append(r.Players, model.ResultPlayer{
			PlayerID:       p.PlayerID,
			FinishPosition: position,
			BountyKills:    p.BountyKills,
			RebuyCount:     p.RebuyCount,
			HasAddOn:       p.HasAddOn,
			Winnings:       p.Winnings,
			TotalCost:      p.TotalCost,
		})
	}

	sort.Slice(r.Players, func(i, j int) bool {
		return r.Players[i].FinishPosition < r.Players[j].FinishPosition
	})
	return r
}
