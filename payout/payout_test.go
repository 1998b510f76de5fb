package payout

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payload"
)

func mustStructure(t *testing.T, raw string) payload.PayoutStructure {
	ps, ok := payload.ParsePayoutStructure(raw)
	require.True(t, ok, raw)
	return ps
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestRakeOf(t *testing.T) {
	c := model.TournamentConfig{BuyIn: dec("100"), Rake: dec("10"), RakeType: model.RakeType_Percentage}
	rake, err := RakeOf(c, c.BuyIn)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(rake))

	net, err := NetBuyIn(c)
	require.NoError(t, err)
	assert.True(t, dec("90").Equal(net))

	c.RakeType = model.RakeType_Fixed
	c.Rake = dec("15")
	net, _ = NetBuyIn(c)
	assert.True(t, dec("85").Equal(net))

	c.Rake = dec("150")
	_, err = NetBuyIn(c)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))

	c.RakeType = "tithe"
	c.Rake = dec("1")
	_, err = NetBuyIn(c)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestCompute_PercentageScenario(t *testing.T) {
	ps := mustStructure(t, `{"type":"percentage","positions":{"1":50,"2":30,"3":20}}`)

	amounts, err := Compute(ps, 10, dec("1000"), 2)
	require.NoError(t, err)
	assert.Len(t, amounts, 3)
	assert.True(t, dec("500").Equal(amounts[1]))
	assert.True(t, dec("300").Equal(amounts[2]))
	assert.True(t, dec("200").Equal(amounts[3]))
}

func TestCompute_RoundingResidueGoesToFirst(t *testing.T) {
	ps := mustStructure(t, `{"type":"percentage","positions":{"1":33.34,"2":33.33,"3":33.33}}`)

	amounts, err := Compute(ps, 9, dec("100.01"), 2)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, amount := range amounts {
		sum = sum.Add(amount)
	}
	assert.True(t, dec("100.01").Equal(sum), sum.String())
	assert.True(t, dec("33.33").Equal(amounts[2]))
}

func TestCompute_PartialPercentageStaysBelowPool(t *testing.T) {
	ps := mustStructure(t, `{"type":"percentage","positions":{"1":60,"2":20}}`)

	amounts, err := Compute(ps, 5, dec("1000"), 2)
	require.NoError(t, err)
	assert.True(t, dec("600").Equal(amounts[1]))
	assert.True(t, dec("200").Equal(amounts[2]))
}

func TestCompute_PercentageOver100(t *testing.T) {
	ps := mustStructure(t, `{"type":"percentage","positions":{"1":70,"2":40}}`)

	_, err := Compute(ps, 5, dec("1000"), 2)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestCompute_Fixed(t *testing.T) {
	ps := mustStructure(t, `{"type":"fixed","positions":{"1":"600","2":"300"}}`)

	amounts, err := Compute(ps, 6, dec("1000"), 2)
	require.NoError(t, err)
	assert.True(t, dec("600").Equal(amounts[1]))
	assert.True(t, dec("300").Equal(amounts[2]))

	_, err = Compute(ps, 6, dec("800"), 2)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestCompute_TierSelection(t *testing.T) {
	ps := mustStructure(t, `[
		{"type":"percentage","min_players":2,"positions":{"1":100}},
		{"type":"percentage","min_players":10,"positions":{"1":50,"2":30,"3":20}}
	]`)

	amounts, err := Compute(ps, 9, dec("900"), 2)
	require.NoError(t, err)
	assert.Len(t, amounts, 1)
	assert.True(t, dec("900").Equal(amounts[1]))

	amounts, err = Compute(ps, 10, dec("1000"), 2)
	require.NoError(t, err)
	assert.Len(t, amounts, 3)

	_, err = Compute(ps, 1, dec("100"), 2)
	assert.True(t, errors.Is(err, apperr.ErrStructureNotApplicable))
}

func TestCompute_PositionsBeyondEntrantsAreNotPaid(t *testing.T) {
	ps := mustStructure(t, `{"type":"percentage","positions":{"1":50,"2":30,"3":20}}`)

	amounts, err := Compute(ps, 2, dec("200"), 2)
	require.NoError(t, err)
	assert.Len(t, amounts, 2)
	assert.True(t, dec("100").Equal(amounts[1]))
	assert.True(t, dec("60").Equal(amounts[2]))
}

func TestDistribution(t *testing.T) {
	ps := mustStructure(t, `{"type":"fixed","positions":{"1":"750","2":"250"}}`)

	d, err := Distribution(ps, 4, dec("1000"))
	require.NoError(t, err)
	assert.True(t, dec("75").Equal(d[1]))
	assert.True(t, dec("25").Equal(d[2]))
}

func newTournament(players int) *model.Tournament {
	t := &model.Tournament{
		ID:     1,
		Status: model.TournamentStatus_Running,
		Config: model.TournamentConfig{
			BuyIn:               dec("100"),
			PayoutStructureJSON: `{"type":"percentage","positions":{"1":50,"2":30,"3":20}}`,
		},
		TotalPrizePool: dec("100").Mul(decimal.NewFromInt(int64(players))),
	}
	for i := 1; i <= players; i++ {
		t.Players = append(t.Players, &model.TournamentPlayer{
			PlayerID:     int64(i),
			CurrentStack: 10000,
		})
	}
	return t
}

func TestEliminate(t *testing.T) {
	tour := newTournament(4)
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	by := int64(2)

	r, err := Eliminate(tour, 1, &by, now)
	require.NoError(t, err)
	assert.Equal(t, 4, r.FinishPosition)

	victim := tour.FindPlayer(1)
	assert.True(t, victim.IsEliminated)
	assert.Equal(t, int64(0), victim.CurrentStack)
	assert.Equal(t, int64(2), *victim.EliminatedByPlayerID)
	assert.Equal(t, now, *victim.EliminationTime)
	assert.Equal(t, 1, tour.FindPlayer(2).BountyKills)

	r, err = Eliminate(tour, 3, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 3, r.FinishPosition)
	assert.Nil(t, r.EliminatedBy)
}

func TestEliminate_Rejections(t *testing.T) {
	tour := newTournament(2)
	now := time.Now()

	self := int64(1)
	_, err := Eliminate(tour, 1, &self, now)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	ghost := int64(99)
	_, err = Eliminate(tour, 1, &ghost, now)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = Eliminate(tour, 99, nil, now)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = Eliminate(tour, 1, nil, now)
	require.NoError(t, err)

	_, err = Eliminate(tour, 1, nil, now)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition), "already eliminated")

	_, err = Eliminate(tour, 2, nil, now)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition), "last player")

	finished := newTournament(3)
	finished.Status = model.TournamentStatus_Finished
	_, err = Eliminate(finished, 1, nil, now)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestAssignFinalPositions_ForcedFinish(t *testing.T) {
	tour := newTournament(5)
	now := time.Now()

	_, err := Eliminate(tour, 5, nil, now)
	require.NoError(t, err)

	tour.FindPlayer(1).CurrentStack = 8000
	tour.FindPlayer(2).CurrentStack = 12000
	tour.FindPlayer(3).CurrentStack = 8000
	tour.FindPlayer(4).CurrentStack = 20000

	AssignFinalPositions(tour)

	assert.Equal(t, 1, *tour.FindPlayer(4).FinishPosition)
	assert.Equal(t, 2, *tour.FindPlayer(2).FinishPosition)
	assert.Equal(t, 3, *tour.FindPlayer(1).FinishPosition)
	assert.Equal(t, 4, *tour.FindPlayer(3).FinishPosition)
	assert.Equal(t, 5, *tour.FindPlayer(5).FinishPosition)
	assert.NoError(t, ValidateFinishPositions(tour))
}

func TestValidateFinishPositions(t *testing.T) {
	tour := newTournament(2)
	assert.True(t, errors.Is(ValidateFinishPositions(tour), apperr.ErrDataIntegrity))

	one := 1
	tour.Players[0].FinishPosition = &one
	tour.Players[1].FinishPosition = &one
	assert.True(t, errors.Is(ValidateFinishPositions(tour), apperr.ErrDataIntegrity))
}

func TestApplyPayouts(t *testing.T) {
	tour := newTournament(10)
	now := time.Now()

	for id := int64(10); id >= 2; id-- {
		_, err := Eliminate(tour, id, nil, now)
		require.NoError(t, err)
	}
	AssignFinalPositions(tour)

	amounts, err := ApplyPayouts(tour)
	require.NoError(t, err)
	assert.Len(t, amounts, 3)
	assert.True(t, dec("500").Equal(tour.FindPlayer(1).Winnings))
	assert.True(t, dec("300").Equal(tour.FindPlayer(2).Winnings))
	assert.True(t, dec("200").Equal(tour.FindPlayer(3).Winnings))
	assert.True(t, tour.FindPlayer(4).Winnings.IsZero())
}

func TestApplyPayouts_MalformedStructureMeansNoPayout(t *testing.T) {
	tour := newTournament(3)
	tour.Config.PayoutStructureJSON = "{broken"
	AssignFinalPositions(tour)

	amounts, err := ApplyPayouts(tour)
	require.NoError(t, err)
	assert.Empty(t, amounts)
	for _, p := range tour.Players {
		assert.True(t, p.Winnings.IsZero())
	}
}

func TestBounty_Fixed(t *testing.T) {
	tour := newTournament(3)
	tour.Config.BountyType = model.BountyType_Fixed
	tour.Config.BountyAmount = dec("25")

	assert.True(t, dec("125").Equal(EntryCost(tour.Config)))

	by := int64(1)
	r, err := Eliminate(tour, 3, &by, time.Now())
	require.NoError(t, err)
	assert.True(t, dec("25").Equal(r.BountyCollected))
	assert.True(t, dec("25").Equal(tour.FindPlayer(1).BountyWinnings))
	assert.True(t, tour.FindPlayer(1).Winnings.IsZero(), "bounties are tracked apart from winnings")
}

func TestBounty_Progressive(t *testing.T) {
	tour := newTournament(4)
	tour.Config.BountyType = model.BountyType_Progressive
	tour.Config.BountyAmount = dec("20")
	tour.Config.BountyIncrement = dec("5")
	for _, p := range tour.Players {
		p.CurrentBounty = InitialBounty(tour.Config)
	}

	by := int64(1)
	r, err := Eliminate(tour, 4, &by, time.Now())
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(r.BountyCollected))

	assert.True(t, tour.FindPlayer(4).CurrentBounty.IsZero())
	assert.True(t, dec("25").Equal(tour.FindPlayer(1).CurrentBounty))
	assert.True(t, dec("25").Equal(tour.FindPlayer(2).CurrentBounty))
	assert.True(t, dec("25").Equal(tour.FindPlayer(3).CurrentBounty))

	r, err = Eliminate(tour, 3, &by, time.Now())
	require.NoError(t, err)
	assert.True(t, dec("25").Equal(r.BountyCollected))
	assert.True(t, dec("45").Equal(tour.FindPlayer(1).BountyWinnings))
	assert.Equal(t, 2, tour.FindPlayer(1).BountyKills)
}

func TestBounty_None(t *testing.T) {
	tour := newTournament(3)
	assert.True(t, InitialBounty(tour.Config).IsZero())
	assert.True(t, dec("100").Equal(EntryCost(tour.Config)))

	by := int64(2)
	r, err := Eliminate(tour, 1, &by, time.Now())
	require.NoError(t, err)
	assert.True(t, r.BountyCollected.IsZero())
	assert.Equal(t, 1, tour.FindPlayer(2).BountyKills)
}
