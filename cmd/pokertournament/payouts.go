package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payload"
	"github.com/weedbox/pokertournament/payout"
)

type payoutLine struct {
	Position   int             `json:"position"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
	PlayerID   *int64          `json:"player_id,omitempty"`
}

type payoutReport struct {
	TournamentID int64           `json:"tournament_id"`
	Entrants     int             `json:"entrants"`
	PrizePool    decimal.Decimal `json:"prize_pool"`
	Payouts      []payoutLine    `json:"payouts"`
}

func newPayoutsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "payouts <tournament-id>",
		Short: "Show the prize distribution of a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID, err := parseID(args[0])
			if err != nil {
				return err
			}

			t, err := a.store.GetTournament(cmd.Context(), tournamentID)
			if err != nil {
				return err
			}

			report, err := buildPayoutReport(t)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
}

func buildPayoutReport(t *model.Tournament) (*payoutReport, error) {
	ps, ok := payload.ParsePayoutStructure(t.Config.PayoutStructureJSON)
	if !ok {
		return nil, apperr.Configuration("tournament %d has no payout structure", t.ID)
	}

	entrants := len(t.Players)
	dist, err := payout.Distribution(ps, entrants, t.TotalPrizePool)
	if err != nil {
		return nil, err
	}

	amounts, err := payout.Compute(ps, entrants, t.TotalPrizePool, t.Config.Precision())
	if err != nil {
		return nil, err
	}

	byPosition := make(map[int]int64)
	for _, p := range t.Players {
		if p.FinishPosition != nil {
			byPosition[*p.FinishPosition] = p.PlayerID
		}
	}

	report := &payoutReport{
		TournamentID: t.ID,
		Entrants:     entrants,
		PrizePool:    t.TotalPrizePool,
		Payouts:      make([]payoutLine, 0, len(amounts)),
	}

	for position := 1; position <= entrants; position++ {
		amount, exist := amounts[position]
		if !exist {
			continue
		}

		line := payoutLine{
			Position:   position,
			Percentage: dist[position],
			Amount:     amount,
		}
		if playerID, exist := byPosition[position]; exist {
			id := playerID
			line.PlayerID = &id
		}
		report.Payouts = append(report.Payouts, line)
	}
	return report, nil
}
