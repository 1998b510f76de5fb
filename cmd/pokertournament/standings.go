package main

import (
	"github.com/spf13/cobra"
	pokertournament "github.com/weedbox/pokertournament"
	"github.com/weedbox/pokertournament/championship"
)

func newStandingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Championship standings",
	}

	cmd.AddCommand(newStandingsRecomputeCmd(a), newStandingsShowCmd(a))
	return cmd
}

func newStandingsRecomputeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <championship-id>",
		Short: "Recompute standings from finished tournaments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			championshipID, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc := championship.NewService(championship.WithLogger(a.logger))
			c, err := pokertournament.RecomputeStandings(cmd.Context(), a.store, svc, championshipID)
			if err != nil {
				return err
			}
			return printJSON(cmd, c.Standings)
		},
	}
}

func newStandingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <championship-id>",
		Short: "Print stored standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			championshipID, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := a.store.GetChampionship(cmd.Context(), championshipID)
			if err != nil {
				return err
			}
			return printJSON(cmd, c.Standings)
		},
	}
}
