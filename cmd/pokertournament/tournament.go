package main

import (
	"github.com/spf13/cobra"
	pokertournament "github.com/weedbox/pokertournament"
)

func newTournamentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Manage tournaments",
	}

	cmd.AddCommand(newTournamentCreateCmd(a), newTournamentShowCmd(a))
	return cmd
}

/*
tournament create 由模板建立賽事
  - 複製模板設定與盲注結構
  - --open 時直接開放報名
*/
func newTournamentCreateCmd(a *app) *cobra.Command {
	var (
		name       string
		templateID int64
		open       bool
	)

	cmd := &cobra.Command{
		Use:   "create <tournament-id>",
		Short: "Create a tournament from a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tournamentID, err := parseID(args[0])
			if err != nil {
				return err
			}

			template, err := a.store.GetTemplate(ctx, templateID)
			if err != nil {
				return err
			}

			structure, err := a.store.GetBlindStructure(ctx, template.BlindStructureID)
			if err != nil {
				return err
			}

			te := pokertournament.NewTournamentEngine(a.engineOptions(),
				pokertournament.WithLogger(a.logger),
				pokertournament.WithAuditSink(a.store),
			)

			if _, err := te.CreateTournament(pokertournament.TournamentSetting{
				TournamentID:   tournamentID,
				Name:           name,
				Template:       template,
				BlindStructure: structure,
			}); err != nil {
				return err
			}

			if open {
				if err := te.OpenRegistration(); err != nil {
					return err
				}
			}

			t := te.GetTournament()
			if err := a.store.SaveTournament(ctx, t); err != nil {
				return err
			}
			return printJSON(cmd, t)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "tournament name")
	cmd.Flags().Int64Var(&templateID, "template", 0, "tournament template id")
	cmd.Flags().BoolVar(&open, "open", false, "open registration after create")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func newTournamentShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tournament-id>",
		Short: "Print a stored tournament",
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
			return printJSON(cmd, t)
		},
	}
}
