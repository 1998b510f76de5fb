package main

import (
	"context"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pokertournament "github.com/weedbox/pokertournament"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/config"
	"github.com/weedbox/pokertournament/logger"
	"github.com/weedbox/pokertournament/storage/sqlite"
)

type app struct {
	cfg    config.Config
	logger zerolog.Logger
	store  *sqlite.Store
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "pokertournament",
		Short:         "Poker tournament clock, payouts and championship standings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newTournamentCmd(a),
		newClockCmd(a),
		newPayoutsCmd(a),
		newStandingsCmd(a),
	)

	return root
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log
	a.store = store
	return nil
}

// close is safe before init, the store may be nil.
func (a *app) close() error {
	return a.store.Close()
}

func (a *app) engineOptions() *pokertournament.TournamentEngineOptions {
	options := pokertournament.NewTournamentEngineOptions()
	options.TickInterval = a.cfg.TickInterval
	options.MoveConfirmTimeout = a.cfg.MoveConfirmTimeout
	options.Username = a.cfg.Username
	return options
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Configuration("invalid id %q", arg)
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	return err
}
