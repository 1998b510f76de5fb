package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pokertournament "github.com/weedbox/pokertournament"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/audit"
	"github.com/weedbox/pokertournament/blind"
	"github.com/weedbox/pokertournament/clock"
	"github.com/weedbox/pokertournament/model"
)

func newClockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Drive a tournament clock",
	}

	cmd.AddCommand(newClockRunCmd(a), newClockStatusCmd(a))
	return cmd
}

/*
clock run 執行賽事計時器
  - 報名中的賽事會先開始計時，暫停中的賽事會先恢復
  - 每次更新都寫回資料庫
  - 賽事結束或收到中斷訊號時停止
*/
func newClockRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <tournament-id>",
		Short: "Run the blind clock until the tournament ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.runClock(ctx, tournamentID)
		},
	}
}

func (a *app) runClock(ctx context.Context, tournamentID int64) error {
	t, err := a.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}

	if t.Status.IsEnded() || t.Status == model.TournamentStatus_Pending {
		return apperr.InvalidTransition("tournament %d is %s", tournamentID, t.Status)
	}

	log := a.logger.With().Int64("tournament_id", tournamentID).Logger()
	te := pokertournament.NewTournamentEngine(a.engineOptions(),
		pokertournament.WithTournament(t),
		pokertournament.WithLogger(log),
		pokertournament.WithAuditSink(audit.Fanout{a.store, audit.NewLoggerSink(log)}),
		pokertournament.WithRebuyHistory(pokertournament.StoredRebuyHistory(ctx, a.store, tournamentID, log)),
	)

	// 以背景 context 寫入，中斷訊號後仍保留最後狀態
	te.OnTournamentUpdated(func(t *model.Tournament) {
		if err := a.store.SaveTournament(context.Background(), t); err != nil {
			log.Error().Err(err).Msg("save tournament failed")
		}
	})
	te.OnClockEvent(func(t *model.Tournament, e clock.Event) {
		log.Info().
			Str("event", string(e.Type)).
			Int("level", e.Level.LevelNumber).
			Int64("small_blind", e.Level.SmallBlind).
			Int64("big_blind", e.Level.BigBlind).
			Msg("level update")
	})

	switch t.Status {
	case model.TournamentStatus_Registration:
		err = te.Start()
	case model.TournamentStatus_Paused:
		err = te.Resume()
	}
	if err != nil {
		return err
	}

	ticker := pokertournament.NewTicker(te, a.cfg.TickInterval, log)
	if err := ticker.Start(); err != nil {
		return err
	}

	select {
	case <-ticker.Done():
	case <-ctx.Done():
		ticker.Stop()
		log.Info().Msg("clock interrupted")
	}

	return nil
}

type levelSchedule struct {
	LevelNumber int       `json:"level_number"`
	SmallBlind  int64     `json:"small_blind"`
	BigBlind    int64     `json:"big_blind"`
	Ante        int64     `json:"ante"`
	IsBreak     bool      `json:"is_break"`
	EndAt       time.Time `json:"end_at"`
}

type clockStatus struct {
	TournamentID         int64                  `json:"tournament_id"`
	Status               model.TournamentStatus `json:"status"`
	CurrentLevel         int                    `json:"current_level"`
	TimeRemaining        string                 `json:"time_remaining"`
	LateRegistrationOpen bool                   `json:"late_registration_open"`
	Upcoming             []levelSchedule        `json:"upcoming"`
}

func newClockStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <tournament-id>",
		Short: "Show the current level and the upcoming level end times",
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
			return printJSON(cmd, buildClockStatus(t, time.Now()))
		},
	}
}

// buildClockStatus projects level end times only while the clock is running.
func buildClockStatus(t *model.Tournament, now time.Time) clockStatus {
	status := clockStatus{
		TournamentID:         t.ID,
		Status:               t.Status,
		CurrentLevel:         t.CurrentLevel,
		TimeRemaining:        clock.TimeRemaining(t, now).Round(time.Second).String(),
		LateRegistrationOpen: clock.IsLateRegistrationOpen(t),
		Upcoming:             make([]levelSchedule, 0),
	}

	if t.Status != model.TournamentStatus_Running || t.CurrentLevelIndex >= len(t.Levels) {
		return status
	}

	endAts := blind.LevelEndAts(t.CurrentLevelStartTime, t.Levels, t.CurrentLevelIndex)
	for idx := t.CurrentLevelIndex; idx < len(t.Levels); idx++ {
		level := t.Levels[idx]
		status.Upcoming = append(status.Upcoming, levelSchedule{
			LevelNumber: level.LevelNumber,
			SmallBlind:  level.SmallBlind,
			BigBlind:    level.BigBlind,
			Ante:        level.Ante,
			IsBreak:     level.IsBreak,
			EndAt:       endAts[idx],
		})
	}
	return status
}
