package pokertournament

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/weedbox/timebank"
)

var ErrTickerStopped = errors.New("ticker: already stopped")

// Ticker polls a tournament clock until the tournament has ended.
type Ticker struct {
	mu       sync.Mutex
	engine   TournamentEngine
	interval time.Duration
	logger   zerolog.Logger
	tb       *timebank.TimeBank
	running  bool
	stopped  bool
	done     chan struct{}
}

func NewTicker(engine TournamentEngine, interval time.Duration, logger zerolog.Logger) *Ticker {
	if interval <= 0 {
		interval = NewTournamentEngineOptions().TickInterval
	}

	return &Ticker{
		engine:   engine,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

/*
Start 開始輪詢
  - 賽事結束或取消時自動停止
*/
func (tk *Ticker) Start() error {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if tk.stopped {
		return ErrTickerStopped
	}

	if tk.running {
		return nil
	}

	tk.running = true
	return tk.schedule()
}

// Stop cancels the pending tick, Done is closed once.
func (tk *Ticker) Stop() {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	tk.stop()
}

// Done is closed when the ticker stops.
func (tk *Ticker) Done() <-chan struct{} {
	return tk.done
}

func (tk *Ticker) schedule() error {
	tk.tb = timebank.NewTimeBank()
	return tk.tb.NewTask(tk.interval, func(isCancelled bool) {
		if isCancelled {
			return
		}

		tk.tick()
	})
}

func (tk *Ticker) tick() {
	if _, err := tk.engine.Tick(); err != nil {
		tk.logger.Error().Err(err).Msg("tick failed")
	}

	tk.mu.Lock()
	defer tk.mu.Unlock()

	if !tk.running {
		return
	}

	t := tk.engine.GetTournament()
	if t == nil || t.Status.IsEnded() {
		tk.logger.Info().Msg("tournament ended, ticker stopped")
		tk.stop()
		return
	}

	if err := tk.schedule(); err != nil {
		tk.logger.Error().Err(err).Msg("tick schedule failed")
		tk.stop()
	}
}

func (tk *Ticker) stop() {
	if !tk.running {
		return
	}

	tk.running = false
	tk.stopped = true
	tk.tb.Cancel()
	close(tk.done)
}
