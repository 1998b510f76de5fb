package clock

import (
	"time"

	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/blind"
	"github.com/weedbox/pokertournament/model"
)

type EventType string

const (
	EventType_LevelChanged EventType = "level_changed"
	EventType_BreakStarted EventType = "break_started"
	EventType_BreakEnded   EventType = "break_ended"
)

type Event struct {
	Type          EventType        `json:"type"`
	Level         model.BlindLevel `json:"level"`
	PreviousLevel int              `json:"previous_level"`
	At            time.Time        `json:"at"`
}

/*
OpenRegistration 開放報名
  - pending -> registration
*/
func OpenRegistration(t *model.Tournament) error {
	if t.Status != model.TournamentStatus_Pending {
		return invalid(t, "open registration")
	}

	t.Status = model.TournamentStatus_Registration
	return nil
}

/*
Start 開始計時
  - registration -> running
  - 從盲注表第一個等級開始
*/
func Start(t *model.Tournament, now time.Time) error {
	if t.Status != model.TournamentStatus_Registration {
		return invalid(t, "start")
	}

	if len(t.Levels) == 0 {
		return apperr.Configuration("tournament %d has no blind levels", t.ID)
	}

	startedAt := now
	t.Status = model.TournamentStatus_Running
	t.StartedAt = &startedAt
	t.CurrentLevelIndex = 0
	t.CurrentLevel = t.Levels[0].LevelNumber
	t.CurrentLevelStartTime = now
	t.PausedElapsed = 0
	return nil
}

/*
Pause 暫停
  - running -> paused
  - 記錄當前等級已經過時間，恢復時剩餘時間不變
*/
func Pause(t *model.Tournament, now time.Time) error {
	if t.Status != model.TournamentStatus_Running {
		return invalid(t, "pause")
	}

	t.PausedElapsed = Elapsed(t, now)
	t.Status = model.TournamentStatus_Paused
	return nil
}

/*
Resume 恢復計時
  - paused -> running
*/
func Resume(t *model.Tournament, now time.Time) error {
	if t.Status != model.TournamentStatus_Paused {
		return invalid(t, "resume")
	}

	t.CurrentLevelStartTime = now.Add(-t.PausedElapsed)
	t.PausedElapsed = 0
	t.Status = model.TournamentStatus_Running
	return nil
}

/*
Tick 依據牆上時間更新盲注等級
  - 只在 running 狀態下作用
  - 以 CurrentLevelStartTime 計算經過時間，漏掉的 tick 會在下一次補上 (可能一次跨越多個等級)
  - 最後一個等級會一直維持，不會自動結束賽事
*/
func Tick(t *model.Tournament, now time.Time) []Event {
	events := make([]Event, 0)
	if t.Status != model.TournamentStatus_Running {
		return events
	}

	for !blind.IsFinalLevel(t.Levels, t.CurrentLevelIndex) {
		level := t.Levels[t.CurrentLevelIndex]
		levelEndAt := t.CurrentLevelStartTime.Add(blind.Duration(level))
		if now.Before(levelEndAt) {
			break
		}

		events = append(events, advance(t, levelEndAt)...)
	}

	return events
}

/*
AdvanceLevel 手動跳到下一個盲注等級
  - running / paused 狀態可用
  - 新等級從 now 開始計時
*/
func AdvanceLevel(t *model.Tournament, now time.Time) ([]Event, error) {
	if !t.Status.IsPlaying() {
		return nil, invalid(t, "advance level")
	}

	if blind.IsFinalLevel(t.Levels, t.CurrentLevelIndex) {
		return nil, apperr.InvalidTransition("tournament %d is already on the final level", t.ID)
	}

	events := advance(t, now)
	t.PausedElapsed = 0
	return events, nil
}

/*
Finish 結束賽事
  - running / paused -> finished
  - 剩一位玩家時可結束，force 為主持人強制結束
*/
func Finish(t *model.Tournament, now time.Time, force bool) error {
	if !t.Status.IsPlaying() {
		return invalid(t, "finish")
	}

	if !force && len(t.RemainingPlayers()) != 1 {
		return apperr.InvalidTransition("tournament %d has %d players remaining", t.ID, len(t.RemainingPlayers()))
	}

	finishedAt := now
	t.PausedElapsed = Elapsed(t, now)
	t.FinishedAt = &finishedAt
	t.Status = model.TournamentStatus_Finished
	return nil
}

/*
Cancel 取消賽事
  - 除了 finished 以外任何狀態皆可取消
*/
func Cancel(t *model.Tournament, now time.Time) error {
	if t.Status.IsEnded() {
		return invalid(t, "cancel")
	}

	finishedAt := now
	t.PausedElapsed = Elapsed(t, now)
	t.FinishedAt = &finishedAt
	t.Status = model.TournamentStatus_Cancelled
	return nil
}

// Elapsed returns the time spent on the current level.
func Elapsed(t *model.Tournament, now time.Time) time.Duration {
	switch t.Status {
	case model.TournamentStatus_Running:
		return now.Sub(t.CurrentLevelStartTime)
	case model.TournamentStatus_Paused, model.TournamentStatus_Finished, model.TournamentStatus_Cancelled:
		return t.PausedElapsed
	}
	return 0
}

func TimeRemaining(t *model.Tournament, now time.Time) time.Duration {
	level, ok := t.CurrentBlindLevel()
	if !ok || t.StartedAt == nil {
		return 0
	}

	remaining := blind.Duration(level) - Elapsed(t, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

/*
IsLateRegistrationOpen 是否仍可延遲報名
  - registration: 可報名
  - running / paused: CurrentLevel <= LateRegistrationLevels
*/
func IsLateRegistrationOpen(t *model.Tournament) bool {
	switch t.Status {
	case model.TournamentStatus_Registration:
		return true
	case model.TournamentStatus_Running, model.TournamentStatus_Paused:
		return t.CurrentLevel <= t.Config.LateRegistrationLevels
	}
	return false
}

func advance(t *model.Tournament, startAt time.Time) []Event {
	previous := t.Levels[t.CurrentLevelIndex]
	t.CurrentLevelIndex++
	t.CurrentLevel = t.Levels[t.CurrentLevelIndex].LevelNumber
	t.CurrentLevelStartTime = startAt

	current := t.Levels[t.CurrentLevelIndex]
	events := []Event{
		{Type: EventType_LevelChanged, Level: current, PreviousLevel: previous.LevelNumber, At: startAt},
	}
	if previous.IsBreak && !current.IsBreak {
		events = append(events, Event{Type: EventType_BreakEnded, Level: current, PreviousLevel: previous.LevelNumber, At: startAt})
	}
	if current.IsBreak {
		events = append(events, Event{Type: EventType_BreakStarted, Level: current, PreviousLevel: previous.LevelNumber, At: startAt})
	}
	return events
}

func invalid(t *model.Tournament, action string) error {
	return apperr.InvalidTransition("tournament %d: cannot %s while %s", t.ID, action, t.Status)
}
