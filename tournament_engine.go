package pokertournament

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/audit"
	"github.com/weedbox/pokertournament/blind"
	"github.com/weedbox/pokertournament/clock"
	"github.com/weedbox/pokertournament/eligibility"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/move_manager"
	"github.com/weedbox/pokertournament/payout"
	"github.com/weedbox/pokertournament/seat_manager"
)

var (
	ErrTournamentNotCreated         = apperr.InvalidTransition("tournament: not created")
	ErrTournamentAlreadyCreated     = apperr.InvalidTransition("tournament: already created")
	ErrTournamentPlayerNotFound     = apperr.NotFound("tournament: player not found")
	ErrTournamentPlayerRegistered   = apperr.InvalidTransition("tournament: player already registered")
	ErrTournamentRegistrationClosed = apperr.InvalidTransition("tournament: registration is closed")
	ErrTournamentNotFinished        = apperr.InvalidTransition("tournament: not finished")
)

type TournamentEngineOpt func(*tournamentEngine)

type TournamentEngine interface {
	// Events
	OnTournamentUpdated(fn func(*model.Tournament))                                  // 賽事更新事件監聽器
	OnTournamentErrorUpdated(fn func(*model.Tournament, error))                      // 錯誤更新事件監聽器
	OnClockEvent(fn func(*model.Tournament, clock.Event))                            // 盲注等級事件監聽器
	OnPlayerEliminated(fn func(*model.Tournament, *payout.EliminationResult))        // 玩家淘汰事件監聽器
	OnSeatsMoved(fn func(*model.Tournament, []*seat_manager.Move))                   // 換桌事件監聽器
	OnMovesConfirmed(fn func(tournamentID int64, state move_manager.MoveBatchState)) // 換桌確認完成監聽器

	// Tournament Actions
	GetTournament() *model.Tournament                                      // 取得賽事快照
	CreateTournament(setting TournamentSetting) (*model.Tournament, error) // 建立賽事
	OpenRegistration() error                                               // 開放報名
	Start() error                                                          // 開始計時
	Pause() error                                                          // 暫停
	Resume() error                                                         // 恢復計時
	Tick() ([]clock.Event, error)                                          // 計時器輪詢
	AdvanceLevel() error                                                   // 手動進入下一個盲注等級
	Finish(force bool) error                                               // 結束賽事並派彩
	Cancel() error                                                         // 取消賽事
	TimeRemaining() time.Duration                                          // 當前等級剩餘時間
	Result() (*model.TournamentResult, error)                              // 賽事結果 (積分計算使用)

	// Player Actions
	PlayerRegister(playerID int64) error                                                    // 玩家報名 (含延遲報名)
	PlayerUnregister(playerID int64) error                                                  // 玩家取消報名
	CheckRebuy(playerID int64) (eligibility.Verdict, error)                                 // 查詢是否可補碼
	PlayerRebuy(playerID int64) (eligibility.Verdict, error)                                // 玩家補碼
	CheckAddOn(playerID int64) (eligibility.Verdict, error)                                 // 查詢是否可增購
	PlayerAddOn(playerID int64) (eligibility.Verdict, error)                                // 玩家增購
	PlayerEliminate(playerID int64, eliminatedBy *int64) (*payout.EliminationResult, error) // 玩家淘汰
	PlayerLockSeat(playerID int64, locked bool) error                                       // 鎖定座位
	PlayerConfirmMove(playerID int64) error                                                 // 玩家確認換桌
	UpdatePlayerStack(playerID int64, stack int64) error                                    // 更新玩家籌碼
}

type tournamentEngine struct {
	lock                     sync.Mutex
	options                  *TournamentEngineOptions
	tournament               *model.Tournament
	mm                       move_manager.MoveManager
	logger                   zerolog.Logger
	sink                     audit.Sink
	now                      func() time.Time
	rebuyHistory             func(playerID int64) []model.PlayerRebuy
	onTournamentUpdated      func(*model.Tournament)
	onTournamentErrorUpdated func(*model.Tournament, error)
	onClockEvent             func(*model.Tournament, clock.Event)
	onPlayerEliminated       func(*model.Tournament, *payout.EliminationResult)
	onSeatsMoved             func(*model.Tournament, []*seat_manager.Move)
	onMovesConfirmed         func(int64, move_manager.MoveBatchState)
}

func NewTournamentEngine(options *TournamentEngineOptions, opts ...TournamentEngineOpt) TournamentEngine {
	if options == nil {
		options = NewTournamentEngineOptions()
	}

	callbacks := NewTournamentEngineCallbacks()
	te := &tournamentEngine{
		options:                  options,
		logger:                   zerolog.Nop(),
		sink:                     audit.Nop{},
		now:                      time.Now,
		rebuyHistory:             func(int64) []model.PlayerRebuy { return nil },
		onTournamentUpdated:      callbacks.OnTournamentUpdated,
		onTournamentErrorUpdated: callbacks.OnTournamentErrorUpdated,
		onClockEvent:             callbacks.OnClockEvent,
		onPlayerEliminated:       callbacks.OnPlayerEliminated,
		onSeatsMoved:             callbacks.OnSeatsMoved,
		onMovesConfirmed:         callbacks.OnMovesConfirmed,
	}

	for _, opt := range opts {
		opt(te)
	}

	te.mm = move_manager.NewMoveManager(move_manager.MoveOption{
		Timeout: options.MoveConfirmTimeout,
		OnMovesConfirmed: func(state move_manager.MoveBatchState) {
			te.onMovesConfirmed(te.tournamentID(), state)
		},
	})

	return te
}

func WithLogger(logger zerolog.Logger) TournamentEngineOpt {
	return func(te *tournamentEngine) {
		te.logger = logger
	}
}

func WithAuditSink(sink audit.Sink) TournamentEngineOpt {
	return func(te *tournamentEngine) {
		te.sink = sink
	}
}

func WithNow(now func() time.Time) TournamentEngineOpt {
	return func(te *tournamentEngine) {
		te.now = now
	}
}

// WithRebuyHistory supplies rebuys from other tournaments for by_period limits.
func WithRebuyHistory(fn func(playerID int64) []model.PlayerRebuy) TournamentEngineOpt {
	return func(te *tournamentEngine) {
		te.rebuyHistory = fn
	}
}

func WithTournament(t *model.Tournament) TournamentEngineOpt {
	return func(te *tournamentEngine) {
		te.tournament = t
	}
}

func (te *tournamentEngine) OnTournamentUpdated(fn func(*model.Tournament)) {
	te.onTournamentUpdated = fn
}

func (te *tournamentEngine) OnTournamentErrorUpdated(fn func(*model.Tournament, error)) {
	te.onTournamentErrorUpdated = fn
}

func (te *tournamentEngine) OnClockEvent(fn func(*model.Tournament, clock.Event)) {
	te.onClockEvent = fn
}

func (te *tournamentEngine) OnPlayerEliminated(fn func(*model.Tournament, *payout.EliminationResult)) {
	te.onPlayerEliminated = fn
}

func (te *tournamentEngine) OnSeatsMoved(fn func(*model.Tournament, []*seat_manager.Move)) {
	te.onSeatsMoved = fn
}

func (te *tournamentEngine) OnMovesConfirmed(fn func(tournamentID int64, state move_manager.MoveBatchState)) {
	te.onMovesConfirmed = fn
}

func (te *tournamentEngine) GetTournament() *model.Tournament {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return nil
	}
	return te.tournament.Clone()
}

/*
CreateTournament 建立賽事
  - 設定 (TournamentConfig) 與盲注表由 Template / BlindStructure 複製 (copy-on-create)
  - 之後修改 Template 不影響已建立的賽事
*/
func (te *tournamentEngine) CreateTournament(setting TournamentSetting) (*model.Tournament, error) {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament != nil {
		return nil, ErrTournamentAlreadyCreated
	}

	if err := blind.Validate(setting.BlindStructure); err != nil {
		return nil, err
	}

	config := setting.Template.Config.Clone()
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if config.AllowAddOn && blind.LevelIndex(setting.BlindStructure.Levels, config.AddOnAtLevel) < 0 {
		return nil, apperr.Configuration("add-on level %d is not in blind structure %d", config.AddOnAtLevel, setting.BlindStructure.ID)
	}

	structure := setting.BlindStructure.Clone()
	te.tournament = &model.Tournament{
		ID:               setting.TournamentID,
		Name:             setting.Name,
		TemplateID:       setting.Template.ID,
		BlindStructureID: setting.BlindStructure.ID,
		Config:           config,
		Levels:           structure.Levels,
		Status:           model.TournamentStatus_Pending,
		CurrentLevel:     structure.Levels[0].LevelNumber,
		Players:          make([]*model.TournamentPlayer, 0),
		Tables:           make([]*model.PokerTable, 0),
		Rebuys:           make([]model.PlayerRebuy, 0),
	}

	te.emitEvent("CreateTournament", 0)
	te.record("create", "tournament created", nil, te.tournament)
	return te.tournament.Clone(), nil
}

/*
OpenRegistration 開放報名
  - 適用時機: 賽事建立後
*/
func (te *tournamentEngine) OpenRegistration() error {
	return te.apply("OpenRegistration", 0, "registration opened", func(t *model.Tournament) error {
		return clock.OpenRegistration(t)
	})
}

/*
Start 開始計時
  - 適用時機: 報名中，至少兩位玩家
*/
func (te *tournamentEngine) Start() error {
	return te.apply("Start", 0, "clock started", func(t *model.Tournament) error {
		if len(t.Players) < 2 {
			return apperr.InvalidTransition("tournament %d needs at least 2 players to start", t.ID)
		}
		return clock.Start(t, te.now())
	})
}

func (te *tournamentEngine) Pause() error {
	return te.apply("Pause", 0, "clock paused", func(t *model.Tournament) error {
		return clock.Pause(t, te.now())
	})
}

func (te *tournamentEngine) Resume() error {
	return te.apply("Resume", 0, "clock resumed", func(t *model.Tournament) error {
		return clock.Resume(t, te.now())
	})
}

/*
Tick 計時器輪詢
  - 經過時間超過當前等級時自動進入下一個等級
  - 沒有等級變化時不更新賽事
*/
func (te *tournamentEngine) Tick() ([]clock.Event, error) {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return nil, ErrTournamentNotCreated
	}

	clone := te.tournament.Clone()
	events := clock.Tick(clone, te.now())
	if len(events) == 0 {
		return events, nil
	}

	te.tournament = clone
	te.emitEvent("Tick", 0)
	te.emitClockEvents(events)
	return events, nil
}

/*
AdvanceLevel 手動進入下一個盲注等級
  - 適用時機: 主持人跳過當前等級
*/
func (te *tournamentEngine) AdvanceLevel() error {
	var events []clock.Event
	err := te.apply("AdvanceLevel", 0, "level advanced", func(t *model.Tournament) error {
		var err error
		events, err = clock.AdvanceLevel(t, te.now())
		return err
	})
	if err != nil {
		return err
	}

	te.lock.Lock()
	defer te.lock.Unlock()
	te.emitClockEvents(events)
	return nil
}

/*
Finish 結束賽事
  - 剩一位玩家時正常結束，force 時依籌碼排名剩餘玩家
  - 排名確定後派彩，派彩結構不適用時不派彩並回報錯誤
*/
func (te *tournamentEngine) Finish(force bool) error {
	var notApplicable error
	err := te.apply("Finish", 0, "tournament finished", func(t *model.Tournament) error {
		if err := clock.Finish(t, te.now(), force); err != nil {
			return err
		}

		payout.AssignFinalPositions(t)
		if err := payout.ValidateFinishPositions(t); err != nil {
			return err
		}

		if _, err := payout.ApplyPayouts(t); err != nil {
			kind, _ := apperr.KindOf(err)
			if kind != apperr.Kind_StructureNotApplicable {
				return err
			}
			notApplicable = err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if notApplicable != nil {
		te.lock.Lock()
		defer te.lock.Unlock()
		te.emitErrorEvent("Finish", 0, notApplicable)
	}
	return nil
}

/*
Cancel 取消賽事
  - 停止計時，之後不可再淘汰或補碼
*/
func (te *tournamentEngine) Cancel() error {
	err := te.apply("Cancel", 0, "tournament cancelled", func(t *model.Tournament) error {
		return clock.Cancel(t, te.now())
	})
	if err != nil {
		return err
	}

	te.mm.Close()
	return nil
}

func (te *tournamentEngine) TimeRemaining() time.Duration {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return 0
	}
	return clock.TimeRemaining(te.tournament, te.now())
}

func (te *tournamentEngine) Result() (*model.TournamentResult, error) {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return nil, ErrTournamentNotCreated
	}

	if te.tournament.Status != model.TournamentStatus_Finished {
		return nil, ErrTournamentNotFinished
	}

	return BuildResult(te.tournament), nil
}

/*
PlayerRegister 玩家報名
  - 適用時機: 報名中，或延遲報名期間
  - 報名費扣除抽水後進入獎池，賞金另計
  - 延遲報名時已淘汰玩家的名次順延一位
  - 入座後重新平衡各桌
*/
func (te *tournamentEngine) PlayerRegister(playerID int64) error {
	var moves []*seat_manager.Move
	err := te.apply("PlayerRegister", playerID, "player registered", func(t *model.Tournament) error {
		if !clock.IsLateRegistrationOpen(t) {
			return ErrTournamentRegistrationClosed
		}

		if t.FindPlayer(playerID) != nil {
			return ErrTournamentPlayerRegistered
		}

		net, err := payout.NetBuyIn(t.Config)
		if err != nil {
			return err
		}

		if t.Status.IsPlaying() {
			payout.ShiftFinishPositions(t)
		}

		bounty := payout.InitialBounty(t.Config)
		t.Players = append(t.Players, &model.TournamentPlayer{
			PlayerID:      playerID,
			CurrentStack:  t.Config.StartingStack,
			CurrentBounty: bounty,
			TotalCost:     payout.EntryCost(t.Config),
		})
		t.TotalEntries++
		t.TotalPrizePool = t.TotalPrizePool.Add(net)
		t.TotalBountyPool = t.TotalBountyPool.Add(bounty)

		moves, err = seatAndBalance(t, playerID)
		return err
	})
	if err != nil {
		return err
	}

	te.openMoves(moves)
	return nil
}

/*
PlayerUnregister 玩家取消報名
  - 適用時機: 開賽前 (報名中)
  - 退還報名費，離座後重新平衡各桌
*/
func (te *tournamentEngine) PlayerUnregister(playerID int64) error {
	var moves []*seat_manager.Move
	err := te.apply("PlayerUnregister", playerID, "player unregistered", func(t *model.Tournament) error {
		if t.Status != model.TournamentStatus_Registration {
			return apperr.InvalidTransition("tournament %d: cannot unregister while %s", t.ID, t.Status)
		}

		p := t.FindPlayer(playerID)
		if p == nil {
			return ErrTournamentPlayerNotFound
		}

		net, err := payout.NetBuyIn(t.Config)
		if err != nil {
			return err
		}

		moves, err = releaseAndBalance(t, playerID)
		if err != nil {
			return err
		}

		t.TotalEntries--
		t.TotalPrizePool = t.TotalPrizePool.Sub(net)
		t.TotalBountyPool = t.TotalBountyPool.Sub(p.CurrentBounty)
		t.Players = removePlayer(t.Players, playerID)
		return nil
	})
	if err != nil {
		return err
	}

	te.openMoves(moves)
	return nil
}

func (te *tournamentEngine) CheckRebuy(playerID int64) (eligibility.Verdict, error) {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return eligibility.Verdict{}, ErrTournamentNotCreated
	}

	in, err := te.eligibilityInput(te.tournament, playerID)
	if err != nil {
		return eligibility.Verdict{}, err
	}
	return eligibility.EvaluateRebuy(in)
}

/*
PlayerRebuy 玩家補碼
  - 不符合資格時回傳拒絕原因，賽事狀態不變
  - 補碼紀錄只新增不修改
*/
func (te *tournamentEngine) PlayerRebuy(playerID int64) (eligibility.Verdict, error) {
	var verdict eligibility.Verdict
	err := te.apply("PlayerRebuy", playerID, "player rebought", func(t *model.Tournament) error {
		in, err := te.eligibilityInput(t, playerID)
		if err != nil {
			return err
		}

		verdict, err = eligibility.EvaluateRebuy(in)
		if err != nil {
			return err
		}
		if !verdict.Allowed {
			return errDenied
		}

		p := t.FindPlayer(playerID)
		p.RebuyCount++
		p.CurrentStack = verdict.ResultingStack
		p.TotalCost = p.TotalCost.Add(verdict.Cost)
		t.TotalRebuys++
		t.TotalPrizePool = t.TotalPrizePool.Add(verdict.NetToPool)
		t.Rebuys = append(t.Rebuys, model.PlayerRebuy{
			ID:           int64(len(t.Rebuys) + 1),
			PlayerID:     playerID,
			TournamentID: t.ID,
			RebuyDate:    in.Now,
			Amount:       verdict.Cost,
			RebuyNumber:  p.RebuyCount,
		})
		return nil
	})

	if err == errDenied {
		te.logger.Info().Int64("player_id", playerID).Str("reason", string(verdict.Reason)).Msg("rebuy denied")
		return verdict, nil
	}
	return verdict, err
}

func (te *tournamentEngine) CheckAddOn(playerID int64) (eligibility.Verdict, error) {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.tournament == nil {
		return eligibility.Verdict{}, ErrTournamentNotCreated
	}

	in, err := te.eligibilityInput(te.tournament, playerID)
	if err != nil {
		return eligibility.Verdict{}, err
	}
	return eligibility.EvaluateAddOn(in)
}

/*
PlayerAddOn 玩家增購
  - 只在 AddOnAtLevel 等級，每位玩家一次
*/
func (te *tournamentEngine) PlayerAddOn(playerID int64) (eligibility.Verdict, error) {
	var verdict eligibility.Verdict
	err := te.apply("PlayerAddOn", playerID, "player took add-on", func(t *model.Tournament) error {
		in, err := te.eligibilityInput(t, playerID)
		if err != nil {
			return err
		}

		verdict, err = eligibility.EvaluateAddOn(in)
		if err != nil {
			return err
		}
		if !verdict.Allowed {
			return errDenied
		}

		p := t.FindPlayer(playerID)
		p.HasAddOn = true
		p.CurrentStack = verdict.ResultingStack
		p.TotalCost = p.TotalCost.Add(verdict.Cost)
		t.TotalAddOns++
		t.TotalPrizePool = t.TotalPrizePool.Add(verdict.NetToPool)
		return nil
	})

	if err == errDenied {
		te.logger.Info().Int64("player_id", playerID).Str("reason", string(verdict.Reason)).Msg("add-on denied")
		return verdict, nil
	}
	return verdict, err
}

/*
PlayerEliminate 玩家淘汰
  - 名次為淘汰前剩餘人數，釋放座位後重新平衡各桌
  - eliminatedBy 僅用於賞金歸屬
*/
func (te *tournamentEngine) PlayerEliminate(playerID int64, eliminatedBy *int64) (*payout.EliminationResult, error) {
	var result *payout.EliminationResult
	var moves []*seat_manager.Move
	err := te.apply("PlayerEliminate", playerID, "player eliminated", func(t *model.Tournament) error {
		var err error
		result, err = payout.Eliminate(t, playerID, eliminatedBy, te.now())
		if err != nil {
			return err
		}

		moves, err = releaseAndBalance(t, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	te.lock.Lock()
	te.onPlayerEliminated(te.tournament, result)
	te.lock.Unlock()

	te.openMoves(moves)
	return result, nil
}

func (te *tournamentEngine) PlayerLockSeat(playerID int64, locked bool) error {
	return te.apply("PlayerLockSeat", playerID, "seat lock changed", func(t *model.Tournament) error {
		sm, err := seat_manager.NewSeatManager(t)
		if err != nil {
			return err
		}
		return sm.LockSeat(playerID, locked)
	})
}

func (te *tournamentEngine) PlayerConfirmMove(playerID int64) error {
	return te.mm.Confirm(playerID)
}

/*
UpdatePlayerStack 更新玩家籌碼
  - 適用時機: 現場回報籌碼量 (強制結束時依籌碼排名)
*/
func (te *tournamentEngine) UpdatePlayerStack(playerID int64, stack int64) error {
	return te.apply("UpdatePlayerStack", playerID, "player stack updated", func(t *model.Tournament) error {
		if t.Status.IsEnded() {
			return apperr.InvalidTransition("tournament %d: cannot update stacks while %s", t.ID, t.Status)
		}

		p := t.FindPlayer(playerID)
		if p == nil {
			return ErrTournamentPlayerNotFound
		}

		if p.IsEliminated {
			return apperr.InvalidTransition("player %d is eliminated", playerID)
		}

		if stack < 0 {
			return apperr.InvalidTransition("stack %d must not be negative", stack)
		}

		p.CurrentStack = stack
		return nil
	})
}
