package pokertournament

import (
	"sync"

	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/eligibility"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payout"
)

var (
	ErrManagerTournamentNotFound = apperr.NotFound("manager: tournament not found")
)

type Manager interface {
	Reset()

	// TournamentEngine Actions
	GetTournamentEngine(tournamentID int64) (TournamentEngine, error)
	CreateTournament(options *TournamentEngineOptions, callbacks *TournamentEngineCallbacks, setting TournamentSetting, opts ...TournamentEngineOpt) (*model.Tournament, error)
	OpenRegistration(tournamentID int64) error
	StartTournament(tournamentID int64) error
	PauseTournament(tournamentID int64) error
	ResumeTournament(tournamentID int64) error
	AdvanceLevel(tournamentID int64) error
	FinishTournament(tournamentID int64, force bool) error
	CancelTournament(tournamentID int64) error
	CloseTournament(tournamentID int64) error
	TournamentResult(tournamentID int64) (*model.TournamentResult, error)

	// Player Actions
	PlayerRegister(tournamentID, playerID int64) error
	PlayerUnregister(tournamentID, playerID int64) error
	PlayerRebuy(tournamentID, playerID int64) (eligibility.Verdict, error)
	PlayerAddOn(tournamentID, playerID int64) (eligibility.Verdict, error)
	PlayerEliminate(tournamentID, playerID int64, eliminatedBy *int64) (*payout.EliminationResult, error)
	PlayerConfirmMove(tournamentID, playerID int64) error
}

type manager struct {
	tournamentEngines sync.Map
}

func NewManager() Manager {
	return &manager{
		tournamentEngines: sync.Map{},
	}
}

func (m *manager) Reset() {
	m.tournamentEngines = sync.Map{}
}

func (m *manager) GetTournamentEngine(tournamentID int64) (TournamentEngine, error) {
	tournamentEngine, exist := m.tournamentEngines.Load(tournamentID)
	if !exist {
		return nil, ErrManagerTournamentNotFound
	}
	return tournamentEngine.(TournamentEngine), nil
}

func (m *manager) CreateTournament(options *TournamentEngineOptions, callbacks *TournamentEngineCallbacks, setting TournamentSetting, opts ...TournamentEngineOpt) (*model.Tournament, error) {
	if _, exist := m.tournamentEngines.Load(setting.TournamentID); exist {
		return nil, ErrTournamentAlreadyCreated
	}

	var engineCallbacks *TournamentEngineCallbacks
	if callbacks != nil {
		engineCallbacks = callbacks
	} else {
		engineCallbacks = NewTournamentEngineCallbacks()
	}

	tournamentEngine := NewTournamentEngine(options, opts...)
	tournamentEngine.OnTournamentUpdated(engineCallbacks.OnTournamentUpdated)
	tournamentEngine.OnTournamentErrorUpdated(engineCallbacks.OnTournamentErrorUpdated)
	tournamentEngine.OnClockEvent(engineCallbacks.OnClockEvent)
	tournamentEngine.OnPlayerEliminated(engineCallbacks.OnPlayerEliminated)
	tournamentEngine.OnSeatsMoved(engineCallbacks.OnSeatsMoved)
	tournamentEngine.OnMovesConfirmed(engineCallbacks.OnMovesConfirmed)
	tournament, err := tournamentEngine.CreateTournament(setting)
	if err != nil {
		return nil, err
	}

	m.tournamentEngines.Store(tournament.ID, tournamentEngine)
	return tournament, nil
}

func (m *manager) OpenRegistration(tournamentID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.OpenRegistration()
}

func (m *manager) StartTournament(tournamentID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.Start()
}

func (m *manager) PauseTournament(tournamentID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.Pause()
}

func (m *manager) ResumeTournament(tournamentID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.Resume()
}

func (m *manager) AdvanceLevel(tournamentID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.AdvanceLevel()
}

func (m *manager) FinishTournament(tournamentID int64, force bool) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.Finish(force)
}

func (m *manager) CancelTournament(tournamentID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.Cancel()
}

// CloseTournament drops an ended tournament from the manager.
func (m *manager) CloseTournament(tournamentID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	if t := tournamentEngine.GetTournament(); !t.Status.IsEnded() {
		return apperr.InvalidTransition("manager: tournament %d is still %s", tournamentID, t.Status)
	}

	m.tournamentEngines.Delete(tournamentID)
	return nil
}

func (m *manager) TournamentResult(tournamentID int64) (*model.TournamentResult, error) {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return nil, err
	}

	return tournamentEngine.Result()
}

func (m *manager) PlayerRegister(tournamentID, playerID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.PlayerRegister(playerID)
}

func (m *manager) PlayerUnregister(tournamentID, playerID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.PlayerUnregister(playerID)
}

func (m *manager) PlayerRebuy(tournamentID, playerID int64) (eligibility.Verdict, error) {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return eligibility.Verdict{}, err
	}

	return tournamentEngine.PlayerRebuy(playerID)
}

func (m *manager) PlayerAddOn(tournamentID, playerID int64) (eligibility.Verdict, error) {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return eligibility.Verdict{}, err
	}

	return tournamentEngine.PlayerAddOn(playerID)
}

func (m *manager) PlayerEliminate(tournamentID, playerID int64, eliminatedBy *int64) (*payout.EliminationResult, error) {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return nil, err
	}

	return tournamentEngine.PlayerEliminate(playerID, eliminatedBy)
}

func (m *manager) PlayerConfirmMove(tournamentID, playerID int64) error {
	tournamentEngine, err := m.GetTournamentEngine(tournamentID)
	if err != nil {
		return err
	}

	return tournamentEngine.PlayerConfirmMove(playerID)
}
