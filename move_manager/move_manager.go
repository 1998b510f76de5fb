package move_manager

import (
	"github.com/weedbox/pokertournament/seat_manager"
	"github.com/weedbox/syncsaga"
)

func NewMoveManager(options MoveOption) MoveManager {
	m := &moveManager{
		onMovesConfirmed: options.OnMovesConfirmed,
		rg:               newReadyGroup(options.Timeout),
		state: &MoveBatchState{
			Timeout: options.Timeout,
			Moves:   make(map[int64]*PendingMove),
		},
	}

	if m.onMovesConfirmed == nil {
		m.onMovesConfirmed = func(state MoveBatchState) {}
	}

	return m
}

func newReadyGroup(timeout int) *syncsaga.ReadyGroup {
	return syncsaga.NewReadyGroup(syncsaga.WithTimeout(timeout, func(rg *syncsaga.ReadyGroup) {
		// 逾時未確認的移動自動確認
		for idx, isReady := range rg.GetParticipantStates() {
			if !isReady {
				rg.Ready(idx)
			}
		}
	}))
}

func (m *moveManager) Confirm(playerID int64) error {
	return m.readyGroupReady(playerID)
}

/*
Open 開啟一批換桌確認
  - 每位被移動的玩家為一個 participant
  - 全部確認 (或逾時自動確認) 後觸發 OnMovesConfirmed
*/
func (m *moveManager) Open(batchID int64, moves []*seat_manager.Move) {
	m.rg.Stop()

	m.mu.Lock()
	m.state.BatchID = batchID
	m.mu.Unlock()

	if len(moves) == 0 {
		m.readyGroupResetParticipants()
		m.onMovesConfirmed(m.GetState())
		return
	}

	m.rg.OnCompleted(func(rg *syncsaga.ReadyGroup) {
		m.readyGroupOnCompleted()
	})
	m.readyGroupResetParticipants()
	for _, move := range moves {
		m.readyGroupAddParticipant(PendingMove{
			PlayerID: move.PlayerID,
			Move:     *move,
		}, false)
	}

	m.rg.Start()
}

func (m *moveManager) Close() {
	m.rg.Stop()
}

func (m *moveManager) GetState() MoveBatchState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := MoveBatchState{
		Timeout: m.state.Timeout,
		BatchID: m.state.BatchID,
		Moves:   make(map[int64]*PendingMove, len(m.state.Moves)),
	}
	for playerID, pm := range m.state.Moves {
		copied := *pm
		state.Moves[playerID] = &copied
	}
	return state
}
