package move_manager

func (m *moveManager) readyGroupResetParticipants() {
	m.rg.ResetParticipants()

	m.mu.Lock()
	m.state.Moves = map[int64]*PendingMove{}
	m.mu.Unlock()
}

func (m *moveManager) readyGroupAddParticipant(pm PendingMove, isConfirmed bool) {
	m.mu.Lock()
	m.state.Moves[pm.PlayerID] = &PendingMove{
		PlayerID:    pm.PlayerID,
		Move:        pm.Move,
		IsConfirmed: isConfirmed,
	}
	m.mu.Unlock()

	m.rg.Add(pm.PlayerID, isConfirmed)
}

func (m *moveManager) readyGroupOnCompleted() {
	m.mu.Lock()
	for playerID := range m.state.Moves {
		m.state.Moves[playerID].IsConfirmed = true
	}
	m.mu.Unlock()

	m.onMovesConfirmed(m.GetState())
}

func (m *moveManager) readyGroupReady(playerID int64) error {
	m.mu.Lock()
	pm, exist := m.state.Moves[playerID]
	if !exist {
		m.mu.Unlock()
		return ErrMoveNotFound
	}
	pm.IsConfirmed = true
	m.mu.Unlock()

	// Ready 可能同步觸發 OnCompleted，不可持有鎖
	m.rg.Ready(playerID)
	return nil
}
