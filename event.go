package pokertournament

func (te *tournamentEngine) emitEvent(eventName string, playerID int64) {
	// refresh tournament
	te.tournament.RefreshUpdateSerial()

	// emit event
	te.logger.Debug().
		Int64("tournament_id", te.tournament.ID).
		Int64("serial", te.tournament.UpdateSerial).
		Int64("player_id", playerID).
		Str("status", string(te.tournament.Status)).
		Msgf("emit event: %s", eventName)
	te.onTournamentUpdated(te.tournament)
}

func (te *tournamentEngine) emitErrorEvent(eventName string, playerID int64, err error) {
	te.logger.Warn().
		Err(err).
		Int64("tournament_id", te.tournament.ID).
		Int64("serial", te.tournament.UpdateSerial).
		Int64("player_id", playerID).
		Msgf("emit error event: %s", eventName)
	te.onTournamentErrorUpdated(te.tournament, err)
}
