package pokertournament

import (
	"github.com/weedbox/pokertournament/model"
)

// TournamentSetting describes a tournament to create from a template and a blind structure.
type TournamentSetting struct {
	TournamentID   int64                    `json:"tournament_id"`
	Name           string                   `json:"name"`
	Template       model.TournamentTemplate `json:"template"`
	BlindStructure model.BlindStructure     `json:"blind_structure"`
}
