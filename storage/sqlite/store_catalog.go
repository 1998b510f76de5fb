package sqlite

import (
	"context"
	"database/sql"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/weedbox/pokertournament/model"
)

/*
SaveBlindStructure 新增或覆寫盲注表
  - levels 整批替換
*/
func (s *Store) SaveBlindStructure(ctx context.Context, bs model.BlindStructure) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO blind_structures (id, name) VALUES (?, ?)
			 ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
			bs.ID, bs.Name,
		); err != nil {
			return classify(err, "save blind structure")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM blind_levels WHERE structure_id = ?`, bs.ID); err != nil {
			return classify(err, "clear blind levels")
		}

		for _, level := range bs.Levels {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO blind_levels (
				   structure_id, level_number, small_blind, big_blind, ante,
				   duration_minutes, is_break, break_name
				 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				bs.ID, level.LevelNumber, level.SmallBlind, level.BigBlind, level.Ante,
				level.DurationMinutes, level.IsBreak, level.BreakName,
			); err != nil {
				return classify(err, "save blind level")
			}
		}
		return nil
	})
}

func (s *Store) GetBlindStructure(ctx context.Context, id int64) (model.BlindStructure, error) {
	if err := s.ready(ctx); err != nil {
		return model.BlindStructure{}, err
	}

	bs := model.BlindStructure{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM blind_structures WHERE id = ?`, id).Scan(&bs.Name)
	if err != nil {
		return model.BlindStructure{}, classify(err, "get blind structure")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT level_number, small_blind, big_blind, ante, duration_minutes, is_break, break_name
		   FROM blind_levels
		  WHERE structure_id = ?
		  ORDER BY level_number`,
		id,
	)
	if err != nil {
		return model.BlindStructure{}, classify(err, "list blind levels")
	}
	defer rows.Close()

	bs.Levels = make([]model.BlindLevel, 0)
	for rows.Next() {
		var level model.BlindLevel
		if err := rows.Scan(
			&level.LevelNumber, &level.SmallBlind, &level.BigBlind, &level.Ante,
			&level.DurationMinutes, &level.IsBreak, &level.BreakName,
		); err != nil {
			return model.BlindStructure{}, eris.Wrap(err, "scan blind level")
		}
		bs.Levels = append(bs.Levels, level)
	}
	if err := rows.Err(); err != nil {
		return model.BlindStructure{}, eris.Wrap(err, "iterate blind levels")
	}

	return bs, nil
}

// DeleteBlindStructure removes a structure and its levels, restricted while a template uses it.
func (s *Store) DeleteBlindStructure(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM blind_structures WHERE id = ?`, id)
	if err != nil {
		return classify(err, "delete blind structure")
	}
	return expectAffected(res, "delete blind structure")
}

func (s *Store) SaveTemplate(ctx context.Context, tt model.TournamentTemplate) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	config, err := json.Marshal(tt.Config)
	if err != nil {
		return eris.Wrap(err, "encode template config")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tournament_templates (id, name, blind_structure_id, config_json)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   blind_structure_id = excluded.blind_structure_id,
		   config_json = excluded.config_json`,
		tt.ID, tt.Name, tt.BlindStructureID, string(config),
	)
	return classify(err, "save template")
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (model.TournamentTemplate, error) {
	if err := s.ready(ctx); err != nil {
		return model.TournamentTemplate{}, err
	}

	tt := model.TournamentTemplate{ID: id}
	var config string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, blind_structure_id, config_json FROM tournament_templates WHERE id = ?`,
		id,
	).Scan(&tt.Name, &tt.BlindStructureID, &config)
	if err != nil {
		return model.TournamentTemplate{}, classify(err, "get template")
	}

	if err := json.Unmarshal([]byte(config), &tt.Config); err != nil {
		return model.TournamentTemplate{}, eris.Wrap(err, "decode template config")
	}
	return tt, nil
}

func (s *Store) SavePlayer(ctx context.Context, p model.Player) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, nickname, email) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   nickname = excluded.nickname,
		   email = excluded.email`,
		p.ID, p.Name, p.Nickname, p.Email,
	)
	return classify(err, "save player")
}

func (s *Store) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if err := s.ready(ctx); err != nil {
		return model.Player{}, err
	}

	p := model.Player{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name, nickname, email FROM players WHERE id = ?`, id).
		Scan(&p.Name, &p.Nickname, &p.Email)
	if err != nil {
		return model.Player{}, classify(err, "get player")
	}
	return p, nil
}

// DeletePlayer is restricted while any tournament, rebuy or standing references the player.
func (s *Store) DeletePlayer(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return classify(err, "delete player")
	}
	return expectAffected(res, "delete player")
}
