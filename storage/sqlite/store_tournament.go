package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/weedbox/pokertournament/model"
)

/*
SaveTournament 寫入賽事快照
  - tables / tournament players 整批替換
  - rebuys 只新增，既有紀錄不會被覆寫
*/
func (s *Store) SaveTournament(ctx context.Context, t *model.Tournament) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	config, err := json.Marshal(t.Config)
	if err != nil {
		return eris.Wrap(err, "encode tournament config")
	}

	levels, err := json.Marshal(t.Levels)
	if err != nil {
		return eris.Wrap(err, "encode tournament levels")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tournaments (
			   id, name, template_id, blind_structure_id, config_json, levels_json,
			   status, current_level, current_level_index, current_level_start_time, paused_elapsed,
			   started_at, finished_at, total_prize_pool, total_bounty_pool,
			   total_entries, total_rebuys, total_add_ons, update_serial
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			   name = excluded.name,
			   template_id = excluded.template_id,
			   blind_structure_id = excluded.blind_structure_id,
			   config_json = excluded.config_json,
			   levels_json = excluded.levels_json,
			   status = excluded.status,
			   current_level = excluded.current_level,
			   current_level_index = excluded.current_level_index,
			   current_level_start_time = excluded.current_level_start_time,
			   paused_elapsed = excluded.paused_elapsed,
			   started_at = excluded.started_at,
			   finished_at = excluded.finished_at,
			   total_prize_pool = excluded.total_prize_pool,
			   total_bounty_pool = excluded.total_bounty_pool,
			   total_entries = excluded.total_entries,
			   total_rebuys = excluded.total_rebuys,
			   total_add_ons = excluded.total_add_ons,
			   update_serial = excluded.update_serial`,
			t.ID, t.Name, t.TemplateID, t.BlindStructureID, string(config), string(levels),
			string(t.Status), t.CurrentLevel, t.CurrentLevelIndex, toMillis(t.CurrentLevelStartTime), int64(t.PausedElapsed),
			nullMillis(t.StartedAt), nullMillis(t.FinishedAt), t.TotalPrizePool, t.TotalBountyPool,
			t.TotalEntries, t.TotalRebuys, t.TotalAddOns, t.UpdateSerial,
		); err != nil {
			return classify(err, "save tournament")
		}

		if err := saveTables(ctx, tx, t); err != nil {
			return err
		}

		if err := savePlayers(ctx, tx, t); err != nil {
			return err
		}

		return saveRebuys(ctx, tx, t)
	})
}

func saveTables(ctx context.Context, tx *sql.Tx, t *model.Tournament) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM poker_tables WHERE tournament_id = ?`, t.ID); err != nil {
		return classify(err, "clear tables")
	}

	for _, table := range t.Tables {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO poker_tables (tournament_id, id, table_number, is_active, max_seats)
			 VALUES (?, ?, ?, ?, ?)`,
			t.ID, table.ID, table.TableNumber, table.IsActive, table.MaxSeats,
		); err != nil {
			return classify(err, "save table")
		}
	}
	return nil
}

func savePlayers(ctx context.Context, tx *sql.Tx, t *model.Tournament) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tournament_players WHERE tournament_id = ?`, t.ID); err != nil {
		return classify(err, "clear tournament players")
	}

	for idx, p := range t.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tournament_players (
			   tournament_id, player_id, position, table_id, seat_number, is_locked,
			   current_stack, rebuy_count, has_add_on, is_eliminated, finish_position,
			   elimination_time, eliminated_by_player_id, winnings, bounty_winnings,
			   current_bounty, total_cost, championship_points, bounty_kills
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, p.PlayerID, idx, nullInt64(p.TableID), nullInt(p.SeatNumber), p.IsLocked,
			p.CurrentStack, p.RebuyCount, p.HasAddOn, p.IsEliminated, nullInt(p.FinishPosition),
			nullMillis(p.EliminationTime), nullInt64(p.EliminatedByPlayerID), p.Winnings, p.BountyWinnings,
			p.CurrentBounty, p.TotalCost, p.ChampionshipPoints, p.BountyKills,
		); err != nil {
			return classify(err, "save tournament player")
		}
	}
	return nil
}

func saveRebuys(ctx context.Context, tx *sql.Tx, t *model.Tournament) error {
	for _, r := range t.Rebuys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_rebuys (tournament_id, id, player_id, rebuy_date, amount, rebuy_number)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (tournament_id, id) DO NOTHING`,
			t.ID, r.ID, r.PlayerID, toMillis(r.RebuyDate), r.Amount, r.RebuyNumber,
		); err != nil {
			return classify(err, "save rebuy")
		}
	}
	return nil
}

func (s *Store) GetTournament(ctx context.Context, id int64) (*model.Tournament, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	t := &model.Tournament{ID: id}
	var config, levels, status string
	var startTime, pausedElapsed int64
	var startedAt, finishedAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, template_id, blind_structure_id, config_json, levels_json,
		        status, current_level, current_level_index, current_level_start_time, paused_elapsed,
		        started_at, finished_at, total_prize_pool, total_bounty_pool,
		        total_entries, total_rebuys, total_add_ons, update_serial
		   FROM tournaments
		  WHERE id = ?`,
		id,
	).Scan(
		&t.Name, &t.TemplateID, &t.BlindStructureID, &config, &levels,
		&status, &t.CurrentLevel, &t.CurrentLevelIndex, &startTime, &pausedElapsed,
		&startedAt, &finishedAt, &t.TotalPrizePool, &t.TotalBountyPool,
		&t.TotalEntries, &t.TotalRebuys, &t.TotalAddOns, &t.UpdateSerial,
	)
	if err != nil {
		return nil, classify(err, "get tournament")
	}

	if err := json.Unmarshal([]byte(config), &t.Config); err != nil {
		return nil, eris.Wrap(err, "decode tournament config")
	}
	if err := json.Unmarshal([]byte(levels), &t.Levels); err != nil {
		return nil, eris.Wrap(err, "decode tournament levels")
	}

	t.Status = model.TournamentStatus(status)
	t.CurrentLevelStartTime = fromMillis(startTime)
	t.PausedElapsed = time.Duration(pausedElapsed)
	t.StartedAt = millisPtr(startedAt)
	t.FinishedAt = millisPtr(finishedAt)

	if t.Tables, err = s.listTables(ctx, id); err != nil {
		return nil, err
	}
	if t.Players, err = s.listPlayers(ctx, id); err != nil {
		return nil, err
	}
	if t.Rebuys, err = s.listRebuys(ctx, `WHERE tournament_id = ? ORDER BY id`, id); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Store) listTables(ctx context.Context, tournamentID int64) ([]*model.PokerTable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, table_number, is_active, max_seats
		   FROM poker_tables
		  WHERE tournament_id = ?
		  ORDER BY table_number`,
		tournamentID,
	)
	if err != nil {
		return nil, classify(err, "list tables")
	}
	defer rows.Close()

	tables := make([]*model.PokerTable, 0)
	for rows.Next() {
		table := &model.PokerTable{}
		if err := rows.Scan(&table.ID, &table.TableNumber, &table.IsActive, &table.MaxSeats); err != nil {
			return nil, eris.Wrap(err, "scan table")
		}
		tables = append(tables, table)
	}
	return tables, eris.Wrap(rows.Err(), "iterate tables")
}

func (s *Store) listPlayers(ctx context.Context, tournamentID int64) ([]*model.TournamentPlayer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, table_id, seat_number, is_locked, current_stack, rebuy_count,
		        has_add_on, is_eliminated, finish_position, elimination_time, eliminated_by_player_id,
		        winnings, bounty_winnings, current_bounty, total_cost, championship_points, bounty_kills
		   FROM tournament_players
		  WHERE tournament_id = ?
		  ORDER BY position`,
		tournamentID,
	)
	if err != nil {
		return nil, classify(err, "list tournament players")
	}
	defer rows.Close()

	players := make([]*model.TournamentPlayer, 0)
	for rows.Next() {
		p := &model.TournamentPlayer{}
		var tableID, seatNumber, finishPosition, eliminationTime, eliminatedBy sql.NullInt64
		if err := rows.Scan(
			&p.PlayerID, &tableID, &seatNumber, &p.IsLocked, &p.CurrentStack, &p.RebuyCount,
			&p.HasAddOn, &p.IsEliminated, &finishPosition, &eliminationTime, &eliminatedBy,
			&p.Winnings, &p.BountyWinnings, &p.CurrentBounty, &p.TotalCost, &p.ChampionshipPoints, &p.BountyKills,
		); err != nil {
			return nil, eris.Wrap(err, "scan tournament player")
		}

		p.TableID = int64Ptr(tableID)
		p.SeatNumber = intPtr(seatNumber)
		p.FinishPosition = intPtr(finishPosition)
		p.EliminationTime = millisPtr(eliminationTime)
		p.EliminatedByPlayerID = int64Ptr(eliminatedBy)
		players = append(players, p)
	}
	return players, eris.Wrap(rows.Err(), "iterate tournament players")
}

func (s *Store) listRebuys(ctx context.Context, where string, args ...interface{}) ([]model.PlayerRebuy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tournament_id, player_id, rebuy_date, amount, rebuy_number FROM player_rebuys `+where,
		args...,
	)
	if err != nil {
		return nil, classify(err, "list rebuys")
	}
	defer rows.Close()

	rebuys := make([]model.PlayerRebuy, 0)
	for rows.Next() {
		var r model.PlayerRebuy
		var rebuyDate int64
		if err := rows.Scan(&r.ID, &r.TournamentID, &r.PlayerID, &rebuyDate, &r.Amount, &r.RebuyNumber); err != nil {
			return nil, eris.Wrap(err, "scan rebuy")
		}
		r.RebuyDate = fromMillis(rebuyDate)
		rebuys = append(rebuys, r)
	}
	return rebuys, eris.Wrap(rows.Err(), "iterate rebuys")
}

// ListPlayerRebuys returns a player's rebuys across every tournament, oldest first.
func (s *Store) ListPlayerRebuys(ctx context.Context, playerID int64) ([]model.PlayerRebuy, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.listRebuys(ctx, `WHERE player_id = ? ORDER BY rebuy_date, tournament_id, id`, playerID)
}

// DeleteTournament cascades to tables, tournament players and rebuys.
func (s *Store) DeleteTournament(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = ?`, id)
	if err != nil {
		return classify(err, "delete tournament")
	}
	return expectAffected(res, "delete tournament")
}
