package sqlite

import (
	"context"
	"database/sql"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/weedbox/pokertournament/model"
	"github.com/weedbox/pokertournament/payload"
)

/*
SaveChampionship 寫入積分賽設定、場次與積分榜
  - 場次與積分榜整批替換
  - 月/季積分以 payload 編碼
*/
func (s *Store) SaveChampionship(ctx context.Context, c *model.Championship) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	settings := *c
	settings.Matches = nil
	settings.Standings = nil
	encoded, err := json.Marshal(settings)
	if err != nil {
		return eris.Wrap(err, "encode championship settings")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO championships (id, name, settings_json) VALUES (?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			   name = excluded.name,
			   settings_json = excluded.settings_json`,
			c.ID, c.Name, string(encoded),
		); err != nil {
			return classify(err, "save championship")
		}

		if err := saveMatches(ctx, tx, c); err != nil {
			return err
		}

		return saveStandings(ctx, tx, c)
	})
}

func saveMatches(ctx context.Context, tx *sql.Tx, c *model.Championship) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM championship_matches WHERE championship_id = ?`, c.ID); err != nil {
		return classify(err, "clear championship matches")
	}

	for _, m := range c.Matches {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO championship_matches (
			   championship_id, id, tournament_id, match_number, coefficient,
			   is_final, is_main_event, played_at, fixed_points_table
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, m.ID, m.TournamentID, m.MatchNumber, m.Coefficient,
			m.IsFinal, m.IsMainEvent, toMillis(m.PlayedAt), m.FixedPointsTable,
		); err != nil {
			return classify(err, "save championship match")
		}
	}
	return nil
}

func saveStandings(ctx context.Context, tx *sql.Tx, c *model.Championship) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM championship_standings WHERE championship_id = ?`, c.ID); err != nil {
		return classify(err, "clear championship standings")
	}

	for _, st := range c.Standings {
		monthly, err := payload.EncodePeriodPoints(st.MonthlyPoints)
		if err != nil {
			return eris.Wrap(err, "encode monthly points")
		}

		quarterly, err := payload.EncodePeriodPoints(st.QuarterlyPoints)
		if err != nil {
			return eris.Wrap(err, "encode quarterly points")
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO championship_standings (
			   championship_id, player_id, total_points, current_position, matches_played,
			   matches_counted, victories, top3_finishes, best_position, average_position,
			   position_std_dev, total_winnings, total_cost, roi, bounty_kills,
			   monthly_points, quarterly_points
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, st.PlayerID, st.TotalPoints, st.CurrentPosition, st.MatchesPlayed,
			st.MatchesCounted, st.Victories, st.Top3Finishes, st.BestPosition, st.AveragePosition,
			st.PositionStdDev, st.TotalWinnings, st.TotalCost, st.ROI, st.BountyKills,
			monthly, quarterly,
		); err != nil {
			return classify(err, "save championship standing")
		}
	}
	return nil
}

func (s *Store) GetChampionship(ctx context.Context, id int64) (*model.Championship, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var settings string
	if err := s.db.QueryRowContext(ctx, `SELECT settings_json FROM championships WHERE id = ?`, id).Scan(&settings); err != nil {
		return nil, classify(err, "get championship")
	}

	c := &model.Championship{}
	if err := json.Unmarshal([]byte(settings), c); err != nil {
		return nil, eris.Wrap(err, "decode championship settings")
	}
	c.ID = id

	var err error
	if c.Matches, err = s.listMatches(ctx, id); err != nil {
		return nil, err
	}
	if c.Standings, err = s.listStandings(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) listMatches(ctx context.Context, championshipID int64) ([]model.ChampionshipMatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tournament_id, match_number, coefficient, is_final, is_main_event, played_at, fixed_points_table
		   FROM championship_matches
		  WHERE championship_id = ?
		  ORDER BY match_number, id`,
		championshipID,
	)
	if err != nil {
		return nil, classify(err, "list championship matches")
	}
	defer rows.Close()

	matches := make([]model.ChampionshipMatch, 0)
	for rows.Next() {
		m := model.ChampionshipMatch{ChampionshipID: championshipID}
		var playedAt int64
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.MatchNumber, &m.Coefficient,
			&m.IsFinal, &m.IsMainEvent, &playedAt, &m.FixedPointsTable,
		); err != nil {
			return nil, eris.Wrap(err, "scan championship match")
		}
		m.PlayedAt = fromMillis(playedAt)
		matches = append(matches, m)
	}
	return matches, eris.Wrap(rows.Err(), "iterate championship matches")
}

func (s *Store) listStandings(ctx context.Context, championshipID int64) ([]model.ChampionshipStanding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, total_points, current_position, matches_played, matches_counted,
		        victories, top3_finishes, best_position, average_position, position_std_dev,
		        total_winnings, total_cost, roi, bounty_kills, monthly_points, quarterly_points
		   FROM championship_standings
		  WHERE championship_id = ?
		  ORDER BY current_position, player_id`,
		championshipID,
	)
	if err != nil {
		return nil, classify(err, "list championship standings")
	}
	defer rows.Close()

	standings := make([]model.ChampionshipStanding, 0)
	for rows.Next() {
		st := model.ChampionshipStanding{ChampionshipID: championshipID}
		var monthly, quarterly string
		if err := rows.Scan(
			&st.PlayerID, &st.TotalPoints, &st.CurrentPosition, &st.MatchesPlayed, &st.MatchesCounted,
			&st.Victories, &st.Top3Finishes, &st.BestPosition, &st.AveragePosition, &st.PositionStdDev,
			&st.TotalWinnings, &st.TotalCost, &st.ROI, &st.BountyKills, &monthly, &quarterly,
		); err != nil {
			return nil, eris.Wrap(err, "scan championship standing")
		}

		// 無法解析時視為空
		st.MonthlyPoints, _ = payload.ParsePeriodPoints(monthly)
		st.QuarterlyPoints, _ = payload.ParsePeriodPoints(quarterly)
		standings = append(standings, st)
	}
	return standings, eris.Wrap(rows.Err(), "iterate championship standings")
}

// DeleteChampionship cascades to matches and standings.
func (s *Store) DeleteChampionship(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM championships WHERE id = ?`, id)
	if err != nil {
		return classify(err, "delete championship")
	}
	return expectAffected(res, "delete championship")
}
