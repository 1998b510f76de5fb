package sqlite

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/weedbox/pokertournament/audit"
)

// Append implements audit.Sink.
func (s *Store) Append(ctx context.Context, r audit.Record) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_records (
		   id, kind, entity_id, created_at, username, action, description, before_json, after_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Kind), r.EntityID, toMillis(r.Timestamp), r.Username,
		r.Action, r.Description, r.Before, r.After,
	)
	return classify(err, "append audit record")
}

func (s *Store) AuditRecords(ctx context.Context, kind audit.Kind, entityID int64) ([]audit.Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, entity_id, created_at, username, action, description, before_json, after_json
		   FROM audit_records
		  WHERE kind = ? AND entity_id = ?
		  ORDER BY created_at, rowid`,
		string(kind), entityID,
	)
	if err != nil {
		return nil, classify(err, "list audit records")
	}
	defer rows.Close()

	records := make([]audit.Record, 0)
	for rows.Next() {
		var r audit.Record
		var recordKind string
		var createdAt int64
		if err := rows.Scan(
			&r.ID, &recordKind, &r.EntityID, &createdAt, &r.Username,
			&r.Action, &r.Description, &r.Before, &r.After,
		); err != nil {
			return nil, eris.Wrap(err, "scan audit record")
		}
		r.Kind = audit.Kind(recordKind)
		r.Timestamp = fromMillis(createdAt)
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "iterate audit records")
}
