package audit

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/weedbox/pokertournament/apperr"
)

type Kind string

const (
	Kind_Tournament   Kind = "tournament"   // TournamentLog
	Kind_Championship Kind = "championship" // ChampionshipLog
	Kind_Player       Kind = "player"       // PlayerLog
)

// Record is an append-only audit entry. Sinks never feed records back into decisions.
type Record struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	EntityID    int64     `json:"entity_id"`
	Timestamp   time.Time `json:"timestamp"`
	Username    string    `json:"username"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Before      string    `json:"before,omitempty"` // snapshot (serialized)
	After       string    `json:"after,omitempty"`  // snapshot (serialized)
}

type Sink interface {
	Append(ctx context.Context, r Record) error
}

/*
NewRecord 建立稽核紀錄
  - before / after 為任意快照，序列化為 JSON，nil 表示沒有快照
*/
func NewRecord(kind Kind, entityID int64, username string, action string, description string, before interface{}, after interface{}) (Record, error) {
	r := Record{
		ID:          uuid.New().String(),
		Kind:        kind,
		EntityID:    entityID,
		Timestamp:   time.Now(),
		Username:    username,
		Action:      action,
		Description: description,
	}

	var err error
	if r.Before, err = snapshot(before); err != nil {
		return Record{}, err
	}
	if r.After, err = snapshot(after); err != nil {
		return Record{}, err
	}

	return r, nil
}

func snapshot(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return "", apperr.Wrap(apperr.Kind_DataIntegrityViolation, err, "audit: unable to encode snapshot")
	}
	return string(encoded), nil
}

// Nop discards every record.
type Nop struct{}

func (Nop) Append(ctx context.Context, r Record) error {
	return nil
}

type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		records: make([]Record, 0),
	}
}

func (s *MemorySink) Append(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
	return nil
}

func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, len(s.records))
	copy(records, s.records)
	return records
}

func (s *MemorySink) ByEntity(kind Kind, entityID int64) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, 0)
	for _, r := range s.records {
		if r.Kind == kind && r.EntityID == entityID {
			records = append(records, r)
		}
	}
	return records
}

// LoggerSink writes records as structured log lines.
type LoggerSink struct {
	logger zerolog.Logger
}

func NewLoggerSink(logger zerolog.Logger) *LoggerSink {
	return &LoggerSink{
		logger: logger,
	}
}

func (s *LoggerSink) Append(ctx context.Context, r Record) error {
	s.logger.Info().
		Str("audit_id", r.ID).
		Str("kind", string(r.Kind)).
		Int64("entity_id", r.EntityID).
		Str("username", r.Username).
		Str("action", r.Action).
		Time("timestamp", r.Timestamp).
		Msg(r.Description)
	return nil
}

// Fanout appends to every sink and returns the first error.
type Fanout []Sink

func (f Fanout) Append(ctx context.Context, r Record) error {
	var first error
	for _, sink := range f {
		if err := sink.Append(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}
