package audit

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotState struct {
	Status string `json:"status"`
	Level  int    `json:"level"`
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(Kind_Tournament, 42, "floor", "pause", "clock paused",
		snapshotState{Status: "running", Level: 3},
		snapshotState{Status: "paused", Level: 3},
	)
	require.NoError(t, err)

	_, err = uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.Equal(t, Kind_Tournament, r.Kind)
	assert.Equal(t, int64(42), r.EntityID)
	assert.Equal(t, `{"status":"running","level":3}`, r.Before)
	assert.Equal(t, `{"status":"paused","level":3}`, r.After)
	assert.False(t, r.Timestamp.IsZero())
}

func TestNewRecord_NoSnapshots(t *testing.T) {
	r, err := NewRecord(Kind_Player, 7, "floor", "create", "player created", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Before)
	assert.Empty(t, r.After)
}

func TestNewRecord_UnencodableSnapshot(t *testing.T) {
	_, err := NewRecord(Kind_Player, 7, "floor", "create", "player created", make(chan int), nil)
	assert.Error(t, err)
}

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	for i, kind := range []Kind{Kind_Tournament, Kind_Championship, Kind_Tournament} {
		r, _ := NewRecord(kind, 1, "floor", "action", "", nil, nil)
		r.Description = strings.Repeat("x", i)
		require.NoError(t, sink.Append(ctx, r))
	}

	assert.Len(t, sink.Records(), 3)
	assert.Len(t, sink.ByEntity(Kind_Tournament, 1), 2)
	assert.Len(t, sink.ByEntity(Kind_Tournament, 2), 0)

	// returned slice is a copy
	records := sink.Records()
	records[0].Action = "changed"
	assert.Equal(t, "action", sink.Records()[0].Action)
}

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLoggerSink(zerolog.New(&buf))

	r, _ := NewRecord(Kind_Championship, 3, "director", "recompute", "standings recomputed", nil, nil)
	require.NoError(t, sink.Append(context.Background(), r))

	line := buf.String()
	assert.Contains(t, line, `"kind":"championship"`)
	assert.Contains(t, line, `"action":"recompute"`)
	assert.Contains(t, line, `"message":"standings recomputed"`)
}

type failingSink struct{}

func (failingSink) Append(ctx context.Context, r Record) error {
	return errors.New("disk full")
}

func TestFanout(t *testing.T) {
	memory := NewMemorySink()
	fanout := Fanout{failingSink{}, memory, Nop{}}

	r, _ := NewRecord(Kind_Tournament, 1, "floor", "start", "", nil, nil)
	err := fanout.Append(context.Background(), r)
	assert.EqualError(t, err, "disk full")
	assert.Len(t, memory.Records(), 1, "remaining sinks still receive the record")
}
