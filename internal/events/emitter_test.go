package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	seen []*Event
	err  error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.seen = append(h.seen, event)
	return h.err
}

func TestNewEventAndUnmarshalPayload(t *testing.T) {
	payload := TaskStatusChangedPayload{
		TaskTitle: "Quarterly report",
		OldStatus: "ongoing",
		NewStatus: "completed",
	}

	event, err := NewEvent(EventTaskStatusChanged, payload)
	require.NoError(t, err)

	assert.Equal(t, EventTaskStatusChanged, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded TaskStatusChangedPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestEmitEvent_AllHandlersReceive(t *testing.T) {
	emitter := NewInMemoryEventEmitter(slog.Default())

	h1 := &recordingHandler{}
	h2 := &recordingHandler{}
	emitter.RegisterHandler(h1)
	emitter.RegisterHandler(h2)

	event, err := NewEvent(EventTaskStatusChanged, TaskStatusChangedPayload{})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, h1.seen, 1)
	assert.Len(t, h2.seen, 1)
}

func TestEmitEvent_HandlerErrorDoesNotStopOthers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(slog.Default())

	failing := &recordingHandler{err: errors.New("handler failed")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event, err := NewEvent(EventTaskStatusChanged, TaskStatusChangedPayload{})
	require.NoError(t, err)

	err = emitter.EmitEvent(context.Background(), event)
	assert.EqualError(t, err, "handler failed")
	assert.Len(t, healthy.seen, 1)
}

func TestEmitEvent_NoHandlers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(slog.Default())

	event, err := NewEvent(EventTaskStatusChanged, TaskStatusChangedPayload{})
	require.NoError(t, err)

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}
