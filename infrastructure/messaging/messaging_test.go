package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/domain/ports"
	natspkg "todo-api/infrastructure/nats"
)

func TestLocalTaskEventBus(t *testing.T) {
	bus := NewLocalTaskEventBus()
	ctx := context.Background()

	var received []*ports.TaskEvent
	require.NoError(t, bus.Subscribe(ctx, func(event *ports.TaskEvent) {
		panic("handler failure should not stop others")
	}))
	require.NoError(t, bus.Subscribe(ctx, func(event *ports.TaskEvent) {
		received = append(received, event)
	}))

	event := &ports.TaskEvent{Type: ports.TaskCreated, TaskID: "t1", UserID: "u1", Status: "pending"}
	require.NoError(t, bus.PublishTaskEvent(ctx, event))
	require.Len(t, received, 1)
	assert.Equal(t, ports.TaskCreated, received[0].Type)

	require.NoError(t, bus.Unsubscribe())
	require.NoError(t, bus.PublishTaskEvent(ctx, event))
	assert.Len(t, received, 1)
}

func TestNATSMessageConversion(t *testing.T) {
	occurred := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	event := &ports.TaskEvent{
		Type:       ports.TaskSubtaskChanged,
		TaskID:     "t1",
		UserID:     "u1",
		Status:     "completed",
		OccurredAt: occurred,
	}

	msg := toNATSMessage(event)
	assert.Equal(t, "task.subtask_changed", msg.Type)
	assert.Equal(t, occurred.UnixMilli(), msg.OccurredAt)

	back := fromNATSMessage(msg)
	require.NotNil(t, back)
	assert.Equal(t, *event, *back)

	assert.Nil(t, fromNATSMessage(nil))
	assert.Nil(t, fromNATSMessage(&natspkg.TaskEventMessage{Type: "task.created", TaskID: "t1"}))
}

func TestNATSPublisherRejectsInvalidEvents(t *testing.T) {
	pub := NewNATSTaskEventPublisher(natspkg.NewPublisher(nil, ""))

	assert.Error(t, pub.PublishTaskEvent(context.Background(), nil))
	assert.Error(t, pub.PublishTaskEvent(context.Background(), &ports.TaskEvent{TaskID: "t1"}))
}
