package nats

import (
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskSubjects(t *testing.T) {
	assert.Equal(t, "tasks.events.u1", TaskSubject("tasks.events", "u1"))
	assert.Equal(t, "tasks.events.u1", TaskSubject("tasks.events.", "u1"))
	assert.Equal(t, "tasks.events.*", TaskWildcard("tasks.events"))
}

func TestSubscriberDispatchesToHandlers(t *testing.T) {
	sub := NewSubscriber(nil, "")

	var got []*TaskEventMessage
	sub.OnTaskEvent(func(msg *TaskEventMessage) {
		panic("boom")
	})
	sub.OnTaskEvent(func(msg *TaskEventMessage) {
		got = append(got, msg)
	})

	data, err := json.Marshal(&TaskEventMessage{Type: "task.created", TaskID: "t1", UserID: "u1", Status: "pending"})
	require.NoError(t, err)

	sub.handleMessage(&nats.Msg{Subject: "tasks.events.u1", Data: data})
	sub.handleMessage(&nats.Msg{Subject: "tasks.events.u1", Data: []byte("not json")})

	require.Len(t, got, 1)
	assert.Equal(t, "task.created", got[0].Type)
	assert.Equal(t, "t1", got[0].TaskID)
	assert.False(t, sub.IsRunning())
}
