package websocket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/domain/ports"
	"todo-api/infrastructure/messaging"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []Message
	closed   bool
	failWith error
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, v.(Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message{}, c.messages...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startManager(t *testing.T) *WebSocketManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	m := NewWebSocketManager()
	go m.Run(ctx)
	t.Cleanup(cancel)
	return m
}

func TestBroadcastOnlyReachesOwner(t *testing.T) {
	m := startManager(t)
	alice, bob := uuid.New(), uuid.New()
	aliceTab1, aliceTab2, bobConn := &fakeConn{}, &fakeConn{}, &fakeConn{}

	m.RegisterClient(aliceTab1, alice)
	m.RegisterClient(aliceTab2, alice)
	m.RegisterClient(bobConn, bob)
	require.Eventually(t, func() bool {
		return m.GetUserConnections(alice) == 2 && m.GetUserConnections(bob) == 1
	}, time.Second, 10*time.Millisecond)

	m.BroadcastToUser(alice, "task.created", "hello")

	assert.Eventually(t, func() bool {
		return len(aliceTab1.received()) == 1 && len(aliceTab2.received()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, bobConn.received())
	assert.Equal(t, "task.created", aliceTab1.received()[0].Type)
}

func TestFailedWriteRemovesConnection(t *testing.T) {
	m := startManager(t)
	userID := uuid.New()
	broken := &fakeConn{failWith: errors.New("broken pipe")}

	m.RegisterClient(broken, userID)
	m.BroadcastToUser(userID, "task.updated", nil)

	assert.Eventually(t, func() bool {
		return m.GetUserConnections(userID) == 0 && broken.isClosed()
	}, time.Second, 10*time.Millisecond)
}

func TestUnregisterClient(t *testing.T) {
	m := startManager(t)
	userID := uuid.New()
	conn := &fakeConn{}

	m.RegisterClient(conn, userID)
	m.UnregisterClient(conn)

	assert.Eventually(t, func() bool {
		return m.GetUserConnections(userID) == 0 && m.GetTotalConnections() == 0 && conn.isClosed()
	}, time.Second, 10*time.Millisecond)
}

func TestTaskBroadcasterForwardsEvents(t *testing.T) {
	m := startManager(t)
	bus := messaging.NewLocalTaskEventBus()
	broadcaster := NewTaskBroadcaster(bus, m)
	require.NoError(t, broadcaster.Start(context.Background()))
	t.Cleanup(func() { _ = broadcaster.Stop() })

	userID := uuid.New()
	conn := &fakeConn{}
	m.RegisterClient(conn, userID)
	require.Eventually(t, func() bool {
		return m.GetUserConnections(userID) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.PublishTaskEvent(context.Background(), &ports.TaskEvent{
		Type:   ports.TaskSubtaskChanged,
		TaskID: uuid.NewString(),
		UserID: userID.String(),
		Status: "completed",
	}))
	// user id เสีย ไม่ส่ง
	require.NoError(t, bus.PublishTaskEvent(context.Background(), &ports.TaskEvent{Type: ports.TaskCreated, UserID: "bad"}))

	assert.Eventually(t, func() bool {
		return len(conn.received()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "task.subtask_changed", conn.received()[0].Type)
}

// stuckConn จำลอง client ที่ไม่อ่านข้อมูล WriteJSON ค้างจนกว่าจะ Close
type stuckConn struct {
	release chan struct{}
	once    sync.Once
}

func newStuckConn() *stuckConn {
	return &stuckConn{release: make(chan struct{})}
}

func (c *stuckConn) WriteJSON(v interface{}) error {
	<-c.release
	return errors.New("connection closed")
}

func (c *stuckConn) Close() error {
	c.once.Do(func() { close(c.release) })
	return nil
}

func TestStuckClientDoesNotBlockBroadcast(t *testing.T) {
	m := startManager(t)
	stuckUser, otherUser := uuid.New(), uuid.New()
	stuck := newStuckConn()
	healthy := &fakeConn{}

	m.RegisterClient(stuck, stuckUser)
	m.RegisterClient(healthy, otherUser)
	require.Eventually(t, func() bool {
		return m.GetTotalConnections() == 2
	}, time.Second, 10*time.Millisecond)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			m.BroadcastToUser(stuckUser, "task.updated", i)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastToUser blocked on a stuck connection")
	}

	// client ที่ค้างถูกตัดเมื่อ buffer เต็ม
	assert.Eventually(t, func() bool {
		return m.GetUserConnections(stuckUser) == 0
	}, time.Second, 10*time.Millisecond)

	m.BroadcastToUser(otherUser, "task.created", "still alive")
	assert.Eventually(t, func() bool {
		return len(healthy.received()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStuckClientDoesNotBlockPublisher(t *testing.T) {
	m := startManager(t)
	bus := messaging.NewLocalTaskEventBus()
	broadcaster := NewTaskBroadcaster(bus, m)
	require.NoError(t, broadcaster.Start(context.Background()))
	t.Cleanup(func() { _ = broadcaster.Stop() })

	userID := uuid.New()
	m.RegisterClient(newStuckConn(), userID)
	require.Eventually(t, func() bool {
		return m.GetUserConnections(userID) == 1
	}, time.Second, 10*time.Millisecond)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			_ = bus.PublishTaskEvent(context.Background(), &ports.TaskEvent{
				Type:   ports.TaskCreated,
				TaskID: uuid.NewString(),
				UserID: userID.String(),
			})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing task events blocked on a stuck connection")
	}
}
