package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	feed   chan []byte
	closed chan struct{}
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{feed: make(chan []byte, 8), closed: make(chan struct{})}
}

func (f *fakeSubscriber) Subscribe(ctx context.Context) (<-chan []byte, func() error) {
	return f.feed, func() error {
		close(f.closed)
		return nil
	}
}

func startHub(t *testing.T) (*Hub, *fakeSubscriber, context.CancelFunc) {
	t.Helper()
	sub := newFakeSubscriber()
	h := NewHub(sub)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, sub, cancel
}

func register(t *testing.T, h *Hub, id string) *Client {
	t.Helper()
	c := NewClient(h, nil, id)
	require.True(t, h.QueueMessage(HubMessage{Type: MessageRegister, Client: c}))
	return c
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID())
		return nil
	}
}

func TestHub_BroadcastToAllClients(t *testing.T) {
	h, sub, _ := startHub(t)
	c1 := register(t, h, "c1")
	c2 := register(t, h, "c2")
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	sub.feed <- []byte(`{"type":"thought.created"}`)

	assert.Equal(t, `{"type":"thought.created"}`, string(receive(t, c1)))
	assert.Equal(t, `{"type":"thought.created"}`, string(receive(t, c2)))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h, _, _ := startHub(t)
	c := register(t, h, "c1")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.True(t, h.QueueMessage(HubMessage{Type: MessageUnregister, Client: c}))

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	h, sub, _ := startHub(t)
	slow := register(t, h, "slow")
	fast := register(t, h, "fast")
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	// 填满 slow 的缓冲区
	for i := 0; i < clientSendBuffer; i++ {
		slow.send <- []byte("filler")
	}
	sub.feed <- []byte("event")

	assert.Equal(t, "event", string(receive(t, fast)))
	assert.Len(t, slow.send, clientSendBuffer)
}

func TestHub_StopsOnContextCancel(t *testing.T) {
	h, sub, cancel := startHub(t)
	c := register(t, h, "c1")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-sub.closed:
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed")
	}
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok)
}
