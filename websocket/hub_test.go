package websocket

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anjiri1684/medicall/models"
	"github.com/google/uuid"
)

var hubOnce sync.Once

func startHub() {
	hubOnce.Do(func() { go RunHub() })
}

type fakeConn struct {
	mu       sync.Mutex
	frames   []interface{}
	inflight int32
	overlap  int32
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if atomic.AddInt32(&c.inflight, 1) > 1 {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(time.Millisecond)

	c.mu.Lock()
	c.frames = append(c.frames, v)
	c.mu.Unlock()

	atomic.AddInt32(&c.inflight, -1)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func waitForFrames(t *testing.T, conn *fakeConn, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn.frameCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d frames, got %d", want, conn.frameCount())
}

func TestBroadcastReachesWholeRoom(t *testing.T) {
	startHub()

	bookingID := uuid.New()
	sender := &fakeConn{}
	peer := &fakeConn{}
	outsider := &fakeConn{}

	senderClient := &Client{UserID: uuid.New(), BookingID: bookingID, Conn: sender}
	peerClient := &Client{UserID: uuid.New(), BookingID: bookingID, Conn: peer}
	outsiderClient := &Client{UserID: uuid.New(), BookingID: uuid.New(), Conn: outsider}

	Register <- senderClient
	Register <- peerClient
	Register <- outsiderClient
	defer func() {
		Unregister <- senderClient
		Unregister <- peerClient
		Unregister <- outsiderClient
	}()

	Broadcast <- &models.ChatMessage{
		ID:        uuid.New(),
		BookingID: bookingID,
		SenderID:  senderClient.UserID,
		Body:      "on my way",
	}

	// The sender's own connection gets the frame too.
	waitForFrames(t, sender, 1)
	waitForFrames(t, peer, 1)
	if outsider.frameCount() != 0 {
		t.Errorf("client outside the room received %d frames", outsider.frameCount())
	}
}

func TestClientWritesAreSerialized(t *testing.T) {
	conn := &fakeConn{}
	client := &Client{UserID: uuid.New(), BookingID: uuid.New(), Conn: conn}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = client.WriteJSON("frame")
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&conn.overlap) == 1 {
		t.Error("concurrent writes reached the connection")
	}
	if conn.frameCount() != 16 {
		t.Errorf("frames = %d, want 16", conn.frameCount())
	}
}
