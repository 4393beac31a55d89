package collab

import (
	"log/slog"
	"sync"
	"testing"
)

func TestClient_CloseRacingEnqueueDoesNotPanic(t *testing.T) {
	hub := NewHub(slog.Default())
	for i := 0; i < 2000; i++ {
		c := newTestClient(hub, "conn-race")
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 8; j++ {
					c.enqueue([]byte("x"))
				}
			}()
		}
		c.close()
		wg.Wait()

		if c.enqueue([]byte("x")) {
			t.Fatal("enqueue on closed client should report false")
		}
	}
}

func TestClient_CloseIsIdempotentAndSignalsShutdown(t *testing.T) {
	hub := NewHub(slog.Default())
	c := newTestClient(hub, "conn-a")

	c.close()
	c.close()

	select {
	case <-c.done:
	default:
		t.Fatal("done channel should be closed after close")
	}
}
