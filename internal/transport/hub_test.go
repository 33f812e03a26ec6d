package transport

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/san-kum/vehiclesim/internal/sim"
	"github.com/san-kum/vehiclesim/internal/vehicle"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()

	srv := httptest.NewServer(hub.Router())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHubCommandIngress(t *testing.T) {
	cell := sim.NewCommandCell()
	hub := NewHub(cell, zerolog.Nop())

	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	want := vehicle.Command{Accel: 1.5, Steer: -0.2}
	if err := conn.WriteJSON(want); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cell.Load() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("command never reached cell: got %+v, expected %+v", cell.Load(), want)
}

func TestHubStateEgress(t *testing.T) {
	cell := sim.NewCommandCell()
	hub := NewHub(cell, zerolog.Nop())

	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	// Wait for the subscriber to be registered before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.SubscriberCount() == 0 {
		t.Fatal("subscriber never attached")
	}

	est := vehicle.Estimate{
		Timestamp: time.Unix(42, 0).UTC(),
		X:         -300, Y: -450, Psi: 1.0, V: 2.5, A: 0.5, Df: 0.01,
	}
	hub.OnEstimate(est)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got vehicle.Estimate
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if !got.Timestamp.Equal(est.Timestamp) {
		t.Errorf("timestamp: got %v, expected %v", got.Timestamp, est.Timestamp)
	}
	got.Timestamp = est.Timestamp
	if got != est {
		t.Errorf("estimate mismatch: got %+v, expected %+v", got, est)
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	cell := sim.NewCommandCell()
	hub := NewHub(cell, zerolog.Nop())

	_, cleanup := dialHub(t, hub)
	defer cleanup()

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	// Overrun the send buffer faster than the write loop can drain a
	// client that never reads: the subscriber must be detached, never
	// blocking the publisher.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10*sendBuffer; i++ {
			hub.OnEstimate(vehicle.Estimate{X: float64(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}
}
