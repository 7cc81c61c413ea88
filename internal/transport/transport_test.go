// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type recordingTransport struct {
	mu     sync.Mutex
	frames []*Frame
	err    error
	closed bool
}

func (r *recordingTransport) Send(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return r.err
}

func (r *recordingTransport) Close() error {
	r.closed = true
	return r.err
}

func TestSinkCopiesAndFansOut(t *testing.T) {
	a, b := &recordingTransport{}, &recordingTransport{}
	s := NewSink([]Transport{a, b}, WithColors())
	s.now = func() time.Time { return time.Unix(0, 42) }

	levels := []float32{0.1, 0.9}
	colors := []uint32{0xFF000000, 0xFFFFFFFF}
	if err := s.WriteColumn(7, colors, levels); err != nil {
		t.Fatal(err)
	}
	levels[0], colors[0] = -1, 0

	for _, tr := range []*recordingTransport{a, b} {
		if len(tr.frames) != 1 {
			t.Fatalf("got %d frames, want 1", len(tr.frames))
		}
		f := tr.frames[0]
		if f.Index != 7 || f.Timestamp != 42 || f.Levels[0] != 0.1 || f.Colors[0] != 0xFF000000 {
			t.Errorf("frame aliased or wrong: %+v", f)
		}
	}
}

func TestSinkOmitsColorsByDefault(t *testing.T) {
	a := &recordingTransport{}
	s := NewSink([]Transport{a})
	if err := s.WriteColumn(0, []uint32{1}, []float32{0.5}); err != nil {
		t.Fatal(err)
	}
	if a.frames[0].Colors != nil {
		t.Errorf("colors sent without WithColors: %v", a.frames[0].Colors)
	}
}

func TestSinkJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok, bad := &recordingTransport{}, &recordingTransport{err: boom}
	s := NewSink([]Transport{bad, ok})

	if err := s.WriteColumn(1, nil, []float32{0}); !errors.Is(err, boom) {
		t.Errorf("WriteColumn = %v, want %v", err, boom)
	}
	if len(ok.frames) != 1 {
		t.Error("a failing transport stopped delivery to the next")
	}
	if err := s.Close(); !errors.Is(err, boom) || !ok.closed || !bad.closed {
		t.Errorf("Close = %v, closed %v/%v", err, ok.closed, bad.closed)
	}
}

func TestLoggingTransport(t *testing.T) {
	lt := NewLoggingTransport()
	for i := range 3 {
		if err := lt.Send(&Frame{Index: uint64(i), Levels: []float32{0, 1}}); err != nil {
			t.Fatal(err)
		}
	}
	if lt.Frames() != 3 {
		t.Errorf("Frames = %d, want 3", lt.Frames())
	}
	if err := lt.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	wst := newWebSocketTransport()
	srv := httptest.NewServer(wst.Handler())
	defer srv.Close()
	defer wst.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for wst.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sent := &Frame{Index: 3, Timestamp: 99, Levels: []float32{0.25, 0.5, 1}}
	if err := wst.Send(sent); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Frame
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Index != 3 || got.Timestamp != 99 || len(got.Levels) != 3 || got.Levels[2] != 1 {
		t.Errorf("received %+v", got)
	}

	if err := wst.Close(); err != nil {
		t.Fatal(err)
	}
	if err := wst.Send(sent); err == nil {
		t.Error("Send after Close should fail")
	}
	if err := wst.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestNewWebSocketTransportListenError(t *testing.T) {
	if _, err := NewWebSocketTransport("256.0.0.1:bad"); err == nil {
		t.Error("expected listen error")
	}
}
