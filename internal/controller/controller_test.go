package controller

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/recall/internal/capture"
	"github.com/runnerr0/recall/internal/storage"
)

// nullSource produces empty frames.
type nullSource struct{ calls atomic.Int64 }

func (s *nullSource) Capture(ctx context.Context) (*capture.Frame, error) {
	s.calls.Add(1)
	return &capture.Frame{Image: []byte("png")}, nil
}

// nullOCR returns no text, keeping ticks away from embedding and storage.
type nullOCR struct{}

func (nullOCR) Text(ctx context.Context, image []byte) (string, error) { return "", nil }

// blockingOCR never returns, simulating a wedged external process.
type blockingOCR struct{ block chan struct{} }

func (o *blockingOCR) Text(ctx context.Context, image []byte) (string, error) {
	<-o.block
	return "", nil
}

// nullStore accepts and forgets everything.
type nullStore struct{}

func (nullStore) InsertEntry(ctx context.Context, e storage.NewEntry) (int64, bool, error) {
	return 1, true, nil
}
func (nullStore) AllEntries(ctx context.Context) ([]storage.Entry, error) { return nil, nil }
func (nullStore) EntriesPage(ctx context.Context, q storage.PageQuery) ([]storage.Entry, int64, error) {
	return nil, 0, nil
}
func (nullStore) EntryByID(ctx context.Context, id int64) (*storage.Entry, error) { return nil, nil }
func (nullStore) Timestamps(ctx context.Context) ([]int64, error)                 { return nil, nil }
func (nullStore) UniqueApps(ctx context.Context) ([]storage.AppCount, error)      { return nil, nil }
func (nullStore) Stats(ctx context.Context) (*storage.Stats, error)               { return nil, nil }
func (nullStore) Close() error                                                    { return nil }

func newTestLoop(t *testing.T, ocr capture.OCR) *capture.Loop {
	t.Helper()
	if ocr == nil {
		ocr = nullOCR{}
	}
	return capture.NewLoop(capture.LoopConfig{
		ScreenshotsDir: t.TempDir(),
		Interval:       time.Millisecond,
		PausePoll:      time.Millisecond,
	}, &nullSource{}, ocr, nil, nullStore{}, nil)
}

func TestStartStop_Lifecycle(t *testing.T) {
	state := NewState()
	ctrl := New(state, newTestLoop(t, nil), nil, nil)

	assert.False(t, state.Running())
	assert.False(t, ctrl.IsRecording())

	ctrl.Start()
	assert.True(t, state.Running())
	assert.True(t, ctrl.IsRecording())

	ctrl.Stop()
	assert.False(t, state.Running())
	assert.False(t, ctrl.IsRecording())
}

func TestStart_WhileRunningIsNoOp(t *testing.T) {
	state := NewState()
	ctrl := New(state, newTestLoop(t, nil), nil, nil)

	ctrl.Start()
	ctrl.Start()
	ctrl.Start()
	assert.True(t, state.Running())

	// A single Stop fully unwinds it.
	ctrl.Stop()
	assert.False(t, state.Running())
}

func TestStop_WhileIdleIsNoOp(t *testing.T) {
	state := NewState()
	ctrl := New(state, newTestLoop(t, nil), nil, nil)

	ctrl.Stop()
	ctrl.Stop()
	assert.False(t, state.Running())
}

func TestStop_BoundedWhenLoopWedged(t *testing.T) {
	ocr := &blockingOCR{block: make(chan struct{})}
	t.Cleanup(func() { close(ocr.block) })

	state := NewState()
	ctrl := New(state, newTestLoop(t, ocr), nil, nil, WithStopTimeout(50*time.Millisecond))

	ctrl.Start()
	// Let the loop enter the blocking OCR call.
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Stop()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return within its bound")
	}
	assert.False(t, state.Running())
}

// freeAddr reserves a loopback port and releases it for the server to take.
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRestart_ServerComesBack(t *testing.T) {
	addr := freeAddr(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	newServer := func() *http.Server {
		return &http.Server{Addr: addr, Handler: mux}
	}

	state := NewState()
	ctrl := New(state, newTestLoop(t, nil), newServer, nil)

	ping := func() bool {
		resp, err := http.Get("http://" + addr + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}

	ctrl.Start()
	require.Eventually(t, ping, 2*time.Second, 10*time.Millisecond)

	ctrl.Stop()
	assert.False(t, ping(), "stopped controller must not keep serving")

	// A second run gets a fresh server; Shutdown spends the old one.
	ctrl.Start()
	defer ctrl.Stop()
	require.Eventually(t, ping, 2*time.Second, 10*time.Millisecond,
		"server must serve again after a stop/start cycle")
}

func TestPauseResume(t *testing.T) {
	state := NewState()
	ctrl := New(state, newTestLoop(t, nil), nil, nil)

	ctrl.Start()
	defer ctrl.Stop()

	require.True(t, ctrl.IsRecording())

	ctrl.PauseRecording()
	assert.False(t, ctrl.IsRecording())
	assert.True(t, state.Paused())
	assert.True(t, state.Running(), "paused is still running")

	ctrl.ResumeRecording()
	assert.True(t, ctrl.IsRecording())
	assert.False(t, state.Paused())
}

func TestStart_ClearsStalePause(t *testing.T) {
	state := NewState()
	ctrl := New(state, newTestLoop(t, nil), nil, nil)

	ctrl.Start()
	ctrl.PauseRecording()
	ctrl.Stop()

	// A fresh start must not inherit the previous run's pause.
	ctrl.Start()
	defer ctrl.Stop()
	assert.True(t, ctrl.IsRecording())
}

func TestState_Recording(t *testing.T) {
	state := NewState()

	assert.False(t, state.IsRecording(), "not running yet")

	state.setRunning(true)
	assert.True(t, state.IsRecording())

	state.Pause()
	assert.False(t, state.IsRecording())
	assert.True(t, state.Running())

	state.Resume()
	assert.True(t, state.IsRecording())

	state.setRunning(false)
	assert.False(t, state.IsRecording())
}
