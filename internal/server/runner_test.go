package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/plexbridge/internal/bridge"
	"github.com/vmunix/plexbridge/internal/mediaserver"
	"github.com/vmunix/plexbridge/internal/plex"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeHandle is a minimal Handle whose Identity calls are counted.
type fakeHandle struct {
	pings atomic.Int32
}

func (f *fakeHandle) Identity() (*plex.Identity, error) {
	f.pings.Add(1)
	return &plex.Identity{Name: "velcro", Version: "1.42.2"}, nil
}

func (f *fakeHandle) Sections() ([]plex.Section, error)            { return nil, nil }
func (f *fakeHandle) FindSection(string) (*plex.Section, error)    { return nil, nil }
func (f *fakeHandle) Search(string) ([]plex.Item, error)           { return nil, nil }
func (f *fakeHandle) SectionItems(string) ([]plex.Item, error)     { return nil, nil }
func (f *fakeHandle) SectionCount(string) (int, error)             { return 0, nil }
func (f *fakeHandle) Refresh(string) error                         { return nil }
func (f *fakeHandle) ScanPath(string) error                        { return nil }
func (f *fakeHandle) FindMovie(string, int) (bool, string, error)  { return false, "", nil }
func (f *fakeHandle) FindShow(string) (bool, string, error)        { return false, "", nil }

func TestRunner_HealthLoopEstablishesConnection(t *testing.T) {
	pool := bridge.NewPool(2, 8, testLogger())
	defer pool.Close()

	handle := &fakeHandle{}
	svc := mediaserver.New(pool, func() (mediaserver.Handle, error) {
		return handle, nil
	}, nil, testLogger())

	runner := NewRunner(svc, nil, Config{PollInterval: 10 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	// The first ping connects; later ticks keep pinging.
	require.Eventually(t, func() bool {
		return handle.pings.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, mediaserver.StateConnected, svc.Status().State)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_HealthLoopSurvivesFailures(t *testing.T) {
	pool := bridge.NewPool(2, 8, testLogger())
	defer pool.Close()

	var attempts atomic.Int32
	svc := mediaserver.New(pool, func() (mediaserver.Handle, error) {
		attempts.Add(1)
		return nil, errors.New("connection refused")
	}, nil, testLogger())

	runner := NewRunner(svc, nil, Config{PollInterval: 10 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	// Failed pings must not kill the loop; each tick retries the connect.
	require.Eventually(t, func() bool {
		return attempts.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, mediaserver.StateDisconnected, svc.Status().State)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}
