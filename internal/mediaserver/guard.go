package mediaserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/vmunix/plexbridge/internal/bridge"
	"github.com/vmunix/plexbridge/internal/events"
	"github.com/vmunix/plexbridge/internal/plex"
)

// State describes the connect guard's position.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ensure returns the cached handle, establishing the connection first if
// necessary. Concurrent callers while disconnected converge on a single
// connect; they all receive the same handle or the same error.
func (s *Service) ensure(ctx context.Context) (Handle, error) {
	s.mu.Lock()
	if s.state == StateConnected {
		h := s.handle
		s.mu.Unlock()
		return h, nil
	}
	s.mu.Unlock()

	// The connect callable runs on the first caller's goroutine with the
	// first caller's context; later arrivals share its outcome.
	v, err, _ := s.flight.Do("connect", func() (any, error) {
		return s.establish(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(Handle), nil
}

// establish runs the connection-construction callable on the bridge pool
// and moves the guard Connecting -> Connected (or back to Disconnected on
// failure). Only ever called inside the singleflight.
func (s *Service) establish(ctx context.Context) (Handle, error) {
	s.mu.Lock()
	s.state = StateConnecting
	s.mu.Unlock()

	type connection struct {
		handle   Handle
		identity *plex.Identity
	}

	conn, err := bridge.Call(ctx, s.pool, func() (connection, error) {
		h, err := s.connect()
		if err != nil {
			return connection{}, err
		}
		identity, err := h.Identity()
		if err != nil {
			return connection{}, err
		}
		return connection{handle: h, identity: identity}, nil
	})
	if err != nil {
		s.mu.Lock()
		s.state = StateDisconnected
		s.mu.Unlock()

		s.logger.Error("connect failed", "error", err)
		s.publish(ctx, &events.ServerConnectFailed{
			BaseEvent: events.NewBaseEvent(events.EventServerConnectFailed, events.EntityServer, 0),
			Reason:    err.Error(),
		})
		return nil, err
	}

	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state = StateConnected
	s.handle = conn.handle
	s.identity = conn.identity
	s.connectedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("connected to media server",
		"server", conn.identity.Name,
		"version", conn.identity.Version,
		"generation", generation)
	s.publish(ctx, &events.ServerConnected{
		BaseEvent:  events.NewBaseEvent(events.EventServerConnected, events.EntityServer, generation),
		ServerName: conn.identity.Name,
		Version:    conn.identity.Version,
	})

	return conn.handle, nil
}

// noteFailure inspects an operation error and invalidates the handle it
// came from when the error indicates lost connectivity. The error itself
// still propagates to the caller untouched; the next dependent operation
// reconnects lazily.
func (s *Service) noteFailure(ctx context.Context, h Handle, err error) {
	if !isTransportError(err) {
		return
	}

	s.mu.Lock()
	// Another goroutine may have reconnected already; only invalidate the
	// handle the failure was observed on.
	if s.handle != h || s.state != StateConnected {
		s.mu.Unlock()
		return
	}
	generation := s.generation
	s.state = StateDisconnected
	s.handle = nil
	s.identity = nil
	s.mu.Unlock()

	s.logger.Warn("connection lost", "generation", generation, "error", err)
	s.publish(ctx, &events.ServerLost{
		BaseEvent: events.NewBaseEvent(events.EventServerLost, events.EntityServer, generation),
		Reason:    err.Error(),
	})
}

// isTransportError reports whether err looks like lost connectivity
// rather than a server-side or bridge-side failure. Bridge sentinel and
// context errors never count: the handle itself is not implicated.
func isTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, bridge.ErrPoolClosed) || errors.Is(err, bridge.ErrPoolSaturated) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
