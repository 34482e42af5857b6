// Package adaptersvc owns the GameCube adapter USB session and the background
// poll loop that keeps the latest decoded controller state available.
package adaptersvc

import (
	"context"
	"errors"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/gcbridge/gcbridge/gcpad"
	"github.com/gcbridge/gcbridge/n64"
	"github.com/gcbridge/gcbridge/pkg/statecell"
)

// ReportSource is the blocking read operation of a connected adapter session.
type ReportSource interface {
	Read(ctx context.Context, timeout time.Duration) (gcpad.RawReport, error)
}

var defaultOptions = serviceOptions{
	pollInterval: 1 * time.Millisecond,
	readTimeout:  16 * time.Millisecond,
}

type serviceOptions struct {
	pollInterval time.Duration
	readTimeout  time.Duration
}

type Option func(*serviceOptions)

func WithPollInterval(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d > 0 {
			o.readTimeout = d
		}
	}
}

// Service polls the adapter and publishes each decoded report into a state
// cell. The cell is the only state shared with consumers; the USB handle is
// touched exclusively by the poll loop.
type Service struct {
	log    *zap.Logger
	source ReportSource

	pollInterval *atomic.Duration
	readTimeout  *atomic.Duration

	cell    *statecell.Cell[gcpad.InputState]
	ready   chan struct{}
	started *atomic.Bool

	cycles     *xsync.Counter
	readErrors *xsync.Counter
}

func New(log *zap.Logger, source ReportSource, opts ...Option) *Service {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{
		log:          log,
		source:       source,
		pollInterval: atomic.NewDuration(options.pollInterval),
		readTimeout:  atomic.NewDuration(options.readTimeout),
		cell:         statecell.New(gcpad.InputState{}),
		ready:        make(chan struct{}),
		started:      atomic.NewBool(false),
		cycles:       xsync.NewCounter(),
		readErrors:   xsync.NewCounter(),
	}
}

// SetPollInterval applies a config reload to the running loop.
func (s *Service) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval.Store(d)
	}
}

// SetReadTimeout applies a config reload to the running loop.
func (s *Service) SetReadTimeout(d time.Duration) {
	if d > 0 {
		s.readTimeout.Store(d)
	}
}

// Ready is closed once the cell has been seeded and queries return live data.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Start seeds the cell with one synchronous read, then polls until ctx is
// cancelled. A failed read keeps the previously published state for that
// cycle; a single transient transfer error never stops input delivery.
// Cancellation is cooperative: an in-flight transfer is not interrupted, the
// loop exits after the current iteration.
func (s *Service) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("service already started")
	}

	seed, err := s.readState(ctx)
	if err != nil {
		// All ports disconnected until the first successful read.
		s.log.Warn("initial adapter read failed", zap.Error(err))
		seed = gcpad.InputState{}
	}
	s.cell.Publish(seed)
	close(s.ready)
	s.log.Info("poll loop started", zap.Duration("interval", s.pollInterval.Load()))

	t := time.NewTimer(s.pollInterval.Load())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("poll loop stopped",
				zap.Int64("cycles", s.cycles.Value()),
				zap.Int64("readErrors", s.readErrors.Value()))
			return nil
		case <-t.C:
		}

		state, err := s.readState(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			// Shutdown raced the transfer; the Done branch exits next round.
		case err != nil:
			s.readErrors.Inc()
			s.log.Debug("adapter read failed", zap.Error(err))
		default:
			s.cell.Publish(state)
			s.cycles.Inc()
		}
		t.Reset(s.pollInterval.Load())
	}
}

func (s *Service) readState(ctx context.Context) (gcpad.InputState, error) {
	raw, err := s.source.Read(ctx, s.readTimeout.Load())
	if err != nil {
		return gcpad.InputState{}, err
	}
	return gcpad.Decode(raw), nil
}

// Snapshot returns the latest decoded state of all four ports.
func (s *Service) Snapshot() gcpad.InputState {
	return s.cell.Snapshot()
}

// Query returns the mapped state of one port. It reports false for ports that
// are out of range, not yet seeded, or disconnected.
func (s *Service) Query(port int) (n64.Mapped, bool) {
	select {
	case <-s.ready:
	default:
		return n64.Mapped{}, false
	}
	state := s.cell.Snapshot()
	if !state.Connected(port) {
		return n64.Mapped{}, false
	}
	return n64.Map(state.Port(port)), true
}

// Stats returns the number of published poll cycles and failed reads.
func (s *Service) Stats() (cycles, readErrors int64) {
	return s.cycles.Value(), s.readErrors.Value()
}
