// Package surface binds the relay, the mirror and the onboarding tour to one
// UI surface's mount/unmount cycle.
package surface

import (
	"context"
	"sync"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/errors"
	"github.com/Iron-Ham/focusgate/internal/logging"
	"github.com/Iron-Ham/focusgate/internal/mirror"
	"github.com/Iron-Ham/focusgate/internal/onboarding"
)

// Config wires a Surface.
type Config struct {
	// Name identifies the surface in logs ("popup", "settings", "tour").
	Name string
	// Channel delivers broadcasts. Required.
	Channel broadcast.Channel
	// Mirror receives every broadcast. If nil, an empty one is created.
	Mirror *mirror.Mirror
	// Sequencer, if set, is hydrated on Mount and torn down on Unmount.
	Sequencer *onboarding.Sequencer
	Logger    *logging.Logger
}

// Surface is one mounted UI context.
type Surface struct {
	name   string
	relay  *broadcast.Relay
	mirror *mirror.Mirror
	seq    *onboarding.Sequencer
	logger *logging.Logger

	mu        sync.Mutex
	extra     broadcast.Handlers
	mounted   bool
	unmounted bool
}

// New creates an unmounted Surface.
func New(cfg Config) (*Surface, error) {
	if cfg.Channel == nil {
		return nil, errors.NewValidationError("channel is required").WithField("Channel")
	}
	if cfg.Name == "" {
		cfg.Name = "surface"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger()
	}
	if cfg.Mirror == nil {
		cfg.Mirror = mirror.New(nil)
	}
	logger := cfg.Logger.WithSurface(cfg.Name)

	return &Surface{
		name:   cfg.Name,
		relay:  broadcast.NewRelay(cfg.Channel, logger),
		mirror: cfg.Mirror,
		seq:    cfg.Sequencer,
		logger: logger,
	}, nil
}

// Name returns the surface name.
func (s *Surface) Name() string { return s.name }

// Relay returns the surface's relay.
func (s *Surface) Relay() *broadcast.Relay { return s.relay }

// Mirror returns the surface's mirror.
func (s *Surface) Mirror() *mirror.Mirror { return s.mirror }

// Sequencer returns the onboarding sequencer, or nil.
func (s *Surface) Sequencer() *onboarding.Sequencer { return s.seq }

// Mount subscribes to broadcasts and hydrates the tour. A hydration failure
// is logged and the tour shown; it does not fail the mount. Mounting twice is
// a no-op; mounting after Unmount returns ErrClosed.
func (s *Surface) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return errors.ErrClosed
	}
	if s.mounted {
		s.mu.Unlock()
		return nil
	}
	s.mounted = true
	s.subscribeLocked()
	s.mu.Unlock()

	s.logger.Info("surface mounted")

	if s.seq != nil {
		if err := s.seq.Load(ctx); err != nil {
			s.logger.Debug("tour hydration failed", "error", err.Error())
		}
	}
	return nil
}

// Refresh replaces the surface's own handlers, keeping the mirror's. The
// channel listener is reused.
func (s *Surface) Refresh(h broadcast.Handlers) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extra = h
	if s.mounted && !s.unmounted {
		s.subscribeLocked()
	}
}

func (s *Surface) subscribeLocked() {
	s.relay.Subscribe(broadcast.Compose(s.mirror.Handlers(), s.extra))
}

// Unmount removes the channel listener and cancels the tour's pending
// auto-advance. Safe to call more than once.
func (s *Surface) Unmount() {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return
	}
	s.unmounted = true
	s.mu.Unlock()

	s.relay.Unsubscribe()
	if s.seq != nil {
		s.seq.Unmount()
	}
	s.logger.Info("surface unmounted",
		"delivered", s.relay.Delivered(),
		"faults", s.relay.Faults())
}

// Mounted reports whether the surface is mounted and not yet torn down.
func (s *Surface) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted && !s.unmounted
}
