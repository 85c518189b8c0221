package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/bobby-s-dev/smhi-warnings/internal/observability"
	"github.com/bobby-s-dev/smhi-warnings/pkg/client"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const unknownErrorMessage = "Unknown error"

var ErrNotMounted = errors.New("screen is not mounted")

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseReady   Phase = "ready"
)

type ScreenKind string

const (
	NationalScreen ScreenKind = "national"
	LocalScreen    ScreenKind = "local"
)

// State is what a screen currently shows. Warnings is only set when ready,
// Message only on error.
type State struct {
	Phase     Phase            `json:"phase"`
	Message   string           `json:"message,omitempty"`
	Warnings  []models.Warning `json:"warnings,omitempty"`
	County    string           `json:"county,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// WarningSource returns the raw warning document.
type WarningSource interface {
	FetchWarnings(ctx context.Context) ([]byte, error)
}

// Screen drives one warning list through loading, error and ready. Every
// fetch carries a generation number; results from a superseded fetch or
// arriving after Unmount are dropped.
type Screen struct {
	kind       ScreenKind
	source     WarningSource
	normalizer *Normalizer
	clock      clockwork.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics

	mu          sync.Mutex
	state       State
	changed     chan struct{}
	county      string
	mounted     bool
	generation  uint64
	parent      context.Context
	mountCtx    context.Context
	unmount     context.CancelFunc
	cancelFetch context.CancelFunc
}

func NewNationalScreen(source WarningSource, normalizer *Normalizer, logger *zap.Logger, metrics *observability.Metrics) *Screen {
	return newScreen(NationalScreen, source, normalizer, "", logger, metrics)
}

func NewLocalScreen(source WarningSource, normalizer *Normalizer, county string, logger *zap.Logger, metrics *observability.Metrics) *Screen {
	return newScreen(LocalScreen, source, normalizer, county, logger, metrics)
}

func newScreen(kind ScreenKind, source WarningSource, normalizer *Normalizer, county string, logger *zap.Logger, metrics *observability.Metrics) *Screen {
	return &Screen{
		kind:       kind,
		source:     source,
		normalizer: normalizer,
		clock:      normalizer.clock,
		logger:     logger.With(zap.String("screen", string(kind))),
		metrics:    metrics,
		state:      State{Phase: PhaseLoading, County: county},
		changed:    make(chan struct{}),
		county:     county,
	}
}

func (s *Screen) Kind() ScreenKind {
	return s.kind
}

// Mount starts the initial fetch. ctx bounds the lifetime of the mount; it
// is not a per-request context. Mounting an already mounted screen is a no-op.
func (s *Screen) Mount(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return
	}
	s.mounted = true
	s.parent = ctx
	s.mountCtx, s.unmount = context.WithCancel(ctx)

	s.logger.Info("Screen mounted")
	s.startFetchLocked()
}

// Unmount cancels any in-flight fetch and suppresses its late result.
func (s *Screen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return
	}
	s.mounted = false
	s.unmount()
	s.cancelFetch = nil

	s.logger.Info("Screen unmounted")
}

// Reload remounts the screen, which issues a fresh fetch.
func (s *Screen) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return ErrNotMounted
	}
	s.unmount()
	s.mountCtx, s.unmount = context.WithCancel(s.parent)

	s.logger.Info("Screen reloaded")
	s.startFetchLocked()
	return nil
}

// SetCounty changes the county a local screen filters on and refetches when
// it differs from the current one. National screens ignore it.
func (s *Screen) SetCounty(county string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kind != LocalScreen || county == s.county {
		return
	}
	s.county = county

	s.logger.Info("Screen county changed", zap.String("county", county))
	if s.mounted {
		s.startFetchLocked()
	} else {
		s.state.County = county
	}
}

func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wait blocks until the screen leaves the loading phase or ctx is done.
func (s *Screen) Wait(ctx context.Context) (State, error) {
	for {
		s.mu.Lock()
		state := s.state
		changed := s.changed
		s.mu.Unlock()

		if state.Phase != PhaseLoading {
			return state, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

func (s *Screen) startFetchLocked() {
	if s.cancelFetch != nil {
		s.cancelFetch()
	}

	s.generation++
	generation := s.generation
	county := s.county

	ctx, cancel := context.WithCancel(s.mountCtx)
	s.cancelFetch = cancel
	s.setStateLocked(State{Phase: PhaseLoading, County: county})

	fetchID := uuid.NewString()
	s.logger.Debug("Fetch started",
		zap.String("fetch_id", fetchID),
		zap.Uint64("generation", generation),
		zap.String("county", county))

	go s.fetch(ctx, cancel, generation, county, fetchID)
}

func (s *Screen) fetch(ctx context.Context, cancel context.CancelFunc, generation uint64, county, fetchID string) {
	defer cancel()

	startTime := s.clock.Now()
	state := s.load(ctx, county)
	duration := s.clock.Since(startTime)
	s.metrics.FetchDuration.WithLabelValues(string(s.kind)).Observe(duration.Seconds())

	s.apply(generation, state, fetchID, duration)
}

func (s *Screen) load(ctx context.Context, county string) (state State) {
	defer func() {
		if r := recover(); r != nil {
			state = State{Phase: PhaseError, Message: panicMessage(r), County: county}
		}
	}()

	raw, err := s.source.FetchWarnings(ctx)
	if err != nil {
		return State{Phase: PhaseError, Message: errorMessage(err), County: county}
	}

	payload, err := DecodePayload(raw)
	if err != nil {
		return State{Phase: PhaseError, Message: errorMessage(err), County: county}
	}

	warnings := s.normalizer.Normalize(payload)
	if s.kind == LocalScreen {
		warnings = FilterByCounty(warnings, county)
	}

	return State{Phase: PhaseReady, Warnings: warnings, County: county}
}

func (s *Screen) apply(generation uint64, state State, fetchID string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		s.metrics.StaleWrites.WithLabelValues(string(s.kind), "unmounted").Inc()
		s.logger.Debug("Dropping fetch result after unmount", zap.String("fetch_id", fetchID))
		return
	}
	if generation != s.generation {
		s.metrics.StaleWrites.WithLabelValues(string(s.kind), "superseded").Inc()
		s.logger.Debug("Dropping superseded fetch result",
			zap.String("fetch_id", fetchID),
			zap.Uint64("generation", generation),
			zap.Uint64("current_generation", s.generation))
		return
	}

	s.cancelFetch = nil
	s.setStateLocked(state)
	s.metrics.FetchTotal.WithLabelValues(string(s.kind), string(state.Phase)).Inc()

	if state.Phase == PhaseError {
		s.logger.Warn("Warning fetch failed",
			zap.String("fetch_id", fetchID),
			zap.String("message", state.Message),
			zap.Duration("duration", duration))
		return
	}

	counts := map[models.Severity]int{}
	for _, w := range state.Warnings {
		counts[w.Severity]++
	}
	for _, sev := range []models.Severity{models.SeverityRed, models.SeverityOrange, models.SeverityYellow} {
		s.metrics.WarningsShown.WithLabelValues(string(s.kind), string(sev)).Set(float64(counts[sev]))
	}

	s.logger.Info("Warning fetch completed",
		zap.String("fetch_id", fetchID),
		zap.Int("warnings", len(state.Warnings)),
		zap.String("county", state.County),
		zap.Duration("duration", duration))
}

func (s *Screen) setStateLocked(state State) {
	state.UpdatedAt = s.clock.Now()
	s.state = state
	close(s.changed)
	s.changed = make(chan struct{})
}

func errorMessage(err error) string {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		if v.Error() != "" {
			return v.Error()
		}
	case string:
		if v != "" {
			return v
		}
	case fmt.Stringer:
		if v.String() != "" {
			return v.String()
		}
	}
	return unknownErrorMessage
}
