package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/bobby-s-dev/smhi-warnings/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	KeyLanguage = "language"
	KeyCounty   = "county"
)

var (
	ErrInvalidLanguage = errors.New("invalid language")
	ErrInvalidCounty   = errors.New("invalid county")
)

// PersistenceError is a failed read or write against the backend. It is
// logged, never returned to callers of Preferences.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s preference %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Preferences holds the language and county choice in memory and writes
// every change through to a Backend. Only values returned by Load are usable.
type Preferences struct {
	backend Backend
	logger  *zap.Logger
	metrics *observability.Metrics

	// writeMu orders whole updates so memory, backend and subscribers
	// always end on the same value.
	writeMu sync.Mutex

	mu          sync.RWMutex
	loaded      bool
	current     models.Preferences
	subscribers []func(models.Preferences)
}

// Load reads both preferences concurrently. Missing, invalid or unreadable
// values fall back to the defaults.
func Load(ctx context.Context, backend Backend, logger *zap.Logger, metrics *observability.Metrics) *Preferences {
	p := &Preferences{
		backend: backend,
		logger:  logger,
		metrics: metrics,
		loaded:  true,
		current: models.Preferences{
			Language: models.DefaultLanguage,
			County:   models.DefaultCounty,
		},
	}

	var (
		g                      errgroup.Group
		language, county       string
		languageOK, countyOK   bool
		languageErr, countyErr error
	)
	g.Go(func() error {
		language, languageOK, languageErr = backend.Get(ctx, KeyLanguage)
		return nil
	})
	g.Go(func() error {
		county, countyOK, countyErr = backend.Get(ctx, KeyCounty)
		return nil
	})
	_ = g.Wait()

	if languageErr != nil {
		p.logger.Error("Error loading settings", zap.Error(&PersistenceError{Op: "load", Key: KeyLanguage, Err: languageErr}))
	} else if languageOK {
		if lang := models.Language(language); lang.Valid() {
			p.current.Language = lang
		} else {
			p.logger.Warn("Discarding stored language", zap.String("value", language))
		}
	}

	if countyErr != nil {
		p.logger.Error("Error loading settings", zap.Error(&PersistenceError{Op: "load", Key: KeyCounty, Err: countyErr}))
	} else if countyOK {
		if models.ValidCounty(county) {
			p.current.County = county
		} else {
			p.logger.Warn("Discarding stored county", zap.String("value", county))
		}
	}

	p.logger.Info("Settings loaded",
		zap.String("language", string(p.current.Language)),
		zap.String("county", p.current.County))

	return p
}

func (p *Preferences) Get() models.Preferences {
	p.mustBeLoaded()
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

func (p *Preferences) Language() models.Language {
	return p.Get().Language
}

func (p *Preferences) County() string {
	return p.Get().County
}

// SetLanguage updates the language immediately. A failed write is logged and
// the in-memory value is kept.
func (p *Preferences) SetLanguage(ctx context.Context, lang models.Language) error {
	p.mustBeLoaded()
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	p.update(ctx, KeyLanguage, string(lang), func(prefs *models.Preferences) {
		prefs.Language = lang
	})
	return nil
}

// SetCounty updates the county immediately. A failed write is logged and the
// in-memory value is kept.
func (p *Preferences) SetCounty(ctx context.Context, county string) error {
	p.mustBeLoaded()
	if !models.ValidCounty(county) {
		return fmt.Errorf("%w: %q", ErrInvalidCounty, county)
	}
	p.update(ctx, KeyCounty, county, func(prefs *models.Preferences) {
		prefs.County = county
	})
	return nil
}

// Subscribe registers fn to run after every change, in the order changes were
// made. fn must not change preferences itself.
func (p *Preferences) Subscribe(fn func(models.Preferences)) {
	p.mustBeLoaded()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

func (p *Preferences) update(ctx context.Context, key, value string, apply func(*models.Preferences)) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	apply(&p.current)
	snapshot := p.current
	subscribers := append([]func(models.Preferences){}, p.subscribers...)
	p.mu.Unlock()

	if err := p.backend.Set(ctx, key, value); err != nil {
		p.metrics.PreferenceWrites.WithLabelValues(key, "error").Inc()
		p.logger.Error("Error saving settings",
			zap.String("key", key),
			zap.Error(&PersistenceError{Op: "save", Key: key, Err: err}))
	} else {
		p.metrics.PreferenceWrites.WithLabelValues(key, "success").Inc()
		p.logger.Debug("Setting saved", zap.String("key", key), zap.String("value", value))
	}

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (p *Preferences) mustBeLoaded() {
	if p == nil || !p.loaded {
		panic("settings: Preferences must be created with settings.Load")
	}
}
