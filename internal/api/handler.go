package api

import (
	"context"
	"errors"
	"time"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/bobby-s-dev/smhi-warnings/internal/render"
	"github.com/bobby-s-dev/smhi-warnings/internal/services"
	"github.com/bobby-s-dev/smhi-warnings/internal/settings"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var languageMatcher = language.NewMatcher([]language.Tag{language.Swedish, language.English})

type Handler struct {
	national    *services.Screen
	local       *services.Screen
	prefs       *settings.Preferences
	waitTimeout time.Duration
	logger      *zap.Logger
	startTime   time.Time
}

func NewHandler(national, local *services.Screen, prefs *settings.Preferences, waitTimeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		national:    national,
		local:       local,
		prefs:       prefs,
		waitTimeout: waitTimeout,
		logger:      logger,
		startTime:   time.Now(),
	}
}

type settingsRequest struct {
	Language *string `json:"language"`
	County   *string `json:"county"`
}

// GetNationalWarnings handles GET /api/v1/warnings
func (h *Handler) GetNationalWarnings(c *fiber.Ctx) error {
	return h.renderScreen(c, h.national)
}

// GetLocalWarnings handles GET /api/v1/warnings/local
func (h *Handler) GetLocalWarnings(c *fiber.Ctx) error {
	return h.renderScreen(c, h.local)
}

// ReloadNationalWarnings handles POST /api/v1/warnings/reload
func (h *Handler) ReloadNationalWarnings(c *fiber.Ctx) error {
	return h.reloadScreen(c, h.national)
}

// ReloadLocalWarnings handles POST /api/v1/warnings/local/reload
func (h *Handler) ReloadLocalWarnings(c *fiber.Ctx) error {
	return h.reloadScreen(c, h.local)
}

// GetSettings handles GET /api/v1/settings
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(render.NewSettingsView(h.prefs.Get()))
}

// UpdateSettings handles PUT /api/v1/settings
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Language == nil && req.County == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one of language or county is required",
		})
	}

	// Validate everything before applying anything.
	if req.Language != nil && !models.Language(*req.Language).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": settings.ErrInvalidLanguage.Error(),
			"value": *req.Language,
		})
	}
	if req.County != nil && !models.ValidCounty(*req.County) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": settings.ErrInvalidCounty.Error(),
			"value": *req.County,
		})
	}

	ctx := c.UserContext()
	if req.Language != nil {
		if err := h.prefs.SetLanguage(ctx, models.Language(*req.Language)); err != nil {
			return err
		}
	}
	if req.County != nil {
		if err := h.prefs.SetCounty(ctx, *req.County); err != nil {
			return err
		}
	}

	prefs := h.prefs.Get()
	h.logger.Info("Settings updated",
		zap.String("language", string(prefs.Language)),
		zap.String("county", prefs.County))

	return c.JSON(render.NewSettingsView(prefs))
}

// GetCounties handles GET /api/v1/counties
func (h *Handler) GetCounties(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"counties": models.Counties,
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	national := h.national.State()
	local := h.local.State()

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).String(),
		"screens": fiber.Map{
			"national": fiber.Map{"phase": national.Phase, "updated_at": national.UpdatedAt},
			"local":    fiber.Map{"phase": local.Phase, "updated_at": local.UpdatedAt, "county": local.County},
		},
	})
}

func (h *Handler) renderScreen(c *fiber.Ctx, screen *services.Screen) error {
	lang, ok := h.language(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported language",
			"value": c.Query("lang"),
		})
	}

	state := screen.State()
	if c.QueryBool("wait") {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.waitTimeout)
		defer cancel()

		var err error
		state, err = screen.Wait(ctx)
		if err != nil {
			h.logger.Debug("Returning screen before fetch completed",
				zap.String("screen", string(screen.Kind())),
				zap.Error(err))
		}
	}

	return c.JSON(render.NewScreenView(screen.Kind(), state, lang))
}

func (h *Handler) reloadScreen(c *fiber.Ctx, screen *services.Screen) error {
	lang, ok := h.language(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported language",
			"value": c.Query("lang"),
		})
	}

	if err := screen.Reload(); err != nil {
		if errors.Is(err, services.ErrNotMounted) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return err
	}

	h.logger.Info("Reload requested", zap.String("screen", string(screen.Kind())))

	return c.Status(fiber.StatusAccepted).JSON(render.NewScreenView(screen.Kind(), screen.State(), lang))
}

// language resolves the lang query parameter, defaulting to the stored
// preference. Tags like "en-GB" or "sv-SE" match their base language.
func (h *Handler) language(c *fiber.Ctx) (models.Language, bool) {
	raw := c.Query("lang")
	if raw == "" {
		return h.prefs.Language(), true
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return h.prefs.Language(), false
	}
	matched, _, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return h.prefs.Language(), false
	}
	if base, _ := matched.Base(); base.String() == string(models.English) {
		return models.English, true
	}
	return models.Swedish, true
}
