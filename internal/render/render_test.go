package render

import (
	"testing"
	"time"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/bobby-s-dev/smhi-warnings/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestFormatTime(t *testing.T) {
	winter := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	summer := time.Date(2025, 7, 1, 22, 30, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   *time.Time
		lang models.Language
		want string
	}{
		{"swedish winter", ptr(winter), models.Swedish, "2025-01-15 kl. 09:00:00 svensk tid"},
		{"english winter", ptr(winter), models.English, "15/01/2025 at 09:00:00 Stockholm time"},
		{"summer time crosses midnight", ptr(summer), models.Swedish, "2025-07-02 kl. 00:30:05 svensk tid"},
		{"nil swedish", nil, models.Swedish, "Okänt datum"},
		{"nil english", nil, models.English, "Unknown date"},
		{"zero time", ptr(time.Time{}), models.English, "Unknown date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.in, tt.lang))
		})
	}
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, "yellow", SeverityColor(models.SeverityYellow))
	assert.Equal(t, "orange", SeverityColor(models.SeverityOrange))
	assert.Equal(t, "red", SeverityColor(models.SeverityRed))
	assert.Equal(t, "gray", SeverityColor("purple"))
	assert.Equal(t, "gray", SeverityColor(""))
}

func TestNewCard(t *testing.T) {
	w := models.Warning{
		ID:               "42",
		Title:            models.LocalizedText{SV: "Snö - Norrbottens län", EN: "Snow - Norrbotten County"},
		Description:      "Kraftigt snöfall.",
		Severity:         models.SeverityOrange,
		ApproximateStart: ptr(time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)),
	}

	sv := NewCard(w, models.Swedish)
	assert.Equal(t, Card{
		ID:          "42",
		Title:       "Snö - Norrbottens län",
		Description: "Kraftigt snöfall.",
		Severity:    "orange",
		Color:       "orange",
		StartLabel:  "Börjar:",
		Start:       "2025-01-15 kl. 09:00:00 svensk tid",
		EndLabel:    "Slutar:",
		End:         "Okänt datum",
	}, sv)

	en := NewCard(w, models.English)
	assert.Equal(t, "Snow - Norrbotten County", en.Title)
	assert.Equal(t, "Starts:", en.StartLabel)
	assert.Equal(t, "Unknown date", en.End)
}

func TestNewCard_TitleFallsBackToOtherLanguage(t *testing.T) {
	w := models.Warning{Title: models.LocalizedText{SV: "Vind - Gotlands län"}}
	assert.Equal(t, "Vind - Gotlands län", NewCard(w, models.English).Title)
}

func TestNewScreenView(t *testing.T) {
	updated := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("loading", func(t *testing.T) {
		view := NewScreenView(services.NationalScreen, services.State{Phase: services.PhaseLoading}, models.Swedish)
		assert.Equal(t, "Aktuella vädervarningar i Sverige:", view.Headline)
		assert.Equal(t, "Laddar varningar...", view.Status)
		assert.Empty(t, view.Cards)
		assert.Nil(t, view.County)
	})

	t.Run("error", func(t *testing.T) {
		state := services.State{Phase: services.PhaseError, Message: "SMHI request failed: 500"}
		assert.Equal(t, "Fel: SMHI request failed: 500", NewScreenView(services.NationalScreen, state, models.Swedish).Status)
		assert.Equal(t, "Error: SMHI request failed: 500", NewScreenView(services.NationalScreen, state, models.English).Status)
	})

	t.Run("ready", func(t *testing.T) {
		state := services.State{
			Phase:     services.PhaseReady,
			UpdatedAt: updated,
			Warnings: []models.Warning{
				{ID: "1", Severity: models.SeverityRed},
				{ID: "2", Severity: models.SeverityYellow},
			},
		}
		view := NewScreenView(services.NationalScreen, state, models.English)
		assert.Equal(t, "Current weather warnings in Sweden:", view.Headline)
		assert.Empty(t, view.Status)
		require.Len(t, view.Cards, 2)
		assert.Equal(t, "red", view.Cards[0].Color)
		assert.Equal(t, "2", view.Cards[1].ID)
		assert.Equal(t, updated, view.UpdatedAt)
	})

	t.Run("local", func(t *testing.T) {
		state := services.State{Phase: services.PhaseReady, County: "M"}
		view := NewScreenView(services.LocalScreen, state, models.Swedish)
		assert.Equal(t, "Varningar i lokala området", view.Headline)
		require.NotNil(t, view.County)
		assert.Equal(t, "Skåne län", view.County.Name)
		assert.NotNil(t, view.Cards)
		assert.Empty(t, view.Cards)
	})
}

func TestNewSettingsView(t *testing.T) {
	view := NewSettingsView(models.Preferences{Language: models.Swedish, County: "AB"})

	assert.Equal(t, "Språk", view.LanguageTitle)
	assert.Equal(t, "Välj län", view.CountyTitle)
	assert.Equal(t, "Nuvarande val:", view.SelectionTitle)
	assert.Equal(t, []string{"Språk: Svenska", "Län: Stockholms län"}, view.Selection)
	assert.Equal(t, []LanguageOption{
		{Code: models.Swedish, Name: "Svenska", Active: true},
		{Code: models.English, Name: "English", Active: false},
	}, view.Languages)

	require.Len(t, view.Counties, len(models.Counties))
	active := 0
	for _, c := range view.Counties {
		if c.Active {
			active++
			assert.Equal(t, "AB", c.Code)
		}
	}
	assert.Equal(t, 1, active)

	en := NewSettingsView(models.Preferences{Language: models.English, County: "BD"})
	assert.Equal(t, "Select County", en.CountyTitle)
	assert.Equal(t, "Warnings in your local area will be shown on the Local tab", en.CountyHint)
	assert.Equal(t, []string{"Language: English", "County: Norrbottens län"}, en.Selection)
}
