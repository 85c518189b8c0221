package render

import (
	"fmt"
	"time"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/bobby-s-dev/smhi-warnings/internal/services"
)

// ScreenView is a warning screen rendered for one language. Status is empty
// once the screen is ready.
type ScreenView struct {
	Screen    services.ScreenKind `json:"screen"`
	Language  models.Language     `json:"language"`
	Headline  string              `json:"headline"`
	Phase     services.Phase      `json:"phase"`
	Status    string              `json:"status,omitempty"`
	County    *CountyOption       `json:"county,omitempty"`
	Cards     []Card              `json:"cards"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewScreenView(kind services.ScreenKind, state services.State, lang models.Language) ScreenView {
	t := textsFor(lang)

	view := ScreenView{
		Screen:    kind,
		Language:  lang,
		Headline:  t.nationalHeadline,
		Phase:     state.Phase,
		Cards:     []Card{},
		UpdatedAt: state.UpdatedAt,
	}
	if kind == services.LocalScreen {
		view.Headline = t.localHeadline
		if c, ok := models.LookupCounty(state.County); ok {
			view.County = &CountyOption{Code: c.Code, Name: c.Name, Active: true}
		}
	}

	switch state.Phase {
	case services.PhaseLoading:
		view.Status = t.loading
	case services.PhaseError:
		view.Status = fmt.Sprintf(t.errorFormat, state.Message)
	default:
		view.Cards = NewCards(state.Warnings, lang)
	}
	return view
}

type LanguageOption struct {
	Code   models.Language `json:"code"`
	Name   string          `json:"name"`
	Active bool            `json:"active"`
}

type CountyOption struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// SettingsView is the settings screen: language toggle, county list and a
// summary of the current choice.
type SettingsView struct {
	Language       models.Language  `json:"language"`
	County         string           `json:"county"`
	LanguageTitle  string           `json:"language_title"`
	Languages      []LanguageOption `json:"languages"`
	CountyTitle    string           `json:"county_title"`
	CountyHint     string           `json:"county_hint"`
	Counties       []CountyOption   `json:"counties"`
	SelectionTitle string           `json:"selection_title"`
	Selection      []string         `json:"selection"`
}

func NewSettingsView(prefs models.Preferences) SettingsView {
	t := textsFor(prefs.Language)

	counties := make([]CountyOption, 0, len(models.Counties))
	countyName := ""
	for _, c := range models.Counties {
		active := c.Code == prefs.County
		if active {
			countyName = c.Name
		}
		counties = append(counties, CountyOption{Code: c.Code, Name: c.Name, Active: active})
	}

	return SettingsView{
		Language:      prefs.Language,
		County:        prefs.County,
		LanguageTitle: t.languageLabel,
		Languages: []LanguageOption{
			{Code: models.Swedish, Name: swedishTexts.languageName, Active: prefs.Language == models.Swedish},
			{Code: models.English, Name: englishTexts.languageName, Active: prefs.Language == models.English},
		},
		CountyTitle:    t.countyLabel,
		CountyHint:     t.countyHint,
		Counties:       counties,
		SelectionTitle: t.selectionLabel,
		Selection: []string{
			t.selectedLanguage + " " + t.languageName,
			t.selectedCounty + " " + countyName,
		},
	}
}
