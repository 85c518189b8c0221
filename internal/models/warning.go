package models

import (
	"time"
)

type Language string

const (
	Swedish Language = "sv"
	English Language = "en"

	DefaultLanguage = Swedish
)

func (l Language) Valid() bool {
	return l == Swedish || l == English
}

type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityOrange Severity = "orange"
	SeverityYellow Severity = "yellow"
)

// Rank orders severities for display, most severe first. Unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityRed:
		return 0
	case SeverityOrange:
		return 1
	case SeverityYellow:
		return 2
	default:
		return 3
	}
}

// LocalizedText holds the Swedish and English variants of a string.
type LocalizedText struct {
	SV string `json:"sv"`
	EN string `json:"en"`
}

// Text returns the variant for lang, falling back to the other language when empty.
func (t LocalizedText) Text(lang Language) string {
	if lang == English {
		if t.EN != "" {
			return t.EN
		}
		return t.SV
	}
	if t.SV != "" {
		return t.SV
	}
	return t.EN
}

// Warning is one warning area of an SMHI event, ready for display.
type Warning struct {
	ID               string        `json:"id"`
	Title            LocalizedText `json:"title"`
	Description      string        `json:"description"`
	Severity         Severity      `json:"severity"`
	ApproximateStart *time.Time    `json:"approximate_start,omitempty"`
	ApproximateEnd   *time.Time    `json:"approximate_end,omitempty"`
	AffectedAreaIDs  []int         `json:"affected_area_ids"`
}

type Preferences struct {
	Language Language `json:"language"`
	County   string   `json:"county"`
}
