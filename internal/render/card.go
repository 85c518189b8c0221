package render

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
)

const stockholmZone = "Europe/Stockholm"

var stockholm *time.Location

func init() {
	loc, err := time.LoadLocation(stockholmZone)
	if err != nil {
		panic(fmt.Sprintf("render: load %s: %v", stockholmZone, err))
	}
	stockholm = loc
}

// Card is one warning resolved to display strings for a language.
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Color       string `json:"color"`
	StartLabel  string `json:"start_label"`
	Start       string `json:"start"`
	EndLabel    string `json:"end_label"`
	End         string `json:"end"`
}

func NewCard(w models.Warning, lang models.Language) Card {
	t := textsFor(lang)
	return Card{
		ID:          w.ID,
		Title:       w.Title.Text(lang),
		Description: w.Description,
		Severity:    string(w.Severity),
		Color:       SeverityColor(w.Severity),
		StartLabel:  t.starts,
		Start:       FormatTime(w.ApproximateStart, lang),
		EndLabel:    t.ends,
		End:         FormatTime(w.ApproximateEnd, lang),
	}
}

func NewCards(warnings []models.Warning, lang models.Language) []Card {
	cards := make([]Card, 0, len(warnings))
	for _, w := range warnings {
		cards = append(cards, NewCard(w, lang))
	}
	return cards
}

// SeverityColor maps a severity to its border color; anything unknown is gray.
func SeverityColor(s models.Severity) string {
	switch s {
	case models.SeverityYellow:
		return "yellow"
	case models.SeverityOrange:
		return "orange"
	case models.SeverityRed:
		return "red"
	default:
		return "gray"
	}
}

// FormatTime renders t in Stockholm local time. A nil time renders as the
// language's unknown-date text.
func FormatTime(t *time.Time, lang models.Language) string {
	texts := textsFor(lang)
	if t == nil || t.IsZero() {
		return texts.unknownDate
	}
	return t.In(stockholm).Format(texts.timeLayout)
}
