package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
)

const (
	defaultEventNameSV = "Vädervarning"
	defaultEventNameEN = "Weather warning"

	// Description blocks with this label only repeat the area name.
	whereLabel = "WHERE"
)

// ParseError wraps a warning payload that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodePayload parses a raw IBWW response body into generic JSON values.
func DecodePayload(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &ParseError{Err: err}
	}
	return v, nil
}

// Normalizer maps the IBWW event list into display-ready warnings.
type Normalizer struct {
	clock clockwork.Clock
}

func NewNormalizer(clock clockwork.Clock) *Normalizer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Normalizer{clock: clock}
}

// Normalize returns one warning per warning area, most severe first. Input
// that is not a JSON array yields an empty list; malformed fields fall back
// to defaults instead of failing.
func (n *Normalizer) Normalize(payload any) []models.Warning {
	events, ok := payload.([]any)
	if !ok {
		return []models.Warning{}
	}

	warnings := make([]models.Warning, 0, len(events))
	for _, e := range events {
		event := asObject(e)
		eventName := asObject(event["event"])

		for _, a := range asList(event["warningAreas"]) {
			area := asObject(a)
			warnings = append(warnings, n.normalizeArea(eventName, area))
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Severity.Rank() < warnings[j].Severity.Rank()
	})

	return warnings
}

func (n *Normalizer) normalizeArea(eventName, area map[string]any) models.Warning {
	areaName := asObject(area["areaName"])

	title := models.LocalizedText{
		SV: fmt.Sprintf("%s - %s",
			firstNonEmpty(asString(eventName["sv"]), asString(eventName["en"]), defaultEventNameSV),
			firstNonEmpty(asString(areaName["sv"]), asString(areaName["en"]))),
		EN: fmt.Sprintf("%s - %s",
			firstNonEmpty(asString(eventName["en"]), asString(eventName["sv"]), defaultEventNameEN),
			firstNonEmpty(asString(areaName["en"]), asString(areaName["sv"]))),
	}

	start, present := parseTimestamp(area["approximateStart"])
	if !present {
		now := n.clock.Now()
		start = &now
	}
	end, _ := parseTimestamp(area["approximateEnd"])

	return models.Warning{
		ID:               areaID(area["id"]),
		Title:            title,
		Description:      description(area["descriptions"]),
		Severity:         severity(asObject(area["warningLevel"])["code"]),
		ApproximateStart: start,
		ApproximateEnd:   end,
		AffectedAreaIDs:  affectedAreaIDs(area["affectedAreas"]),
	}
}

func severity(code any) models.Severity {
	switch s := models.Severity(strings.ToLower(asString(code))); s {
	case models.SeverityRed, models.SeverityOrange, models.SeverityYellow:
		return s
	default:
		return models.SeverityYellow
	}
}

func description(v any) string {
	blocks := asList(v)
	if len(blocks) == 0 {
		return ""
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		block := asObject(b)
		if asString(asObject(block["title"])["code"]) == whereLabel {
			continue
		}
		text := asObject(block["text"])
		parts = append(parts, firstNonEmpty(asString(text["sv"]), asString(text["en"])))
	}
	return strings.Join(parts, " ")
}

// affectedAreaIDs accepts both bare ids and {"id": n, ...} objects.
func affectedAreaIDs(v any) []int {
	var ids []int
	for _, item := range asList(v) {
		if obj, ok := item.(map[string]any); ok {
			item = obj["id"]
		}
		if id, ok := asInt(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func areaID(v any) string {
	if id, ok := asInt(v); ok {
		return strconv.Itoa(id)
	}
	return asString(v)
}

// parseTimestamp reports present=false when the field is missing, null,
// empty or 0. A present value that cannot be parsed yields a nil time.
func parseTimestamp(v any) (t *time.Time, present bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		if val == "" {
			return nil, false
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
			if parsed, err := time.Parse(layout, val); err == nil {
				return &parsed, true
			}
		}
		return nil, true
	case float64:
		if val == 0 {
			return nil, false
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, true
		}
		parsed := time.UnixMilli(int64(val)).UTC()
		return &parsed, true
	default:
		return nil, true
	}
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func asList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
