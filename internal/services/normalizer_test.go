package services

import (
	"testing"
	"time"

	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func testNormalizer() *Normalizer {
	return NewNormalizer(clockwork.NewFakeClockAt(testNow))
}

func normalizeJSON(t *testing.T, body string) []models.Warning {
	t.Helper()
	payload, err := DecodePayload([]byte(body))
	require.NoError(t, err)
	return testNormalizer().Normalize(payload)
}

func TestNormalize_SnowScenario(t *testing.T) {
	warnings := normalizeJSON(t, `[{
		"event": {"sv": "Snö", "en": "Snow"},
		"warningAreas": [{
			"id": 1,
			"areaName": {"sv": "Stockholm"},
			"warningLevel": {"code": "ORANGE"},
			"descriptions": [
				{"title": {"code": "WHERE"}, "text": {"sv": "Stockholm"}},
				{"title": {"code": "WHAT"}, "text": {"sv": "Snöfall"}}
			]
		}]
	}]`)

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, "1", w.ID)
	assert.Equal(t, models.SeverityOrange, w.Severity)
	assert.Equal(t, "Snöfall", w.Description)
	assert.Equal(t, "Snö - Stockholm", w.Title.SV)
	assert.Equal(t, "Snow - Stockholm", w.Title.EN)
}

func TestNormalize_NonListInput(t *testing.T) {
	n := testNormalizer()

	for name, payload := range map[string]any{
		"nil":    nil,
		"object": map[string]any{"warningAreas": []any{}},
		"string": "warnings",
		"number": 42.0,
		"bool":   true,
	} {
		t.Run(name, func(t *testing.T) {
			warnings := n.Normalize(payload)
			assert.NotNil(t, warnings)
			assert.Empty(t, warnings)
		})
	}
}

func TestNormalize_MissingWarningAreas(t *testing.T) {
	warnings := normalizeJSON(t, `[{"event": {"sv": "Regn"}}, {"event": {"sv": "Vind"}, "warningAreas": null}]`)
	assert.Empty(t, warnings)
}

func TestNormalize_Defaults(t *testing.T) {
	warnings := normalizeJSON(t, `[{"warningAreas": [{"id": 7}]}]`)

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, "Vädervarning - ", w.Title.SV)
	assert.Equal(t, "Weather warning - ", w.Title.EN)
	assert.Equal(t, models.SeverityYellow, w.Severity)
	assert.Empty(t, w.Description)
	require.NotNil(t, w.ApproximateStart)
	assert.Equal(t, testNow, *w.ApproximateStart)
	assert.Nil(t, w.ApproximateEnd)
	assert.Empty(t, w.AffectedAreaIDs)
}

func TestNormalize_TitleFallsBackAcrossLanguages(t *testing.T) {
	warnings := normalizeJSON(t, `[{
		"event": {"en": "Wind"},
		"warningAreas": [{"id": 2, "areaName": {"en": "Gotland"}}]
	}]`)

	require.Len(t, warnings, 1)
	assert.Equal(t, "Wind - Gotland", warnings[0].Title.SV)
	assert.Equal(t, "Wind - Gotland", warnings[0].Title.EN)
}

func TestNormalize_SeverityDomain(t *testing.T) {
	warnings := normalizeJSON(t, `[{"warningAreas": [
		{"id": 1, "warningLevel": {"code": "RED"}},
		{"id": 2, "warningLevel": {"code": "Orange"}},
		{"id": 3, "warningLevel": {"code": "yellow"}},
		{"id": 4, "warningLevel": {"code": "PURPLE"}},
		{"id": 5, "warningLevel": {"code": 3}},
		{"id": 6, "warningLevel": "RED"}
	]}]`)

	require.Len(t, warnings, 6)
	bySeverity := map[string]models.Severity{}
	for _, w := range warnings {
		assert.Contains(t, []models.Severity{models.SeverityRed, models.SeverityOrange, models.SeverityYellow}, w.Severity)
		bySeverity[w.ID] = w.Severity
	}
	assert.Equal(t, models.SeverityRed, bySeverity["1"])
	assert.Equal(t, models.SeverityOrange, bySeverity["2"])
	assert.Equal(t, models.SeverityYellow, bySeverity["3"])
	assert.Equal(t, models.SeverityYellow, bySeverity["4"])
	assert.Equal(t, models.SeverityYellow, bySeverity["5"])
	assert.Equal(t, models.SeverityYellow, bySeverity["6"])
}

func TestNormalize_SortsBySeverity(t *testing.T) {
	warnings := normalizeJSON(t, `[{"warningAreas": [
		{"id": 1, "warningLevel": {"code": "YELLOW"}},
		{"id": 2, "warningLevel": {"code": "RED"}}
	]}]`)

	require.Len(t, warnings, 2)
	assert.Equal(t, models.SeverityRed, warnings[0].Severity)
	assert.Equal(t, models.SeverityYellow, warnings[1].Severity)
}

func TestNormalize_SortIsStable(t *testing.T) {
	warnings := normalizeJSON(t, `[
		{"warningAreas": [
			{"id": 10, "warningLevel": {"code": "YELLOW"}},
			{"id": 11, "warningLevel": {"code": "ORANGE"}},
			{"id": 12, "warningLevel": {"code": "YELLOW"}}
		]},
		{"warningAreas": [
			{"id": 20, "warningLevel": {"code": "ORANGE"}},
			{"id": 21, "warningLevel": {"code": "YELLOW"}}
		]}
	]`)

	ids := make([]string, 0, len(warnings))
	for _, w := range warnings {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"11", "20", "10", "12", "21"}, ids)
}

func TestNormalize_DescriptionSkipsWhereBlocks(t *testing.T) {
	warnings := normalizeJSON(t, `[{"warningAreas": [{
		"id": 1,
		"descriptions": [
			{"title": {"code": "WHAT"}, "text": {"sv": "Kraftig vind", "en": "Strong wind"}},
			{"title": {"code": "WHERE"}, "text": {"sv": "Norrbotten", "en": "Norrbotten"}},
			{"title": {"code": "INCIDENT"}, "text": {"en": "Falling trees"}},
			{"title": {"code": "WHERE"}, "text": {"sv": "Kusten"}}
		]
	}]}]`)

	require.Len(t, warnings, 1)
	assert.Equal(t, "Kraftig vind Falling trees", warnings[0].Description)
	assert.NotContains(t, warnings[0].Description, "Norrbotten")
	assert.NotContains(t, warnings[0].Description, "Kusten")
}

func TestNormalize_Timestamps(t *testing.T) {
	warnings := normalizeJSON(t, `[{"warningAreas": [
		{"id": 1, "approximateStart": "2025-01-16T06:00:00.000Z", "approximateEnd": "2025-01-17T18:30:00Z"},
		{"id": 2, "approximateStart": 1736928000000, "approximateEnd": "not a date"},
		{"id": 3, "approximateStart": "", "approximateEnd": null},
		{"id": 4, "approximateStart": 0, "approximateEnd": 0}
	]}]`)

	require.Len(t, warnings, 4)

	require.NotNil(t, warnings[0].ApproximateStart)
	assert.Equal(t, time.Date(2025, 1, 16, 6, 0, 0, 0, time.UTC), warnings[0].ApproximateStart.UTC())
	require.NotNil(t, warnings[0].ApproximateEnd)
	assert.Equal(t, time.Date(2025, 1, 17, 18, 30, 0, 0, time.UTC), warnings[0].ApproximateEnd.UTC())

	require.NotNil(t, warnings[1].ApproximateStart)
	assert.Equal(t, time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC), warnings[1].ApproximateStart.UTC())
	assert.Nil(t, warnings[1].ApproximateEnd)

	require.NotNil(t, warnings[2].ApproximateStart)
	assert.Equal(t, testNow, *warnings[2].ApproximateStart)
	assert.Nil(t, warnings[2].ApproximateEnd)

	// 0 is treated as absent, not as the epoch.
	require.NotNil(t, warnings[3].ApproximateStart)
	assert.Equal(t, testNow, *warnings[3].ApproximateStart)
	assert.Nil(t, warnings[3].ApproximateEnd)
}

func TestNormalize_AffectedAreas(t *testing.T) {
	warnings := normalizeJSON(t, `[{"warningAreas": [
		{"id": 1, "affectedAreas": [{"id": 1, "sv": "Stockholms län"}, {"id": 3}]},
		{"id": 2, "affectedAreas": [12, "x", 1.5, {"name": "no id"}]},
		{"id": 3, "affectedAreas": "AB"}
	]}]`)

	require.Len(t, warnings, 3)
	assert.Equal(t, []int{1, 3}, warnings[0].AffectedAreaIDs)
	assert.Equal(t, []int{12}, warnings[1].AffectedAreaIDs)
	assert.Empty(t, warnings[2].AffectedAreaIDs)
}

func TestNormalize_ToleratesMalformedFields(t *testing.T) {
	warnings := normalizeJSON(t, `[
		"not an event",
		{"event": "Snow", "warningAreas": [
			"not an area",
			{"id": "abc", "areaName": 5, "descriptions": {"title": "x"}, "warningLevel": null}
		]}
	]`)

	require.Len(t, warnings, 2)
	assert.Equal(t, "", warnings[0].ID)
	assert.Equal(t, "abc", warnings[1].ID)
	assert.Equal(t, "Vädervarning - ", warnings[1].Title.SV)
	assert.Empty(t, warnings[1].Description)
}

func TestDecodePayload_InvalidJSON(t *testing.T) {
	_, err := DecodePayload([]byte("{not json"))
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.NotEmpty(t, err.Error())
}
