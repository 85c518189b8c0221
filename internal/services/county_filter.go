package services

import (
	"github.com/bobby-s-dev/smhi-warnings/internal/models"
)

// FilterByCounty keeps the warnings that touch county, preserving order.
// Warnings without affected-area ids never match.
func FilterByCounty(warnings []models.Warning, county string) []models.Warning {
	filtered := make([]models.Warning, 0, len(warnings))
	for _, w := range warnings {
		if affectsCounty(w, county) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

func affectsCounty(w models.Warning, county string) bool {
	for _, id := range w.AffectedAreaIDs {
		if code, ok := models.CountyForArea(id); ok && code == county {
			return true
		}
	}
	return false
}
