package render

import "github.com/bobby-s-dev/smhi-warnings/internal/models"

type texts struct {
	nationalHeadline string
	localHeadline    string
	loading          string
	errorFormat      string
	starts           string
	ends             string
	unknownDate      string
	timeLayout       string

	languageLabel    string
	countyLabel      string
	countyHint       string
	selectionLabel   string
	selectedLanguage string
	selectedCounty   string
	languageName     string
}

var swedishTexts = texts{
	nationalHeadline: "Aktuella vädervarningar i Sverige:",
	localHeadline:    "Varningar i lokala området",
	loading:          "Laddar varningar...",
	errorFormat:      "Fel: %s",
	starts:           "Börjar:",
	ends:             "Slutar:",
	unknownDate:      "Okänt datum",
	timeLayout:       "2006-01-02 kl. 15:04:05 svensk tid",

	languageLabel:    "Språk",
	countyLabel:      "Välj län",
	countyHint:       "Varningar i ditt lokala område visas i fliken Lokalt",
	selectionLabel:   "Nuvarande val:",
	selectedLanguage: "Språk:",
	selectedCounty:   "Län:",
	languageName:     "Svenska",
}

var englishTexts = texts{
	nationalHeadline: "Current weather warnings in Sweden:",
	localHeadline:    "Warnings in your local area",
	loading:          "Loading warnings...",
	errorFormat:      "Error: %s",
	starts:           "Starts:",
	ends:             "Ends:",
	unknownDate:      "Unknown date",
	timeLayout:       "02/01/2006 at 15:04:05 Stockholm time",

	languageLabel:    "Language",
	countyLabel:      "Select County",
	countyHint:       "Warnings in your local area will be shown on the Local tab",
	selectionLabel:   "Current Selection:",
	selectedLanguage: "Language:",
	selectedCounty:   "County:",
	languageName:     "English",
}

func textsFor(lang models.Language) texts {
	if lang == models.English {
		return englishTexts
	}
	return swedishTexts
}
