package models

// County is a Swedish län. AreaID is the affected-area id SMHI uses for it,
// which is the official numeric county code.
type County struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	AreaID int    `json:"area_id"`
}

const DefaultCounty = "AB"

// Counties is the fixed list of selectable counties, ordered by county code number.
// Codes are the official letters, so codes stored under older lists (such as
// "L", or "AC" for Västmanland) no longer resolve to the same county.
var Counties = []County{
	{Code: "AB", Name: "Stockholms län", AreaID: 1},
	{Code: "C", Name: "Uppsala län", AreaID: 3},
	{Code: "D", Name: "Södermanlands län", AreaID: 4},
	{Code: "E", Name: "Östergötlands län", AreaID: 5},
	{Code: "F", Name: "Jönköpings län", AreaID: 6},
	{Code: "G", Name: "Kronobergs län", AreaID: 7},
	{Code: "H", Name: "Kalmar län", AreaID: 8},
	{Code: "I", Name: "Gotlands län", AreaID: 9},
	{Code: "K", Name: "Blekinge län", AreaID: 10},
	{Code: "M", Name: "Skåne län", AreaID: 12},
	{Code: "N", Name: "Hallands län", AreaID: 13},
	{Code: "O", Name: "Västra Götalands län", AreaID: 14},
	{Code: "S", Name: "Värmlands län", AreaID: 17},
	{Code: "T", Name: "Örebro län", AreaID: 18},
	{Code: "U", Name: "Västmanlands län", AreaID: 19},
	{Code: "W", Name: "Dalarnas län", AreaID: 20},
	{Code: "X", Name: "Gävleborgs län", AreaID: 21},
	{Code: "Y", Name: "Västernorrlands län", AreaID: 22},
	{Code: "Z", Name: "Jämtlands län", AreaID: 23},
	{Code: "AC", Name: "Västerbottens län", AreaID: 24},
	{Code: "BD", Name: "Norrbottens län", AreaID: 25},
}

var (
	countiesByCode = make(map[string]County, len(Counties))
	countiesByArea = make(map[int]string, len(Counties))
)

func init() {
	for _, c := range Counties {
		countiesByCode[c.Code] = c
		countiesByArea[c.AreaID] = c.Code
	}
}

func LookupCounty(code string) (County, bool) {
	c, ok := countiesByCode[code]
	return c, ok
}

func ValidCounty(code string) bool {
	_, ok := countiesByCode[code]
	return ok
}

// CountyForArea maps an SMHI affected-area id to a county code.
func CountyForArea(areaID int) (string, bool) {
	code, ok := countiesByArea[areaID]
	return code, ok
}
