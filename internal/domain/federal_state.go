package domain

import (
	"fmt"
	"strings"
)

// FederalState is one of the 16 German Länder. The value is the German name.
type FederalState string

const (
	BadenWuerttemberg     FederalState = "Baden-Württemberg"
	Bayern                FederalState = "Bayern"
	Berlin                FederalState = "Berlin"
	Brandenburg           FederalState = "Brandenburg"
	Bremen                FederalState = "Bremen"
	Hamburg               FederalState = "Hamburg"
	Hessen                FederalState = "Hessen"
	MecklenburgVorpommern FederalState = "Mecklenburg-Vorpommern"
	Niedersachsen         FederalState = "Niedersachsen"
	NordrheinWestfalen    FederalState = "Nordrhein-Westfalen"
	RheinlandPfalz        FederalState = "Rheinland-Pfalz"
	Saarland              FederalState = "Saarland"
	Sachsen               FederalState = "Sachsen"
	SachsenAnhalt         FederalState = "Sachsen-Anhalt"
	SchleswigHolstein     FederalState = "Schleswig-Holstein"
	Thueringen            FederalState = "Thüringen"
)

// stateCodes maps the ISO 3166-2:DE subdivision codes to states
var stateCodes = map[string]FederalState{
	"BW": BadenWuerttemberg,
	"BY": Bayern,
	"BE": Berlin,
	"BB": Brandenburg,
	"HB": Bremen,
	"HH": Hamburg,
	"HE": Hessen,
	"MV": MecklenburgVorpommern,
	"NI": Niedersachsen,
	"NW": NordrheinWestfalen,
	"RP": RheinlandPfalz,
	"SL": Saarland,
	"SN": Sachsen,
	"ST": SachsenAnhalt,
	"SH": SchleswigHolstein,
	"TH": Thueringen,
}

// FederalStates lists all states in the conventional alphabetical order
func FederalStates() []FederalState {
	return []FederalState{
		BadenWuerttemberg, Bayern, Berlin, Brandenburg, Bremen, Hamburg, Hessen,
		MecklenburgVorpommern, Niedersachsen, NordrheinWestfalen, RheinlandPfalz,
		Saarland, Sachsen, SachsenAnhalt, SchleswigHolstein, Thueringen,
	}
}

// ParseFederalState accepts the German name (case-insensitive, with or without
// umlauts) or the two-letter code.
func ParseFederalState(s string) (FederalState, error) {
	trimmed := strings.TrimSpace(s)
	if st, ok := stateCodes[strings.ToUpper(trimmed)]; ok {
		return st, nil
	}
	key := foldStateName(trimmed)
	for _, st := range FederalStates() {
		if foldStateName(string(st)) == key {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown federal state %q", s)
}

// Code returns the two-letter subdivision code, or "" for unknown states
func (fs FederalState) Code() string {
	for code, st := range stateCodes {
		if st == fs {
			return code
		}
	}
	return ""
}

// IsValid reports whether fs is one of the 16 states
func (fs FederalState) IsValid() bool {
	return fs.Code() != ""
}

func foldStateName(s string) string {
	r := strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss", " ", "-", "_", "-")
	return r.Replace(strings.ToLower(s))
}
