package forecast

// Code is a Met Office significant weather code. Valid codes are 0-30
// with 4 reserved; even/odd neighbours are often night/day variants of
// the same phenomenon (9/10, 13/14, ...).
type Code int

const (
	// MinCode and MaxCode bound the significant weather code domain.
	MinCode Code = 0
	MaxCode Code = 30
)

// descriptions is the canonical catalog of code names.
var descriptions = map[Code]string{
	0:  "Clear night",
	1:  "Sunny day",
	2:  "Partly cloudy (night)",
	3:  "Partly cloudy (day)",
	5:  "Mist",
	6:  "Fog",
	7:  "Cloudy",
	8:  "Overcast",
	9:  "Light rain shower (night)",
	10: "Light rain shower (day)",
	11: "Drizzle",
	12: "Light rain",
	13: "Heavy rain shower (night)",
	14: "Heavy rain shower (day)",
	15: "Heavy rain",
	16: "Sleet shower (night)",
	17: "Sleet shower (day)",
	18: "Sleet",
	19: "Hail shower (night)",
	20: "Hail shower (day)",
	21: "Hail",
	22: "Light snow shower (night)",
	23: "Light snow shower (day)",
	24: "Light snow",
	25: "Heavy snow shower (night)",
	26: "Heavy snow shower (day)",
	27: "Heavy snow",
	28: "Thunder shower (night)",
	29: "Thunder shower (day)",
	30: "Thunder",
}

// phrases is the narrative wording used when codes are spoken in a bulletin.
// Day/night shower variants share a phrase.
var phrases = map[Code]string{
	0:  "Clear",
	1:  "Clear and sunny",
	2:  "Partially cloudy",
	3:  "Sunny with a few clouds",
	5:  "Misty",
	6:  "Foggy",
	7:  "Cloudy skies",
	8:  "Overcast",
	9:  "Light rain showers",
	10: "Light rain showers",
	11: "Drizzle",
	12: "Light rain",
	13: "Heavy rain showers",
	14: "Heavy rain showers",
	15: "Heavy rain",
	16: "Sleet showers",
	17: "Sleet showers",
	18: "Sleet",
	19: "Hail showers",
	20: "Hail showers",
	21: "Hail",
	22: "Light snow showers",
	23: "Light snow showers",
	24: "Light snow",
	25: "Heavy snow showers",
	26: "Heavy snow showers",
	27: "Heavy snow",
	28: "Thunder showers",
	29: "Thunder showers",
	30: "Thunder",
}

// fallbackPhrase is spoken for codes missing from the catalog. Unknown codes
// are non-fatal; they must never abort bulletin generation.
const fallbackPhrase = "Some weather"

// daySkipCodes are daytime-specific or neutral codes omitted from night
// narration; nightSkipCodes are night-specific codes omitted from day
// narration. Together they partition the catalog by time-of-day specificity.
var (
	daySkipCodes = map[Code]struct{}{
		1: {}, 2: {}, 3: {}, 4: {}, 5: {}, 6: {}, 7: {}, 8: {},
		11: {}, 12: {}, 15: {}, 18: {}, 21: {}, 24: {}, 27: {}, 30: {},
	}
	nightSkipCodes = map[Code]struct{}{
		0: {}, 9: {}, 10: {}, 13: {}, 14: {}, 16: {}, 17: {},
		19: {}, 20: {}, 22: {}, 23: {}, 25: {}, 26: {}, 28: {}, 29: {},
	}
)

// Valid reports whether c is inside the significant weather code domain.
// Code 4 is reserved upstream but still decodes; it simply has no catalog entry.
func (c Code) Valid() bool {
	return c >= MinCode && c <= MaxCode
}

// Description returns the catalog name for c, or false if c is unknown.
func (c Code) Description() (string, bool) {
	d, ok := descriptions[c]
	return d, ok
}

// Phrase returns the narrative wording for c, falling back to a generic
// phrase for unknown codes.
func (c Code) Phrase() string {
	if p, ok := phrases[c]; ok {
		return p
	}
	return fallbackPhrase
}
