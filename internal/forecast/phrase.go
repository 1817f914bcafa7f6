package forecast

import "strings"

// NarrationContext selects which skip set applies when codes are spoken.
type NarrationContext string

const (
	DayContext   NarrationContext = "day"
	NightContext NarrationContext = "night"
)

// RenderCodes turns an ordered code list into a spoken phrase for the given
// context. Codes made redundant by a more specific code are pruned first,
// then codes outside the context's skip set are joined: the second surviving
// phrase after ", with ", the third after " and ", any further phrases
// appended bare. An empty survivor set renders as "".
func RenderCodes(codes []Code, nctx NarrationContext) string {
	pruned := pruneRedundant(codes)

	skip := nightSkipCodes
	if nctx == NightContext {
		skip = daySkipCodes
	}

	var b strings.Builder
	n := len(pruned)
	spoken := 0
	for _, c := range pruned {
		if _, skipped := skip[c]; skipped {
			continue
		}
		spoken++
		if spoken == 2 && n >= 2 {
			b.WriteString(", with ")
		}
		if spoken == 3 && n >= 3 {
			b.WriteString(" and ")
		}
		b.WriteString(c.Phrase())
	}
	return b.String()
}

// pruneRedundant drops "cloudy skies" (7) and "partially cloudy" (2) when
// "sunny with a few clouds" (3) is present. Works on a copy; the caller's
// slice is never modified.
func pruneRedundant(codes []Code) []Code {
	sunnyWithClouds := false
	for _, c := range codes {
		if c == 3 {
			sunnyWithClouds = true
			break
		}
	}
	if !sunnyWithClouds {
		return append([]Code(nil), codes...)
	}

	out := make([]Code, 0, len(codes))
	for _, c := range codes {
		if c == 7 || c == 2 {
			continue
		}
		out = append(out, c)
	}
	return out
}
