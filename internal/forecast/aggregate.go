package forecast

import (
	"math"
	"sort"
)

// DayPart is a coarse bucket of local hours.
type DayPart string

const (
	Morning   DayPart = "morning"
	Afternoon DayPart = "afternoon"
	Evening   DayPart = "evening"
	Overnight DayPart = "overnight"
)

// ClassifyHour assigns an hour to a day part when classifying a single
// observation for the per-date index. Boundaries: morning [6,12),
// afternoon [12,18), evening [18,24), overnight otherwise.
func ClassifyHour(hour int) DayPart {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 24:
		return Evening
	default:
		return Overnight
	}
}

// SummaryPart assigns an hour to a day part when building cross-date
// qualitative groupings. Boundaries differ from ClassifyHour: morning
// [7,12), afternoon [12,17), evening [17,24), overnight otherwise.
// The two schemes are deliberately kept separate.
func SummaryPart(hour int) DayPart {
	switch {
	case hour >= 7 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 24:
		return Evening
	default:
		return Overnight
	}
}

// PeriodSummary holds the aggregated statistics for one (date, day-part)
// bucket. All fields are order-independent over the bucket's observations.
type PeriodSummary struct {
	MaxTemp    int    // round(max of max-temperatures)
	MinTemp    int    // round(min of min-temperatures)
	Codes      []Code // distinct codes observed, ascending
	UVIndex    int    // max over the period
	ProbOfRain int    // max over the period
}

// HighLow is the daily temperature envelope. Both values derive from the
// max-screen-air-temperature field across the whole date: the feed's
// max-temp series spans the diurnal range, so its minimum is the daily low.
type HighLow struct {
	High int
	Low  int
}

// Index is the aggregator's output: per-(date, day-part) summaries plus
// per-date high/low envelopes. Built once per invocation, never mutated.
type Index struct {
	periods  map[string]map[DayPart]PeriodSummary
	highLows map[string]HighLow
}

// Period returns the summary for (date, part), or a MissingPeriodError when
// the bucket had no observations. Callers must not substitute defaults.
func (idx *Index) Period(date string, part DayPart) (PeriodSummary, error) {
	parts, ok := idx.periods[date]
	if !ok {
		return PeriodSummary{}, &MissingPeriodError{Date: date}
	}
	s, ok := parts[part]
	if !ok {
		return PeriodSummary{}, &MissingPeriodError{Date: date, Part: part}
	}
	return s, nil
}

// HighLow returns the daily envelope for date.
func (idx *Index) HighLow(date string) (HighLow, error) {
	hl, ok := idx.highLows[date]
	if !ok {
		return HighLow{}, &MissingPeriodError{Date: date}
	}
	return hl, nil
}

// Dates returns the covered dates in ascending order.
func (idx *Index) Dates() []string {
	dates := make([]string, 0, len(idx.periods))
	for d := range idx.periods {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Aggregate groups observations by calendar date and day part and computes
// the summary statistics for each populated bucket.
func Aggregate(observations []Observation) (*Index, error) {
	byDate := make(map[string][]Observation)
	for _, o := range observations {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		byDate[o.Date()] = append(byDate[o.Date()], o)
	}

	idx := &Index{
		periods:  make(map[string]map[DayPart]PeriodSummary, len(byDate)),
		highLows: make(map[string]HighLow, len(byDate)),
	}

	for date, entries := range byDate {
		byPart := make(map[DayPart][]Observation)
		for _, o := range entries {
			part := ClassifyHour(o.Time.Hour())
			byPart[part] = append(byPart[part], o)
		}

		idx.periods[date] = make(map[DayPart]PeriodSummary, len(byPart))
		for part, bucket := range byPart {
			idx.periods[date][part] = summarize(bucket)
		}

		idx.highLows[date] = dailyHighLow(entries)
	}

	return idx, nil
}

func summarize(bucket []Observation) PeriodSummary {
	maxTemp := bucket[0].MaxScreenAirTemp
	minTemp := bucket[0].MinScreenAirTemp
	uv := bucket[0].UVIndex
	rain := bucket[0].ProbOfRain
	seen := make(map[Code]struct{})

	for _, o := range bucket {
		maxTemp = math.Max(maxTemp, o.MaxScreenAirTemp)
		minTemp = math.Min(minTemp, o.MinScreenAirTemp)
		if o.UVIndex > uv {
			uv = o.UVIndex
		}
		if o.ProbOfRain > rain {
			rain = o.ProbOfRain
		}
		seen[o.SignificantWeatherCode] = struct{}{}
	}

	codes := make([]Code, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return PeriodSummary{
		MaxTemp:    int(math.Round(maxTemp)),
		MinTemp:    int(math.Round(minTemp)),
		Codes:      codes,
		UVIndex:    uv,
		ProbOfRain: rain,
	}
}

func dailyHighLow(entries []Observation) HighLow {
	high := entries[0].MaxScreenAirTemp
	low := entries[0].MaxScreenAirTemp
	for _, o := range entries {
		high = math.Max(high, o.MaxScreenAirTemp)
		low = math.Min(low, o.MaxScreenAirTemp)
	}
	return HighLow{High: int(math.Round(high)), Low: int(math.Round(low))}
}

// PartGroups buckets observations across all dates by SummaryPart. It backs
// qualitative overviews that do not care which calendar day an hour fell on.
func PartGroups(observations []Observation) map[DayPart][]Observation {
	groups := map[DayPart][]Observation{
		Morning:   nil,
		Afternoon: nil,
		Evening:   nil,
		Overnight: nil,
	}
	for _, o := range observations {
		part := SummaryPart(o.Time.Hour())
		groups[part] = append(groups[part], o)
	}
	return groups
}

// DistinctDescriptions lists the catalog descriptions of every distinct code
// in the observation set, ascending by name. Unknown codes are skipped.
func DistinctDescriptions(observations []Observation) []string {
	seen := make(map[string]struct{})
	for _, o := range observations {
		if d, ok := o.SignificantWeatherCode.Description(); ok {
			seen[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
