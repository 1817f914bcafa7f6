package forecast

import (
	"fmt"
	"strings"
	"time"
)

// Window identifies which of the four wall-clock windows the bulletin is
// composed for. Each window maps to one fixed narrative template.
type Window int

const (
	OvernightWindow Window = iota // [0,5)
	MorningWindow                 // [5,11)
	AfternoonWindow               // [11,17)
	EveningWindow                 // [17,24)
)

// WindowFor classifies an hour of day into its bulletin window.
func WindowFor(hour int) Window {
	switch {
	case hour >= 5 && hour < 11:
		return MorningWindow
	case hour >= 11 && hour < 17:
		return AfternoonWindow
	case hour >= 17 && hour < 24:
		return EveningWindow
	default:
		return OvernightWindow
	}
}

func (w Window) String() string {
	switch w {
	case MorningWindow:
		return "morning"
	case AfternoonWindow:
		return "afternoon"
	case EveningWindow:
		return "evening"
	default:
		return "overnight"
	}
}

// Composer renders a spoken bulletin from a forecast index. Place is the
// locality name woven into the narrative.
type Composer struct {
	Place string
}

// Compose selects the template for now's hour and renders it from the index.
// It is a pure function of (index, now): any missing date or day part
// surfaces as a MissingPeriodError and no partial bulletin is produced.
func (c *Composer) Compose(idx *Index, now time.Time) (string, error) {
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	switch WindowFor(now.Hour()) {
	case MorningWindow:
		return c.morningBulletin(idx, today)
	case AfternoonWindow:
		return c.afternoonBulletin(idx, today)
	case EveningWindow:
		return c.eveningBulletin(idx, today, tomorrow)
	default:
		return c.overnightBulletin(idx, tomorrow)
	}
}

// morningBulletin covers this morning and afternoon with today's high.
func (c *Composer) morningBulletin(idx *Index, today string) (string, error) {
	morning, err := renderPeriod(idx, today, Morning, DayContext)
	if err != nil {
		return "", err
	}
	afternoon, err := renderPeriod(idx, today, Afternoon, DayContext)
	if err != nil {
		return "", err
	}
	hl, err := idx.HighLow(today)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s this morning, ", morning)
	if morning == afternoon {
		fmt.Fprintf(&b, "staying much the same throughout the afternoon in %s, ", c.Place)
	} else {
		fmt.Fprintf(&b, "%s across %s this afternoon ", afternoon, c.Place)
	}
	fmt.Fprintf(&b, "with temperatures reaching %d degrees.", hl.High)
	return b.String(), nil
}

// afternoonBulletin covers this afternoon and evening with today's high.
func (c *Composer) afternoonBulletin(idx *Index, today string) (string, error) {
	afternoon, err := renderPeriod(idx, today, Afternoon, DayContext)
	if err != nil {
		return "", err
	}
	evening, err := renderPeriod(idx, today, Evening, DayContext)
	if err != nil {
		return "", err
	}
	hl, err := idx.HighLow(today)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s this afternoon", afternoon)
	if afternoon == evening {
		b.WriteString(", continuing into the evening")
	} else {
		fmt.Fprintf(&b, ", %s later into the evening", evening)
	}
	fmt.Fprintf(&b, ". Highs across %s of %d degrees.", c.Place, hl.High)
	return b.String(), nil
}

// eveningBulletin covers this evening, the coming night, and tomorrow morning.
func (c *Composer) eveningBulletin(idx *Index, today, tomorrow string) (string, error) {
	evening, err := renderPeriod(idx, today, Evening, DayContext)
	if err != nil {
		return "", err
	}
	overnight, err := renderPeriod(idx, tomorrow, Overnight, NightContext)
	if err != nil {
		return "", err
	}
	tomorrowMorning, err := renderPeriod(idx, tomorrow, Morning, DayContext)
	if err != nil {
		return "", err
	}
	hl, err := idx.HighLow(tomorrow)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s this evening. ", evening)
	fmt.Fprintf(&b, "%s overnight with lows of %d degrees. ", overnight, hl.Low)
	fmt.Fprintf(&b, "Tomorrow we will expect %s with highs of %d.", tomorrowMorning, hl.High)
	return b.String(), nil
}

// overnightBulletin covers the rest of the night and the whole of tomorrow.
func (c *Composer) overnightBulletin(idx *Index, tomorrow string) (string, error) {
	overnight, err := renderPeriod(idx, tomorrow, Overnight, NightContext)
	if err != nil {
		return "", err
	}
	morning, err := renderPeriod(idx, tomorrow, Morning, DayContext)
	if err != nil {
		return "", err
	}
	afternoon, err := renderPeriod(idx, tomorrow, Afternoon, DayContext)
	if err != nil {
		return "", err
	}
	hl, err := idx.HighLow(tomorrow)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s overnight with lows of %d degrees. ", overnight, hl.Low)
	if morning == afternoon {
		fmt.Fprintf(&b, "Tomorrow we are expecting %s, ", morning)
		fmt.Fprintf(&b, "with temperatures reaching highs of %d degrees.", hl.High)
	} else {
		fmt.Fprintf(&b, "Tomorrow morning will start with %s, ", morning)
		fmt.Fprintf(&b, "%s later on, highs of %d.", afternoon, hl.High)
	}
	return b.String(), nil
}

// renderPeriod looks up one period and speaks its codes. Adjacent periods
// that render to the identical phrase are later collapsed by plain string
// comparison, so rendering must stay deterministic.
func renderPeriod(idx *Index, date string, part DayPart, nctx NarrationContext) (string, error) {
	summary, err := idx.Period(date, part)
	if err != nil {
		return "", err
	}
	return RenderCodes(summary.Codes, nctx), nil
}
