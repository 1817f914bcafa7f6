package forecast

import "fmt"

// MissingPeriodError reports that a date or (date, day-part) bucket required
// for composition is absent from the index. It is fatal: the bulletin must
// not be generated from a partial index.
type MissingPeriodError struct {
	Date string
	Part DayPart // empty when the whole date is missing
}

func (e *MissingPeriodError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("no forecast data for %s", e.Date)
	}
	return fmt.Sprintf("no forecast data for %s %s", e.Date, e.Part)
}

// MalformedObservationError reports a raw feed entry with a missing or
// invalid required field. It aborts aggregation before an index is built.
type MalformedObservationError struct {
	Field  string
	Reason string
}

func (e *MalformedObservationError) Error() string {
	return fmt.Sprintf("malformed observation: field %q %s", e.Field, e.Reason)
}
