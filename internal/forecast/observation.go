package forecast

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Observation is one time-stamped sample from the forecast feed. Immutable
// once parsed; the aggregator is its only consumer.
type Observation struct {
	Time                   time.Time
	MaxScreenAirTemp       float64
	MinScreenAirTemp       float64
	SignificantWeatherCode Code `validate:"min=0,max=30"`
	UVIndex                int  `validate:"min=0"`
	ProbOfRain             int  `validate:"min=0,max=100"`
}

// Date returns the calendar-date bucket key (YYYY-MM-DD) for the observation.
func (o Observation) Date() string {
	return o.Time.Format("2006-01-02")
}

// Validate checks the observation against the feed contract.
func (o Observation) Validate() error {
	if o.Time.IsZero() {
		return &MalformedObservationError{Field: "time", Reason: "is missing or zero"}
	}
	if err := validate.Struct(o); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &MalformedObservationError{
				Field:  errs[0].Field(),
				Reason: fmt.Sprintf("failed %q validation", errs[0].Tag()),
			}
		}
		return err
	}
	return nil
}
