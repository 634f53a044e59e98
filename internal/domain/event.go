package domain

import (
	"fmt"
	"strings"
	"time"
)

// EventDateLayout is the calendar date format events are stored in.
const EventDateLayout = "2006-01-02"

// Event is a dated club happening. An empty Team marks a public event.
type Event struct {
	Title string
	Date  string
	Team  string
}

func (e *Event) IsPublic() bool {
	return e.Team == ""
}

func (e *Event) Validate() error {
	if err := checkText("event", e.Title, e.Date, e.Team); err != nil {
		return err
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event title is required: %w", ErrInvalidInput)
	}
	if _, err := time.Parse(EventDateLayout, e.Date); err != nil {
		return fmt.Errorf("event date %q must be YYYY-MM-DD: %w", e.Date, ErrInvalidInput)
	}
	return nil
}
