package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Window is a half-open [Start, End) interval during which equipment is held.
// Back-to-back windows do not overlap.
type Window struct {
	Start time.Time `firestore:"startDateTime" json:"startDateTime"`
	End   time.Time `firestore:"endDateTime" json:"endDateTime"`
}

// Overlaps reports whether two half-open windows intersect.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() || w.End.IsZero()
}

// Days returns the number of calendar days the window spans, counting a
// partial final day as a full one.
func (w Window) Days() int {
	d := w.End.Sub(w.Start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

func (w Window) Validate() error {
	if w.IsZero() {
		return E(KindValidation, "window.validate", "rental and return date/time are required")
	}
	if !w.End.After(w.Start) {
		return E(KindValidation, "window.validate", "return must be after rental start")
	}
	return nil
}

// ParseWindow builds a Window from the legacy four-field form
// (rentalDate, rentalTime, returnDate, returnTime). It fails closed on any
// missing or unparsable field rather than defaulting.
func ParseWindow(rentalDate, rentalTime, returnDate, returnTime string) (Window, error) {
	start, err := parseDateTime(rentalDate, rentalTime)
	if err != nil {
		return Window{}, E(KindValidation, "window.parse", fmt.Sprintf("invalid rental date/time: %v", err))
	}
	end, err := parseDateTime(returnDate, returnTime)
	if err != nil {
		return Window{}, E(KindValidation, "window.parse", fmt.Sprintf("invalid return date/time: %v", err))
	}
	w := Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func parseDateTime(date, clock string) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("missing date or time field")
	}
	return time.Parse(DateLayout+" "+TimeLayout, date+" "+clock)
}
