package models

import "fmt"

// Schedule is a day-pattern/shift slot offered under a workshop. Available is informational
// and is never decremented by enrollments.
type Schedule struct {
	ID         string `json:"id"`
	Pattern    string `json:"horario"`
	Shift      int    `json:"turno"`
	Available  int    `json:"disponibles"`
	WorkshopID string `json:"workshopId"`
}

// Label renders the display string stored on enrollments, e.g. "L-M-M - Turno 1".
func (s Schedule) Label() string {
	return fmt.Sprintf("%s - Turno %d", s.Pattern, s.Shift)
}

// Selectable reports whether the slot may be chosen in the capture flow.
func (s Schedule) Selectable() bool {
	return s.Available > 0
}
