package models

import "time"

// ListingSnapshot is the listing surface's private copy of the store. It is refreshed only by
// explicit search, reload or clear calls, never by enrollments created after it was loaded.
type ListingSnapshot struct {
	ID       string          `json:"id"`
	Loaded   []Enrollment    `json:"loaded"`
	Filter   EnrollmentQuery `json:"filter"`
	Results  []Enrollment    `json:"results"`
	LoadedAt time.Time       `json:"loadedAt"`
	// SearchedAt is the last time Results were recomputed.
	SearchedAt time.Time `json:"searchedAt"`
}

// ListingRow is one line of the listing table.
type ListingRow struct {
	ID               string `json:"id"`
	DNI              string `json:"dni"`
	FullName         string `json:"nombreCompleto"`
	EnrollmentTypeID string `json:"idTipoMatricula"`
	Workshop         string `json:"taller"`
	Horario          string `json:"horario"`
}

// NewListingRow flattens an enrollment for tabular display.
func NewListingRow(e Enrollment) ListingRow {
	return ListingRow{
		ID:               e.ID,
		DNI:              e.Student.DNI,
		FullName:         e.Student.FullName(),
		EnrollmentTypeID: e.EnrollmentTypeID,
		Workshop:         e.Workshop.Name,
		Horario:          e.Horario,
	}
}
