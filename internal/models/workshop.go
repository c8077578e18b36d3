package models

// Workshop is an extracurricular offering with a fixed cost.
type Workshop struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// EnrollmentType classifies an enrollment (workshop, regular, vacation).
type EnrollmentType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Enrollment type identifiers.
const (
	EnrollmentTypeTaller     = "TALLER"
	EnrollmentTypeRegular    = "REGULAR"
	EnrollmentTypeVacacional = "VACACIONAL"
)
