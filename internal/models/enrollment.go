package models

import (
	"strings"
	"time"
)

// Student is embedded by value in an enrollment; DNI is its natural key.
type Student struct {
	DNI             string `json:"dni"`
	Nombre          string `json:"nombre"`
	ApellidoPaterno string `json:"apellidoPaterno"`
	ApellidoMaterno string `json:"apellidoMaterno"`
}

// FullName joins given name and both surnames with single spaces.
func (s Student) FullName() string {
	return s.Nombre + " " + s.ApellidoPaterno + " " + s.ApellidoMaterno
}

// Surnames joins both surnames.
func (s Student) Surnames() string {
	return strings.TrimSpace(s.ApellidoPaterno + " " + s.ApellidoMaterno)
}

// Guardian is the optional responsible adult, embedded by value.
type Guardian struct {
	DNI       string `json:"dni"`
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	Celular   string `json:"celular"`
	Celular2  string `json:"celular2"`
	Correo    string `json:"correo"`
}

// Enrollment is the only persisted entity. Field names match the stored layout.
type Enrollment struct {
	ID               string    `json:"id"`
	EnrollmentTypeID string    `json:"idTipoMatricula"`
	Student          Student   `json:"student"`
	Guardian         Guardian  `json:"guardian"`
	Workshop         Workshop  `json:"workshop"`
	ScheduleID       string    `json:"scheduleId"`
	Horario          string    `json:"horario"`
	CreatedAt        time.Time `json:"createdAt"`
}

// EnrollmentDraft is everything the caller supplies; the store assigns ID and CreatedAt.
type EnrollmentDraft struct {
	EnrollmentTypeID string
	Student          Student
	Guardian         Guardian
	Workshop         Workshop
	ScheduleID       string
	Horario          string
}

// EnrollmentQuery holds optional search predicates. Empty fields match everything.
type EnrollmentQuery struct {
	DNI              string `json:"dni,omitempty"`
	FullName         string `json:"nombreCompleto,omitempty"`
	EnrollmentTypeID string `json:"idTipoMatricula,omitempty"`
}

// IsZero reports whether no predicate is set.
func (q EnrollmentQuery) IsZero() bool {
	return q.DNI == "" && q.FullName == "" && q.EnrollmentTypeID == ""
}

// Matches applies all set predicates with AND semantics: DNI substring, case-insensitive
// full-name substring and exact enrollment type.
func (q EnrollmentQuery) Matches(e Enrollment) bool {
	if q.DNI != "" && !strings.Contains(e.Student.DNI, q.DNI) {
		return false
	}
	if q.FullName != "" && !strings.Contains(strings.ToLower(e.Student.FullName()), strings.ToLower(q.FullName)) {
		return false
	}
	if q.EnrollmentTypeID != "" && e.EnrollmentTypeID != q.EnrollmentTypeID {
		return false
	}
	return true
}

// FilterEnrollments returns the matching records in their original order.
func FilterEnrollments(items []Enrollment, q EnrollmentQuery) []Enrollment {
	out := make([]Enrollment, 0, len(items))
	for _, e := range items {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
