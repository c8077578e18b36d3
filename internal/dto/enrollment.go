package dto

import (
	"time"

	"github.com/noah-isme/talleres-api/internal/models"
)

// StudentInput carries the student block of the capture form.
type StudentInput struct {
	DNI             string `json:"dni" validate:"required,max=8"`
	Nombre          string `json:"nombre" validate:"required"`
	ApellidoPaterno string `json:"apellidoPaterno" validate:"required"`
	ApellidoMaterno string `json:"apellidoMaterno"`
}

// GuardianInput carries the optional guardian block.
type GuardianInput struct {
	DNI       string `json:"dni" validate:"omitempty,max=8"`
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	Celular   string `json:"celular" validate:"omitempty,max=9"`
	Celular2  string `json:"celular2" validate:"omitempty,max=9"`
	Correo    string `json:"correo" validate:"omitempty,email"`
}

// EnrollRequest is the capture form payload.
type EnrollRequest struct {
	EnrollmentTypeID string        `json:"idTipoMatricula" validate:"required"`
	Student          StudentInput  `json:"student"`
	Guardian         GuardianInput `json:"guardian"`
	WorkshopID       string        `json:"workshopId" validate:"required"`
	ScheduleID       string        `json:"scheduleId" validate:"required"`
}

// ScheduleOption is a schedule row as shown in the capture form.
type ScheduleOption struct {
	models.Schedule
	Label      string `json:"etiqueta"`
	Selectable bool   `json:"seleccionable"`
}

// StudentLookupResponse reports where a prefilled student came from.
type StudentLookupResponse struct {
	Student models.Student `json:"student"`
	Source  string         `json:"source"`
}

// ConfirmationResponse summarises a freshly created enrollment for the confirmation surface.
type ConfirmationResponse struct {
	Enrollment   models.Enrollment `json:"enrollment"`
	QRPayload    string            `json:"qrPayload"`
	Summary      string            `json:"summary"`
	ShareURL     string            `json:"shareUrl"`
	DocumentName string            `json:"documentName"`
}

// ListingResponse is the listing surface state returned to clients.
type ListingResponse struct {
	ID         string                 `json:"id"`
	Filter     models.EnrollmentQuery `json:"filter"`
	Rows       []models.ListingRow    `json:"rows"`
	Total      int                    `json:"total"`
	LoadedAt   time.Time              `json:"loadedAt"`
	SearchedAt time.Time              `json:"searchedAt"`
}

// ExportRequest asks for an asynchronous listing export.
type ExportRequest struct {
	Format           models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
	DNI              string              `json:"dni"`
	FullName         string              `json:"nombreCompleto"`
	EnrollmentTypeID string              `json:"idTipoMatricula"`
}

// ExportJobResponse acknowledges a queued export.
type ExportJobResponse struct {
	ID     string              `json:"id"`
	Status models.ExportStatus `json:"status"`
}
