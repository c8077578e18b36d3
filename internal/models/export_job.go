package models

import "time"

// ExportFormat enumerates supported listing export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob tracks one asynchronous listing export.
type ExportJob struct {
	ID           string          `json:"id"`
	Format       ExportFormat    `json:"format"`
	Filter       EnrollmentQuery `json:"filter"`
	Status       ExportStatus    `json:"status"`
	RowCount     int             `json:"rowCount"`
	ResultURL    *string         `json:"resultUrl,omitempty"`
	RelativePath string          `json:"-"`
	ErrorMessage *string         `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	FinishedAt   *time.Time      `json:"finishedAt,omitempty"`
}
