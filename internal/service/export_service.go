package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/models"
	"github.com/noah-isme/talleres-api/internal/repository"
	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
	"github.com/noah-isme/talleres-api/pkg/export"
	"github.com/noah-isme/talleres-api/pkg/jobs"
	"github.com/noah-isme/talleres-api/pkg/storage"
)

// ExportJobType labels listing export jobs on the queue.
const ExportJobType = "listing_export"

var listingHeaders = []string{"DNI", "Nombre Completo", "Tipo de Matrícula", "Taller", "Horario"}

type enrollmentSearcher interface {
	Search(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, error)
}

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]models.ExportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled         bool
	APIPrefix       string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ExportFormat
	MimeType  string
	SizeBytes int64
	ExpiresAt time.Time
}

// ExportService runs listing exports through the job queue and serves the stored results.
type ExportService struct {
	enrollments enrollmentSearcher
	repo        exportJobStore
	queue       jobDispatcher
	files       fileStorage
	signer      *storage.SignedURLSigner
	csv         csvRenderer
	pdf         pdfRenderer
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         ExportConfig
}

// NewExportService constructs an ExportService. The queue is attached separately because its
// handler is the service itself.
func NewExportService(enrollments enrollmentSearcher, repo exportJobStore, files fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = &export.CSVExporter{BOM: true}
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		enrollments: enrollments,
		repo:        repo,
		files:       files,
		signer:      signer,
		csv:         csv,
		pdf:         pdf,
		metrics:     metrics,
		validator:   newRequestValidator(),
		logger:      logger,
		cfg:         cfg,
	}
}

// AttachQueue sets the dispatcher used by CreateJob.
func (s *ExportService) AttachQueue(queue jobDispatcher) {
	s.queue = queue
}

// CreateJob validates the request, records a queued job and dispatches it.
func (s *ExportService) CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if !s.cfg.Enabled || s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "exports disabled")
	}
	req.Format = models.ExportFormat(strings.ToLower(string(req.Format)))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid export request")
	}
	job := &models.ExportJob{
		ID:     uuid.NewString(),
		Format: req.Format,
		Filter: NormalizeQuery(models.EnrollmentQuery{
			DNI:              req.DNI,
			FullName:         req.FullName,
			EnrollmentTypeID: req.EnrollmentTypeID,
		}),
		Status:    models.ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ExportJobType}); err != nil {
		s.fail(ctx, job.ID, job.Format, "failed to enqueue job")
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrExportsBusy.Code, appErrors.ErrExportsBusy.Status, appErrors.ErrExportsBusy.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// GetStatus exposes job metadata to clients.
func (s *ExportService) GetStatus(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExportJobNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// Process is the queue handler: it searches, renders, stores and signs one export.
func (s *ExportService) Process(ctx context.Context, qj jobs.Job) error {
	job, err := s.repo.GetByID(ctx, qj.ID)
	if err != nil {
		return err
	}
	processing := models.ExportStatusProcessing
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &processing}); err != nil {
		return err
	}

	results, err := s.enrollments.Search(ctx, job.Filter)
	if err != nil {
		return err
	}
	dataset := buildListingDataset(results)

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Listado de Matrículas")
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return err
	}

	relPath, err := s.files.Save(buildExportFilename(job), payload)
	if err != nil {
		return err
	}
	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	resultURL := fmt.Sprintf("%s/exports/download/%s", prefix, token)

	finished := models.ExportStatusFinished
	rowCount := len(dataset.Rows)
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:       &finished,
		RowCount:     &rowCount,
		ResultURL:    &resultURL,
		RelativePath: &relPath,
		FinishedAt:   &now,
	}); err != nil {
		return err
	}
	s.metrics.IncExport(string(job.Format), string(finished))
	s.logger.Info("export finished", zap.String("job_id", job.ID), zap.String("format", string(job.Format)), zap.Int("rows", rowCount))
	return nil
}

// MarkFailed is the queue give-up hook.
func (s *ExportService) MarkFailed(qj jobs.Job, cause error) {
	msg := "export failed"
	if cause != nil {
		msg = cause.Error()
	}
	format := models.ExportFormat("")
	if job, err := s.repo.GetByID(context.Background(), qj.ID); err == nil {
		format = job.Format
	}
	s.fail(context.Background(), qj.ID, format, msg)
}

func (s *ExportService) fail(ctx context.Context, id string, format models.ExportFormat, msg string) {
	failed := models.ExportStatusFailed
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateExportJobParams{Status: &failed, ErrorMessage: &msg, FinishedAt: &now}); err != nil {
		s.logger.Warn("failed to mark export job failed", zap.String("job_id", id), zap.Error(err))
	}
	s.metrics.IncExport(string(format), string(failed))
}

// ResolveDownload validates the token and opens the stored export file.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	signed, err := s.signer.Verify(token, false)
	if errors.Is(err, storage.ErrTokenExpired) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired, request a new export")
	}
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download token")
	}
	relPath, expiresAt := signed.Path, signed.ExpiresAt
	job, err := s.GetStatus(ctx, signed.ExportID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	size := int64(-1)
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}
	return &ExportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		MimeType:  exportMimeType(job.Format),
		SizeBytes: size,
		ExpiresAt: expiresAt,
	}, nil
}

func exportMimeType(format models.ExportFormat) string {
	switch format {
	case models.ExportFormatPDF:
		return "application/pdf"
	case models.ExportFormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup(ctx)
			}
		}
	}()
}

// Cleanup drops jobs finished before the result TTL together with their files.
func (s *ExportService) Cleanup(ctx context.Context) {
	expired, err := s.repo.DeleteFinishedBefore(ctx, time.Now().Add(-s.cfg.ResultTTL))
	if err != nil {
		s.logger.Warn("cleanup list failed", zap.Error(err))
		return
	}
	for _, job := range expired {
		if job.RelativePath == "" {
			continue
		}
		if err := s.files.Delete(job.RelativePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	if _, err := s.files.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
	}
}

func buildListingDataset(results []models.Enrollment) export.Dataset {
	rows := make([]map[string]string, 0, len(results))
	for _, e := range results {
		row := models.NewListingRow(e)
		rows = append(rows, map[string]string{
			"DNI":               row.DNI,
			"Nombre Completo":   row.FullName,
			"Tipo de Matrícula": row.EnrollmentTypeID,
			"Taller":            row.Workshop,
			"Horario":           row.Horario,
		})
	}
	return export.Dataset{Headers: listingHeaders, Rows: rows}
}

func buildExportFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("matriculas_%s_%s.%s", sanitizeFilename(job.ID), timestamp, job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
