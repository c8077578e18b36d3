package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/models"
	"github.com/noah-isme/talleres-api/internal/repository"
	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
	"github.com/noah-isme/talleres-api/pkg/middleware/requestid"
)

// Student lookup sources reported to the capture form.
const (
	StudentSourceEnrollments = "enrollments"
	StudentSourceDirectory   = "directory"
)

const allEnrollmentTypes = "all"

type enrollmentStore interface {
	Create(ctx context.Context, draft models.EnrollmentDraft) (models.Enrollment, error)
	Search(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindLatestStudent(ctx context.Context, dni string) (*models.Student, error)
}

type catalogReader interface {
	Workshops() []models.Workshop
	EnrollmentTypes() []models.EnrollmentType
	SchedulesByWorkshop(workshopID string) []models.Schedule
	FindWorkshop(id string) (models.Workshop, bool)
	FindSchedule(id string) (models.Schedule, bool)
	FindEnrollmentType(id string) (models.EnrollmentType, bool)
}

type studentDirectory interface {
	Lookup(dni string) (models.Student, bool)
}

// EnrollmentService orchestrates the capture flow and enrollment queries.
type EnrollmentService struct {
	store     enrollmentStore
	catalog   catalogReader
	directory studentDirectory
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(store enrollmentStore, catalog catalogReader, directory studentDirectory, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = newRequestValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{store: store, catalog: catalog, directory: directory, metrics: metrics, validator: validate, logger: logger}
}

// newRequestValidator reports field errors by their JSON names.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Enroll validates the capture form and appends a new enrollment to the store.
func (s *EnrollmentService) Enroll(ctx context.Context, req dto.EnrollRequest) (*models.Enrollment, error) {
	req = normalizeEnrollRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	if _, ok := s.catalog.FindEnrollmentType(req.EnrollmentTypeID); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollment type")
	}
	workshop, ok := s.catalog.FindWorkshop(req.WorkshopID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown workshop")
	}
	schedule, ok := s.catalog.FindSchedule(req.ScheduleID)
	if !ok || schedule.WorkshopID != workshop.ID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule does not belong to workshop")
	}
	if !schedule.Selectable() {
		return nil, appErrors.Clone(appErrors.ErrScheduleUnavailable, fmt.Sprintf("schedule %s has no remaining capacity", schedule.ID))
	}

	draft := models.EnrollmentDraft{
		EnrollmentTypeID: req.EnrollmentTypeID,
		Student: models.Student{
			DNI:             req.Student.DNI,
			Nombre:          req.Student.Nombre,
			ApellidoPaterno: req.Student.ApellidoPaterno,
			ApellidoMaterno: req.Student.ApellidoMaterno,
		},
		Guardian: models.Guardian{
			DNI:       req.Guardian.DNI,
			Nombre:    req.Guardian.Nombre,
			Apellidos: req.Guardian.Apellidos,
			Celular:   req.Guardian.Celular,
			Celular2:  req.Guardian.Celular2,
			Correo:    req.Guardian.Correo,
		},
		Workshop:   workshop,
		ScheduleID: schedule.ID,
		Horario:    schedule.Label(),
	}

	start := time.Now()
	enrollment, err := s.store.Create(ctx, draft)
	s.metrics.ObserveStoreWrite("create", err, time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrPersist) || errors.Is(err, repository.ErrStoreClosed) {
			s.logger.Error("enrollment not persisted",
				zap.String("dni", draft.Student.DNI),
				zap.String("request_id", requestid.FromContext(ctx)),
				zap.Error(err),
			)
			return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "enrollment could not be saved")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.metrics.IncEnrollmentCreated(enrollment.EnrollmentTypeID)
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("workshop_id", enrollment.Workshop.ID),
		zap.String("schedule_id", enrollment.ScheduleID),
		zap.String("request_id", requestid.FromContext(ctx)),
	)
	return &enrollment, nil
}

// Search filters the live collection. An enrollment type of "all" means no type filter.
func (s *EnrollmentService) Search(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, error) {
	results, err := s.store.Search(ctx, NormalizeQuery(query))
	if err != nil {
		return nil, storeReadError(err, "failed to search enrollments")
	}
	return results, nil
}

// Get returns one enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, storeReadError(err, "failed to load enrollment")
	}
	return enrollment, nil
}

// LookupStudent prefills the student block: the most recent enrollment wins over the seeded directory.
func (s *EnrollmentService) LookupStudent(ctx context.Context, dni string) (*dto.StudentLookupResponse, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dni is required")
	}
	student, err := s.store.FindLatestStudent(ctx, dni)
	if err == nil {
		return &dto.StudentLookupResponse{Student: *student, Source: StudentSourceEnrollments}, nil
	}
	if !errors.Is(err, repository.ErrEnrollmentNotFound) {
		return nil, storeReadError(err, "failed to look up student")
	}
	if s.directory != nil {
		if found, ok := s.directory.Lookup(dni); ok {
			return &dto.StudentLookupResponse{Student: found, Source: StudentSourceDirectory}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "DNI no encontrado, ingrese los datos manualmente")
}

// Workshops lists the workshop catalog.
func (s *EnrollmentService) Workshops() []models.Workshop {
	return s.catalog.Workshops()
}

// EnrollmentTypes lists the enrollment type catalog.
func (s *EnrollmentService) EnrollmentTypes() []models.EnrollmentType {
	return s.catalog.EnrollmentTypes()
}

// Schedules lists the schedules of a workshop with their selectability.
func (s *EnrollmentService) Schedules(workshopID string) ([]dto.ScheduleOption, error) {
	if _, ok := s.catalog.FindWorkshop(workshopID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
	}
	schedules := s.catalog.SchedulesByWorkshop(workshopID)
	options := make([]dto.ScheduleOption, 0, len(schedules))
	for _, sch := range schedules {
		options = append(options, dto.ScheduleOption{Schedule: sch, Label: sch.Label(), Selectable: sch.Selectable()})
	}
	return options, nil
}

// NormalizeQuery trims predicates and maps the "all" type selector to no filter.
func NormalizeQuery(q models.EnrollmentQuery) models.EnrollmentQuery {
	q.DNI = strings.TrimSpace(q.DNI)
	q.FullName = strings.TrimSpace(q.FullName)
	q.EnrollmentTypeID = strings.TrimSpace(q.EnrollmentTypeID)
	if strings.EqualFold(q.EnrollmentTypeID, allEnrollmentTypes) {
		q.EnrollmentTypeID = ""
	}
	return q
}

func normalizeEnrollRequest(req dto.EnrollRequest) dto.EnrollRequest {
	req.EnrollmentTypeID = strings.TrimSpace(req.EnrollmentTypeID)
	req.WorkshopID = strings.TrimSpace(req.WorkshopID)
	req.ScheduleID = strings.TrimSpace(req.ScheduleID)
	req.Student.DNI = strings.TrimSpace(req.Student.DNI)
	req.Student.Nombre = strings.TrimSpace(req.Student.Nombre)
	req.Student.ApellidoPaterno = strings.TrimSpace(req.Student.ApellidoPaterno)
	req.Student.ApellidoMaterno = strings.TrimSpace(req.Student.ApellidoMaterno)
	req.Guardian.DNI = strings.TrimSpace(req.Guardian.DNI)
	req.Guardian.Nombre = strings.TrimSpace(req.Guardian.Nombre)
	req.Guardian.Apellidos = strings.TrimSpace(req.Guardian.Apellidos)
	req.Guardian.Celular = strings.TrimSpace(req.Guardian.Celular)
	req.Guardian.Celular2 = strings.TrimSpace(req.Guardian.Celular2)
	req.Guardian.Correo = strings.TrimSpace(req.Guardian.Correo)
	return req
}

// validationError lists missing required fields first, then fields failing other rules.
func validationError(err error, fallback string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fallback)
	}
	var missing, invalid []string
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		details[field] = fe.Tag()
		if fe.Tag() == "required" {
			missing = append(missing, field)
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", field, fe.Tag()))
	}
	message := fallback
	switch {
	case len(missing) > 0:
		message = "Complete todos los campos obligatorios: " + strings.Join(missing, ", ")
	case len(invalid) > 0:
		message = "invalid fields: " + strings.Join(invalid, ", ")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message).WithDetails(details)
}

func storeReadError(err error, message string) error {
	if errors.Is(err, repository.ErrStoreClosed) {
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
