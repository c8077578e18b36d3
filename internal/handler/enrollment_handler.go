package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/middleware"
	"github.com/noah-isme/talleres-api/internal/models"
	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
	"github.com/noah-isme/talleres-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, req dto.EnrollRequest) (*models.Enrollment, error)
	Search(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
}

// EnrollmentHandler exposes the capture flow and enrollment search.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs handler.
func NewEnrollmentHandler(service enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Create godoc
// @Summary Register an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, c.FullPath()+"/"+enrollment.ID, enrollment)
}

// Search godoc
// @Summary Search enrollments
// @Tags Enrollments
// @Produce json
// @Param dni query string false "DNI substring"
// @Param nombreCompleto query string false "Full name substring (case-insensitive)"
// @Param idTipoMatricula query string false "Enrollment type, or all"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) Search(c *gin.Context) {
	query := models.EnrollmentQuery{
		DNI:              c.Query("dni"),
		FullName:         c.Query("nombreCompleto"),
		EnrollmentTypeID: c.Query("idTipoMatricula"),
	}
	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", len(results))
	response.JSON(c, http.StatusOK, results, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	enrollment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment)
}
