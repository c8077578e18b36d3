package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/models"
	"github.com/noah-isme/talleres-api/pkg/response"
)

type catalogService interface {
	Workshops() []models.Workshop
	EnrollmentTypes() []models.EnrollmentType
	Schedules(workshopID string) ([]dto.ScheduleOption, error)
}

// CatalogHandler serves the static reference tables.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Workshops godoc
// @Summary List workshops
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workshops [get]
func (h *CatalogHandler) Workshops(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Workshops())
}

// Schedules godoc
// @Summary List schedules of a workshop
// @Tags Catalog
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workshops/{id}/schedules [get]
func (h *CatalogHandler) Schedules(c *gin.Context) {
	options, err := h.service.Schedules(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options)
}

// EnrollmentTypes godoc
// @Summary List enrollment types
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollment-types [get]
func (h *CatalogHandler) EnrollmentTypes(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.EnrollmentTypes())
}
