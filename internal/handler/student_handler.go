package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/pkg/response"
)

type studentLookupService interface {
	LookupStudent(ctx context.Context, dni string) (*dto.StudentLookupResponse, error)
}

// StudentHandler prefills the capture form from known students.
type StudentHandler struct {
	service studentLookupService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(service studentLookupService) *StudentHandler {
	return &StudentHandler{service: service}
}

// Lookup godoc
// @Summary Look up a student by DNI
// @Tags Students
// @Produce json
// @Param dni path string true "Student DNI"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{dni} [get]
func (h *StudentHandler) Lookup(c *gin.Context) {
	resp, err := h.service.LookupStudent(c.Request.Context(), c.Param("dni"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
