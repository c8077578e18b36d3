package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/service"
	"github.com/noah-isme/talleres-api/pkg/response"
)

type confirmationService interface {
	Describe(ctx context.Context, id string) (*dto.ConfirmationResponse, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
	Document(ctx context.Context, id string) (*service.ConfirmationDocument, error)
}

// ConfirmationHandler exposes the post-enrollment confirmation surface. Nothing here writes to the store.
type ConfirmationHandler struct {
	service confirmationService
}

// NewConfirmationHandler constructs handler.
func NewConfirmationHandler(service confirmationService) *ConfirmationHandler {
	return &ConfirmationHandler{service: service}
}

// Describe godoc
// @Summary Confirmation details of an enrollment
// @Tags Confirmation
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/confirmation [get]
func (h *ConfirmationHandler) Describe(c *gin.Context) {
	resp, err := h.service.Describe(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// QRCode godoc
// @Summary QR code image of an enrollment
// @Tags Confirmation
// @Produce png
// @Param id path string true "Enrollment ID"
// @Success 200 {file} binary
// @Router /enrollments/{id}/qr.png [get]
func (h *ConfirmationHandler) QRCode(c *gin.Context) {
	png, err := h.service.QRCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Document godoc
// @Summary Printable confirmation
// @Tags Confirmation
// @Produce application/pdf
// @Param id path string true "Enrollment ID"
// @Success 200 {file} binary
// @Router /enrollments/{id}/confirmation.pdf [get]
func (h *ConfirmationHandler) Document(c *gin.Context) {
	doc, err := h.service.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "application/pdf", doc.Filename, doc.Data)
}

// Share godoc
// @Summary Redirect to the pre-filled messaging share link
// @Tags Confirmation
// @Param id path string true "Enrollment ID"
// @Success 302
// @Router /enrollments/{id}/share [get]
func (h *ConfirmationHandler) Share(c *gin.Context) {
	resp, err := h.service.Describe(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, resp.ShareURL)
}
