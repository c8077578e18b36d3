package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/middleware"
	"github.com/noah-isme/talleres-api/internal/models"
	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
	"github.com/noah-isme/talleres-api/pkg/response"
)

type listingService interface {
	Open(ctx context.Context) (*dto.ListingResponse, error)
	Get(ctx context.Context, id string) (*dto.ListingResponse, error)
	Search(ctx context.Context, id string, query models.EnrollmentQuery) (*dto.ListingResponse, error)
	Reload(ctx context.Context, id string) (*dto.ListingResponse, error)
	Clear(ctx context.Context, id string) (*dto.ListingResponse, error)
	Close(ctx context.Context, id string) error
}

// ListingHandler exposes listing snapshots. A snapshot is never refreshed implicitly.
type ListingHandler struct {
	service listingService
}

// NewListingHandler constructs handler.
func NewListingHandler(service listingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Open godoc
// @Summary Load the enrollment collection into a new listing
// @Tags Listings
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /listings [post]
func (h *ListingHandler) Open(c *gin.Context) {
	listing, err := h.service.Open(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, c.FullPath()+"/"+listing.ID, listing, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Current listing results, without reading the store
// @Tags Listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, true)
	response.JSON(c, http.StatusOK, listing, middleware.ExtractMeta(c))
}

// Search godoc
// @Summary Re-run the filter against the live store
// @Tags Listings
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param payload body models.EnrollmentQuery false "Filter"
// @Success 200 {object} response.Envelope
// @Router /listings/{id}/search [post]
func (h *ListingHandler) Search(c *gin.Context) {
	var query models.EnrollmentQuery
	if err := c.ShouldBindJSON(&query); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter"))
		return
	}
	listing, err := h.service.Search(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing, middleware.ExtractMeta(c))
}

// Reload godoc
// @Summary Reload the collection and reapply the current filter
// @Tags Listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Envelope
// @Router /listings/{id}/reload [post]
func (h *ListingHandler) Reload(c *gin.Context) {
	listing, err := h.service.Reload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing, middleware.ExtractMeta(c))
}

// Clear godoc
// @Summary Drop the filter and show the loaded collection
// @Tags Listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Envelope
// @Router /listings/{id}/clear [post]
func (h *ListingHandler) Clear(c *gin.Context) {
	listing, err := h.service.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing, middleware.ExtractMeta(c))
}

// Close godoc
// @Summary Discard a listing
// @Tags Listings
// @Param id path string true "Listing ID"
// @Success 204
// @Router /listings/{id} [delete]
func (h *ListingHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
