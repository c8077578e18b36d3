package handler

import "github.com/gin-gonic/gin"

// Handlers groups everything mounted under the API prefix.
type Handlers struct {
	Enrollments   *EnrollmentHandler
	Catalog       *CatalogHandler
	Students      *StudentHandler
	Confirmations *ConfirmationHandler
	Listings      *ListingHandler
	Exports       *ExportHandler
}

// Register mounts the API routes on group. A nil Exports handler leaves the export routes unmounted.
func Register(group *gin.RouterGroup, h Handlers) {
	group.GET("/workshops", h.Catalog.Workshops)
	group.GET("/workshops/:id/schedules", h.Catalog.Schedules)
	group.GET("/enrollment-types", h.Catalog.EnrollmentTypes)

	group.GET("/students/:dni", h.Students.Lookup)

	enrollments := group.Group("/enrollments")
	enrollments.POST("", h.Enrollments.Create)
	enrollments.GET("", h.Enrollments.Search)
	enrollments.GET("/:id", h.Enrollments.Get)
	enrollments.GET("/:id/confirmation", h.Confirmations.Describe)
	enrollments.GET("/:id/qr.png", h.Confirmations.QRCode)
	enrollments.GET("/:id/confirmation.pdf", h.Confirmations.Document)
	enrollments.GET("/:id/share", h.Confirmations.Share)

	listings := group.Group("/listings")
	listings.POST("", h.Listings.Open)
	listings.GET("/:id", h.Listings.Get)
	listings.DELETE("/:id", h.Listings.Close)
	listings.POST("/:id/search", h.Listings.Search)
	listings.POST("/:id/reload", h.Listings.Reload)
	listings.POST("/:id/clear", h.Listings.Clear)

	if h.Exports != nil {
		exports := group.Group("/exports")
		exports.POST("", h.Exports.Create)
		exports.GET("/download/:token", h.Exports.Download)
		exports.GET("/:id", h.Exports.Status)
	}
}
