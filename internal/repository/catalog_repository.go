package repository

import "github.com/noah-isme/talleres-api/internal/models"

var defaultWorkshops = []models.Workshop{
	{ID: "1", Name: "PISCINA", Cost: 350},
	{ID: "2", Name: "FÚTBOL", Cost: 250},
	{ID: "3", Name: "BÁSQUET", Cost: 200},
	{ID: "4", Name: "VÓLEY", Cost: 200},
	{ID: "5", Name: "AJEDREZ", Cost: 150},
}

var defaultSchedules = []models.Schedule{
	{ID: "1", Pattern: "L-M-M", Shift: 1, Available: 23, WorkshopID: "1"},
	{ID: "2", Pattern: "S-D", Shift: 1, Available: 22, WorkshopID: "1"},
	{ID: "3", Pattern: "L-M-M", Shift: 2, Available: 11, WorkshopID: "1"},
	{ID: "4", Pattern: "S-D", Shift: 2, Available: 0, WorkshopID: "1"},
	{ID: "5", Pattern: "L-M-V", Shift: 1, Available: 15, WorkshopID: "2"},
	{ID: "6", Pattern: "M-J-S", Shift: 2, Available: 20, WorkshopID: "2"},
}

var defaultEnrollmentTypes = []models.EnrollmentType{
	{ID: models.EnrollmentTypeTaller, Name: "Taller"},
	{ID: models.EnrollmentTypeRegular, Name: "Regular"},
	{ID: models.EnrollmentTypeVacacional, Name: "Vacacional"},
}

// CatalogRepository serves the static reference tables. They are compiled in and never change
// at runtime; every accessor hands out copies.
type CatalogRepository struct {
	workshops []models.Workshop
	schedules []models.Schedule
	types     []models.EnrollmentType
}

// NewCatalogRepository returns the built-in catalog.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{workshops: defaultWorkshops, schedules: defaultSchedules, types: defaultEnrollmentTypes}
}

// Workshops lists every workshop in table order.
func (r *CatalogRepository) Workshops() []models.Workshop {
	return append([]models.Workshop(nil), r.workshops...)
}

// EnrollmentTypes lists the enrollment type codes.
func (r *CatalogRepository) EnrollmentTypes() []models.EnrollmentType {
	return append([]models.EnrollmentType(nil), r.types...)
}

// SchedulesByWorkshop returns the slots owned by workshopID in table order.
func (r *CatalogRepository) SchedulesByWorkshop(workshopID string) []models.Schedule {
	out := make([]models.Schedule, 0)
	for _, s := range r.schedules {
		if s.WorkshopID == workshopID {
			out = append(out, s)
		}
	}
	return out
}

// FindWorkshop looks a workshop up by id.
func (r *CatalogRepository) FindWorkshop(id string) (models.Workshop, bool) {
	for _, w := range r.workshops {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workshop{}, false
}

// FindSchedule looks a schedule up by id.
func (r *CatalogRepository) FindSchedule(id string) (models.Schedule, bool) {
	for _, s := range r.schedules {
		if s.ID == id {
			return s, true
		}
	}
	return models.Schedule{}, false
}

// FindEnrollmentType looks an enrollment type up by id.
func (r *CatalogRepository) FindEnrollmentType(id string) (models.EnrollmentType, bool) {
	for _, t := range r.types {
		if t.ID == id {
			return t, true
		}
	}
	return models.EnrollmentType{}, false
}
