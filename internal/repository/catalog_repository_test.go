package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSchedulesByWorkshop(t *testing.T) {
	catalog := NewCatalogRepository()

	piscina := catalog.SchedulesByWorkshop("1")
	require.Len(t, piscina, 4)
	assert.Equal(t, []string{"1", "2", "3", "4"}, []string{piscina[0].ID, piscina[1].ID, piscina[2].ID, piscina[3].ID})
	assert.False(t, piscina[3].Selectable())

	assert.Len(t, catalog.SchedulesByWorkshop("2"), 2)
	assert.Empty(t, catalog.SchedulesByWorkshop("5"))
	assert.NotNil(t, catalog.SchedulesByWorkshop("99"))
}

func TestCatalogReturnsCopies(t *testing.T) {
	catalog := NewCatalogRepository()
	workshops := catalog.Workshops()
	workshops[0].Name = "CHANGED"

	w, ok := catalog.FindWorkshop("1")
	require.True(t, ok)
	assert.Equal(t, "PISCINA", w.Name)
	assert.Equal(t, float64(350), w.Cost)
}

func TestCatalogLookups(t *testing.T) {
	catalog := NewCatalogRepository()

	s, ok := catalog.FindSchedule("1")
	require.True(t, ok)
	assert.Equal(t, "L-M-M - Turno 1", s.Label())

	_, ok = catalog.FindEnrollmentType("TALLER")
	assert.True(t, ok)
	_, ok = catalog.FindEnrollmentType("all")
	assert.False(t, ok)
	assert.Len(t, catalog.EnrollmentTypes(), 3)
}
