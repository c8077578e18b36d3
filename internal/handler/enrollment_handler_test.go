package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/models"
	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
)

type enrollmentServiceMock struct {
	enrolled  *models.Enrollment
	enrollErr error
	lastReq   dto.EnrollRequest
	results   []models.Enrollment
	lastQuery models.EnrollmentQuery
	searchErr error
	getResult *models.Enrollment
	getErr    error
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, req dto.EnrollRequest) (*models.Enrollment, error) {
	m.lastReq = req
	return m.enrolled, m.enrollErr
}

func (m *enrollmentServiceMock) Search(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, error) {
	m.lastQuery = query
	return m.results, m.searchErr
}

func (m *enrollmentServiceMock) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	return m.getResult, m.getErr
}

func TestEnrollmentHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{enrolled: &models.Enrollment{ID: "enr-1", EnrollmentTypeID: "TALLER"}}
	h := NewEnrollmentHandler(mockSvc)

	payload, _ := json.Marshal(dto.EnrollRequest{
		EnrollmentTypeID: "TALLER",
		Student:          dto.StudentInput{DNI: "12345678", Nombre: "GARCÍA", ApellidoPaterno: "PÉREZ"},
		WorkshopID:       "1",
		ScheduleID:       "1",
	})
	c, w := newGinContext(http.MethodPost, "/enrollments", payload)

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "12345678", mockSvc.lastReq.Student.DNI)

	var created models.Enrollment
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	assert.Equal(t, "enr-1", created.ID)
}

func TestEnrollmentHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(&enrollmentServiceMock{})

	c, w := newGinContext(http.MethodPost, "/enrollments", []byte("{"))
	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerCreateMapsServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]struct {
		err    error
		status int
	}{
		"validation":  {appErrors.Clone(appErrors.ErrValidation, "Complete todos los campos obligatorios"), http.StatusBadRequest},
		"full":        {appErrors.Clone(appErrors.ErrScheduleUnavailable, ""), http.StatusUnprocessableEntity},
		"persistence": {appErrors.Clone(appErrors.ErrStorageUnavailable, ""), http.StatusServiceUnavailable},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := NewEnrollmentHandler(&enrollmentServiceMock{enrollErr: tc.err})
			c, w := newGinContext(http.MethodPost, "/enrollments", []byte(`{}`))
			h.Create(c)
			require.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, decodeEnvelope(t, w).Error["code"])
		})
	}
}

func TestEnrollmentHandlerSearch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{results: []models.Enrollment{{ID: "a"}, {ID: "b"}}}
	h := NewEnrollmentHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/enrollments?dni=123&nombreCompleto=ana&idTipoMatricula=all", nil)
	h.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EnrollmentQuery{DNI: "123", FullName: "ana", EnrollmentTypeID: "all"}, mockSvc.lastQuery)
	assert.Equal(t, float64(2), decodeEnvelope(t, w).Meta["total"])
}

func TestEnrollmentHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(&enrollmentServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")})

	c, w := newGinContext(http.MethodGet, "/enrollments/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
