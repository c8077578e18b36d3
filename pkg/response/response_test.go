package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestCreatedSetsLocation(t *testing.T) {
	c, w := newContext()
	Created(c, "/api/v1/enrollments/abc", gin.H{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/v1/enrollments/abc", w.Header().Get("Location"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"data":{"id":"abc"}}`, w.Body.String())
}

func TestErrorHidesInternalCause(t *testing.T) {
	c, w := newContext()
	Error(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, c.IsAborted())
	require.Len(t, c.Errors, 1)

	var env struct {
		Error map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, appErrors.ErrInternal.Code, env.Error["code"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename=matricula_12345678.pdf`, ContentDisposition("matricula_12345678.pdf"))
	assert.Equal(t, `attachment; filename*=utf-8''matr%C3%ADcula.pdf`, ContentDisposition("matrícula.pdf"))
}
