package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", Wrap(errors.New("disk full"), ErrStorageUnavailable.Code, ErrStorageUnavailable.Status, "enrollment could not be saved"))

	assert.True(t, errors.Is(wrapped, ErrStorageUnavailable))
	assert.False(t, errors.Is(wrapped, ErrInternal))

	appErr := FromError(wrapped)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	assert.Equal(t, "enrollment could not be saved: disk full", appErr.Error())
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, ErrInternal.Message, appErr.Message)
	assert.Nil(t, FromError(nil))
}

func TestDetailsAreCopiedNotShared(t *testing.T) {
	withDetails := ErrValidation.WithDetails(map[string]string{"student.dni": "required"})
	require.NotSame(t, ErrValidation, withDetails)
	assert.Nil(t, ErrValidation.Details)
	assert.Equal(t, "required", withDetails.Details["student.dni"])

	clone := Clone(withDetails, "otro mensaje")
	assert.Nil(t, clone.Details)
	assert.Equal(t, "otro mensaje", clone.Message)
}
