package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/poliza-api/internal/backend"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, ErrCodeUnavailable, "write artifact")

	assert.Equal(t, "write artifact: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsUnavailable(err))
}

func TestWrap_NilCause(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("total", "total does not match")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "total", GetField(err))
	assert.Equal(t, ErrCodeValidation, GetCode(err))
}

func TestGetCode_NonAppError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Empty(t, GetField(errors.New("plain")))
}

func TestFromBackend_CodeMapping(t *testing.T) {
	tests := []struct {
		name string
		code backend.Code
		want ErrorCode
	}{
		{"invalid input", backend.CodeInvalidInput, ErrCodeValidation},
		{"entry not found", backend.CodeEntryNotFound, ErrCodeNotFound},
		{"not initializable", backend.CodeNotInitializable, ErrCodeUnavailable},
		{"not initialized", backend.CodeNotInitialized, ErrCodeUnavailable},
		{"io error", backend.CodeIOError, ErrCodeUnavailable},
		{"backend unavailable", backend.CodeUnavailable, ErrCodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure := &backend.Failure{Code: tt.code, Message: "m"}
			err := FromBackend(failure)
			assert.Equal(t, tt.want, err.Code)
			assert.ErrorIs(t, err, failure)
		})
	}
}

func TestFromBackend_Nil(t *testing.T) {
	require.Nil(t, FromBackend(nil))
}
