package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contaflow/poliza-api/internal/backend"
)

func TestClassify_Nil(t *testing.T) {
	assert.Empty(t, Classify(nil))
}

func TestClassify_BackendFailureUsesCode(t *testing.T) {
	f := &backend.Failure{Code: backend.CodeNotInitialized, Message: "m"}
	assert.Equal(t, "not_initialized", Classify(f))
}

func TestClassify_UnwrapsToInnermost(t *testing.T) {
	inner := &backend.Failure{Code: backend.CodeIOError, Message: "disk"}
	wrapped := fmt.Errorf("finalize: %w", inner)
	assert.Equal(t, "io_error", Classify(wrapped))
}

func TestClassify_PlainErrorFallsBackToTypeName(t *testing.T) {
	assert.Equal(t, "errors_errorstring", Classify(goerrors.New("plain")))
}
