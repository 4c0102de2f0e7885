package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/poliza-api/config"
	"github.com/contaflow/poliza-api/internal/domain/model"
	"github.com/contaflow/poliza-api/internal/testutil"
)

type stubSurface struct{}

func (stubSurface) Open(string) error { return nil }

func (stubSurface) Close() error { return nil }

func (stubSurface) CreateEntry(time.Time, string, string) (int, error) {
	return 1, nil
}

func (stubSurface) AddMovement(int, string, float64, float64, string, string) error {
	return nil
}

func exportConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := &config.AppConfig{}
	cfg.Sanitize()
	cfg.Backend.DataPath = "/data/empresa"
	cfg.Export.Dir = t.TempDir()
	return cfg
}

func TestNewServices_ExportMode(t *testing.T) {
	cfg := exportConfig(t)

	services, err := NewServices(&ServiceDeps{Config: cfg, Logger: testutil.SilentLogger()})
	require.NoError(t, err)
	require.NotNil(t, services.Jobs)
	require.NotNil(t, services.Worker)

	health := services.Jobs.Health()
	assert.Contains(t, health.AvailableOutputModes, model.OutputModeJSON)
	assert.Contains(t, health.AvailableOutputModes, model.OutputModeXLSX)
	assert.NotContains(t, health.AvailableOutputModes, model.OutputModeReal)
}

func TestNewServices_RealModeRequiresSurface(t *testing.T) {
	cfg := exportConfig(t)
	cfg.Backend.OutputMode = model.OutputModeReal

	_, err := NewServices(&ServiceDeps{Config: cfg, Logger: testutil.SilentLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call surface")
}

func TestNewServices_RealModeRequiresDataPath(t *testing.T) {
	cfg := exportConfig(t)
	cfg.Backend.OutputMode = model.OutputModeReal
	cfg.Backend.DataPath = ""

	_, err := NewServices(&ServiceDeps{Config: cfg, CallSurface: stubSurface{}, Logger: testutil.SilentLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_DATA_PATH")
}

func TestNewServices_NilConfig(t *testing.T) {
	_, err := NewServices(nil)
	assert.Error(t, err)
}
