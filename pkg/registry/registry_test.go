package registry

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "wealth-planner/internal/common/errors"
	gfp "wealth-planner/internal/workers/planning/generate-financial-plan"
	sfr "wealth-planner/internal/workers/planning/search-financial-resources"
	vfp "wealth-planner/internal/workers/planning/validate-financial-profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanning_CoversEveryWorker(t *testing.T) {
	reg := Planning()

	for _, taskType := range []string{vfp.TaskType, sfr.TaskType, gfp.TaskType} {
		_, ok := reg.Lookup(taskType)
		assert.True(t, ok, taskType)
	}
	assert.Len(t, reg.Activities, 3)

	_, ok := reg.Lookup("auth-signin-google")
	assert.False(t, ok)
}

func TestPlanning_CodesMatchCategories(t *testing.T) {
	for _, a := range Planning().Activities {
		for _, code := range a.ErrorCodes {
			assert.Equal(t, apperrors.CategoryBlocking, apperrors.GetErrorCategory(apperrors.ErrorCode(code)), "%s %s", a.TaskType, code)
		}
		for _, code := range a.DegradedCodes {
			assert.Equal(t, apperrors.CategoryDegraded, apperrors.GetErrorCategory(apperrors.ErrorCode(code)), "%s %s", a.TaskType, code)
		}
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "2.0.0",
		"activities": [{"id": "A", "taskType": "validate-financial-profile", "errorCodes": ["INVALID_PROFILE"]}]
	}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", reg.Version)
	a, ok := reg.Lookup("validate-financial-profile")
	require.True(t, ok)
	assert.Equal(t, []string{"INVALID_PROFILE"}, a.ErrorCodes)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadRegistry(path)
	assert.ErrorContains(t, err, "parse registry")
}
