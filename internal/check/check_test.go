package check

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/config"
)

func TestRunNonInteractive(t *testing.T) {
	t.Run("missing config fails with suggestion", func(t *testing.T) {
		c := NewCheckerWithPath(filepath.Join(t.TempDir(), "resumeforge.yaml"))
		result := c.RunNonInteractive()

		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Configuration not found")
		assert.NotEmpty(t, result.Suggestions)
	})

	t.Run("valid config passes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resumeforge.yaml")
		require.NoError(t, config.CreateDefault(path))

		c := NewCheckerWithPath(path)
		result := c.RunNonInteractive()

		assert.True(t, result.Success)
		assert.Empty(t, result.Errors)
	})

	t.Run("invalid config fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resumeforge.yaml")
		cfg := config.Default()
		cfg.Export.Scale = -1
		require.NoError(t, config.Write(path, cfg))

		c := NewCheckerWithPath(path)
		result := c.RunNonInteractive()

		assert.False(t, result.Success)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "Invalid")
	})
}

func TestValidateConfigYaml(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		c := NewCheckerWithPath(filepath.Join(t.TempDir(), "nope.yaml"))
		result := c.validateConfigYaml()
		assert.False(t, result.Valid)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resumeforge.yaml")
		require.NoError(t, config.CreateDefault(path))

		c := NewCheckerWithPath(path)
		result := c.validateConfigYaml()
		assert.True(t, result.Valid)
		assert.Nil(t, result.Error)
	})
}

func TestValidateTemplates(t *testing.T) {
	c := NewCheckerWithPath(filepath.Join(t.TempDir(), "resumeforge.yaml"))
	result := c.validateTemplates(config.Default())

	assert.True(t, result.Valid)
	assert.GreaterOrEqual(t, result.TemplateCount, 2)
}
