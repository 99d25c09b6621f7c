package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings get defaults.
	settings := new(Config)

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultDecisionTimeout, settings.DecisionTimeout)
	require.Equal(t, DefaultRevertDelay, settings.RevertDelay)
	require.Equal(t, DefaultClockInterval, settings.ClockInterval)
	require.Equal(t, SourceSynthetic, settings.Camera.Source)
	require.Equal(t, DefaultPollInterval, settings.Camera.PollInterval)
	require.Equal(t, DefaultFrameWidth, settings.Camera.Width)

	// Unknown source.
	settings = &Config{Camera: Camera{Source: "webcam"}}
	require.Error(t, Validate(settings))

	// Images without a path.
	settings = &Config{Camera: Camera{Source: SourceImages}}
	require.Error(t, Validate(settings))

	// Negative dimensions.
	settings = &Config{Camera: Camera{Width: -1, Height: 10}}
	require.Error(t, Validate(settings))

	// Bad log level.
	settings = &Config{LogLevel: "loud"}
	require.Error(t, Validate(settings))

	require.Error(t, Validate(nil))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		DecisionTimeout: 5 * time.Second,
		RevertDelay:     2 * time.Second,
		Camera: Camera{
			Source: SourceImages,
			Path:   dir,
			Width:  32,
			Height: 18,
		},
		LogLevel: "debug",
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.DecisionTimeout, loaded.DecisionTimeout)
	require.Equal(t, settings.RevertDelay, loaded.RevertDelay)
	require.Equal(t, settings.Camera, loaded.Camera)
	require.Equal(t, "debug", loaded.LogLevel)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_PartialFileKeepsDefaults verifies omitted keys fall back to defaults.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decision_timeout: 45s\n"), DefaultFilePermissions))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, loaded.DecisionTimeout)
	require.Equal(t, DefaultRevertDelay, loaded.RevertDelay)
	require.True(t, loaded.SingleInstance)
}

// TestLoad_MissingExplicitFile asserts an explicit path must exist.
func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestSave_NilConfig asserts nil settings are rejected.
func TestSave_NilConfig(t *testing.T) {
	t.Parallel()

	require.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))
}
