package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileMissing(t *testing.T) {
	cfg := LoadConfigFile(filepath.Join(t.TempDir(), "none.json"))

	assert.Equal(t, DefaultRunsDir, cfg.RunsDir)
	assert.Equal(t, DefaultConfidence, cfg.Detector.Confidence)
	assert.Equal(t, 640, cfg.Tester.ImageWidth)
	assert.Equal(t, PolicyCompleted, cfg.GetPolicy())
}

func TestLoadConfigFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"runs_dir": "out/train", "detector": {"address": "gpu-box:9000"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg := LoadConfigFile(path)

	assert.Equal(t, "out/train", cfg.RunsDir)
	assert.Equal(t, "gpu-box:9000", cfg.GetDetectorAddress())
	assert.Equal(t, 50, cfg.Train.Epochs)
	assert.Equal(t, "yolov8_model", cfg.Train.RunName)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"runs_dir": `), 0644))

	cfg := LoadConfigFile(path)

	assert.Equal(t, DefaultRunsDir, cfg.RunsDir)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := NewDefaultConfig()
	cfg.SetDetectorAddress("10.0.0.2:8080")
	cfg.SetPolicy(PolicyAll)

	require.NoError(t, cfg.Save(path))

	loaded := LoadConfigFile(path)
	assert.Equal(t, "10.0.0.2:8080", loaded.GetDetectorAddress())
	assert.Equal(t, PolicyAll, loaded.GetPolicy())
}

func TestDetectorTimeoutFallback(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Detector.TimeoutSeconds = 0

	assert.Equal(t, time.Minute, cfg.DetectorTimeout())
}
