package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

type DiscoveryPolicy string

const (
	PolicyCompleted DiscoveryPolicy = "completed"
	PolicyAll       DiscoveryPolicy = "all"

	DefaultConfigPath      string  = "config.json"
	DefaultRunsDir         string  = "runs/train"
	DefaultDetectorAddress string  = "localhost:8080"
	DefaultConfidence      float64 = 0.25
)

var PoliciesList = [...]string{
	string(PolicyCompleted),
	string(PolicyAll),
}

type DetectorConfig struct {
	Address        string  `json:"address"`
	Confidence     float64 `json:"confidence"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

type DisplayConfig struct {
	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`
}

type TrainConfig struct {
	Executable string `json:"executable"`
	Model      string `json:"model"`
	Data       string `json:"data"`
	Epochs     int    `json:"epochs"`
	Batch      int    `json:"batch"`
	ImageSize  int    `json:"imgsz"`
	RunName    string `json:"run_name"`
	Project    string `json:"project"`
}

type LogConfig struct {
	Path  string `json:"path"`
	Level string `json:"level"`
}

type Config struct {
	mu sync.RWMutex

	RunsDir         string          `json:"runs_dir"`
	DiscoveryPolicy DiscoveryPolicy `json:"discovery_policy"`
	WatchRuns       bool            `json:"watch_runs"`

	Detector DetectorConfig `json:"detector"`
	Viewer   DisplayConfig  `json:"viewer"`
	Tester   DisplayConfig  `json:"tester"`
	Train    TrainConfig    `json:"train"`
	Log      LogConfig      `json:"log"`
}

func (c *Config) GetDetectorAddress() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Detector.Address
}

func (c *Config) SetDetectorAddress(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Detector.Address = addr
}

func (c *Config) GetPolicy() DiscoveryPolicy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.DiscoveryPolicy != PolicyAll {
		return PolicyCompleted
	}
	return c.DiscoveryPolicy
}

func (c *Config) SetPolicy(p DiscoveryPolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DiscoveryPolicy = p
}

// DetectorTimeout falls back to a minute when the file leaves it unset.
func (c *Config) DetectorTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Detector.TimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.Detector.TimeoutSeconds) * time.Second
}

func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// LoadConfigFile never fails: a missing or unreadable file yields the defaults.
func LoadConfigFile(path string) *Config {
	var cfg *Config = NewDefaultConfig()

	if _, err := os.Stat(path); err == nil {
		f, err := os.Open(path)
		if err != nil {
			return cfg
		}
		defer f.Close()

		dec := json.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return NewDefaultConfig()
		}
	}

	return cfg
}

func NewDefaultConfig() *Config {
	return &Config{
		RunsDir:         DefaultRunsDir,
		DiscoveryPolicy: PolicyCompleted,
		WatchRuns:       true,
		Detector: DetectorConfig{
			Address:        DefaultDetectorAddress,
			Confidence:     DefaultConfidence,
			TimeoutSeconds: 60,
		},
		Viewer: DisplayConfig{ImageWidth: 500, ImageHeight: 400},
		Tester: DisplayConfig{ImageWidth: 640, ImageHeight: 480},
		Train: TrainConfig{
			Executable: "yolo",
			Model:      "yolov8s.pt",
			Data:       "dataset/dataset.yaml",
			Epochs:     50,
			Batch:      16,
			ImageSize:  640,
			RunName:    "yolov8_model",
			Project:    DefaultRunsDir,
		},
		Log: LogConfig{Path: "logs/app.log", Level: "info"},
	}
}
