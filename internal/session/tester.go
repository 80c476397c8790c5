package session

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"yolodesk/internal/imaging"
	"yolodesk/internal/runs"
	processing "yolodesk/processing/detector"
)

type TesterState int

const (
	TesterIdle TesterState = iota
	TesterModelSelected
	TesterImageSelected
	TesterResultDisplayed
)

func (s TesterState) String() string {
	switch s {
	case TesterModelSelected:
		return "model-selected"
	case TesterImageSelected:
		return "image-selected"
	case TesterResultDisplayed:
		return "result-displayed"
	default:
		return "idle"
	}
}

type TesterView interface {
	SetModelOptions(paths []string)
	ShowInfo(title, message string)
	ShowWarning(title, message string)
	ShowError(title, message string)
	SetImage(img image.Image)
	SetInfo(text string)
}

// Engine loads detection models. *processing.RemoteDetector implements it.
type Engine interface {
	Load(ctx context.Context, path string) (processing.Model, error)
}

type Tester struct {
	view    TesterView
	engine  Engine
	baseDir string
	timeout time.Duration

	imageWidth  int
	imageHeight int

	model     processing.Model
	imagePath string
	shown     bool
}

func NewTester(view TesterView, engine Engine, baseDir string, imageWidth, imageHeight int, timeout time.Duration) *Tester {
	return &Tester{
		view:        view,
		engine:      engine,
		baseDir:     baseDir,
		timeout:     timeout,
		imageWidth:  imageWidth,
		imageHeight: imageHeight,
	}
}

func (t *Tester) State() TesterState {
	switch {
	case t.shown:
		return TesterResultDisplayed
	case t.imagePath != "":
		return TesterImageSelected
	case t.model != nil:
		return TesterModelSelected
	default:
		return TesterIdle
	}
}

func (t *Tester) Model() processing.Model { return t.model }
func (t *Tester) ImagePath() string       { return t.imagePath }

// Refresh repopulates the model dropdown with the weights of completed runs.
func (t *Tester) Refresh() []string {
	paths := runs.ModelPaths(t.baseDir)
	t.view.SetModelOptions(paths)
	return paths
}

func (t *Tester) newContext() (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), t.timeout)
}

// SelectModel replaces the loaded model. A failed load leaves no model
// selected.
func (t *Tester) SelectModel(path string) {
	if path == "" {
		return
	}

	ctx, cancel := t.newContext()
	defer cancel()

	t.shown = false
	m, err := t.engine.Load(ctx, path)
	if err != nil {
		t.model = nil
		slog.Warn("load model failed", "model", path, "err", err)
		t.view.ShowError("Error", fmt.Sprintf("Failed to load model:\n%v", err))
		return
	}

	t.model = m
	t.view.ShowInfo("Model Loaded", "Loaded model: "+filepath.Base(path))
}

func (t *Tester) SelectImage(path string) {
	if path == "" {
		return
	}

	t.imagePath = path
	t.shown = false
	t.view.SetInfo("Selected Image: " + filepath.Base(path))
}

// RunDetection detects objects on the selected image with the loaded model
// and shows the overlaid result with a short summary.
func (t *Tester) RunDetection() {
	if t.model == nil {
		t.view.ShowWarning("Model Missing", "Please select a YOLO model first.")
		return
	}
	if t.imagePath == "" {
		t.view.ShowWarning("Image Missing", "Please upload an image first.")
		return
	}

	img, err := imaging.Load(t.imagePath)
	if err != nil {
		t.view.ShowError("Error", err.Error())
		return
	}

	ctx, cancel := t.newContext()
	defer cancel()

	start := time.Now()
	detections, err := t.model.Detect(ctx, img)
	if err != nil {
		slog.Warn("detection failed", "model", t.model.Path(), "image", t.imagePath, "err", err)
		t.view.ShowError("Error", fmt.Sprintf("Detection failed:\n%v", err))
		return
	}
	slog.Info("detection done",
		"model", t.model.Path(),
		"image", t.imagePath,
		"objects", len(detections),
		"latency_ms", time.Since(start).Milliseconds())

	overlaid := processing.Overlay(img, detections)
	t.view.SetImage(imaging.Fit(overlaid, t.imageWidth, t.imageHeight))

	info, err := processing.Summarize(detections)
	if err != nil {
		info = fmt.Sprintf("Detection error: %v", err)
	}
	t.view.SetInfo(info)
	t.shown = true
}
