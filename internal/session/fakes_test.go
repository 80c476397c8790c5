package session

import (
	"context"
	"errors"
	"image"

	"yolodesk/internal/models"
	processing "yolodesk/processing/detector"
)

type dialog struct {
	kind, title, message string
}

type fakeViewerView struct {
	options  []string
	selected string
	shown    []*RunDisplay
	dialogs  []dialog
}

func (f *fakeViewerView) SetRunOptions(names []string, selected string) {
	f.options = names
	f.selected = selected
}

func (f *fakeViewerView) ShowRun(d *RunDisplay) { f.shown = append(f.shown, d) }

func (f *fakeViewerView) ShowError(title, message string) {
	f.dialogs = append(f.dialogs, dialog{"error", title, message})
}

type fakeTesterView struct {
	options []string
	dialogs []dialog
	images  []image.Image
	info    string
}

func (f *fakeTesterView) SetModelOptions(paths []string) { f.options = paths }

func (f *fakeTesterView) ShowInfo(title, message string) {
	f.dialogs = append(f.dialogs, dialog{"info", title, message})
}

func (f *fakeTesterView) ShowWarning(title, message string) {
	f.dialogs = append(f.dialogs, dialog{"warning", title, message})
}

func (f *fakeTesterView) ShowError(title, message string) {
	f.dialogs = append(f.dialogs, dialog{"error", title, message})
}

func (f *fakeTesterView) SetImage(img image.Image) { f.images = append(f.images, img) }
func (f *fakeTesterView) SetInfo(text string)      { f.info = text }

type fakeModel struct {
	path       string
	detections []models.DetectionResult
	err        error
	calls      int
}

func (m *fakeModel) Path() string { return m.path }

func (m *fakeModel) Detect(ctx context.Context, img image.Image) ([]models.DetectionResult, error) {
	m.calls++
	return m.detections, m.err
}

type fakeEngine struct {
	model *fakeModel
	err   error
	loads []string
}

func (e *fakeEngine) Load(ctx context.Context, path string) (processing.Model, error) {
	e.loads = append(e.loads, path)
	if e.err != nil {
		return nil, e.err
	}
	e.model.path = path
	return e.model, nil
}

var errBoom = errors.New("boom")
