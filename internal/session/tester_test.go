package session

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yolodesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "street.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, f.Close())
	return path
}

func newTester(view *fakeTesterView, engine *fakeEngine) *Tester {
	return NewTester(view, engine, "runs/train", 640, 480, time.Second)
}

func TestRunDetectionWithoutModel(t *testing.T) {
	view := &fakeTesterView{}
	tr := newTester(view, &fakeEngine{model: &fakeModel{}})
	tr.SelectImage(writePNG(t, 10, 10))
	info := view.info

	assert.NotPanics(t, tr.RunDetection)

	require.Len(t, view.dialogs, 1)
	assert.Equal(t, dialog{"warning", "Model Missing", "Please select a YOLO model first."}, view.dialogs[0])
	assert.Empty(t, view.images)
	assert.Equal(t, info, view.info)
	assert.Equal(t, TesterImageSelected, tr.State())
}

func TestRunDetectionWithoutImage(t *testing.T) {
	view := &fakeTesterView{}
	engine := &fakeEngine{model: &fakeModel{}}
	tr := newTester(view, engine)
	tr.SelectModel("runs/train/exp/weights/best.pt")

	tr.RunDetection()

	require.Len(t, view.dialogs, 2)
	assert.Equal(t, dialog{"warning", "Image Missing", "Please upload an image first."}, view.dialogs[1])
	assert.Zero(t, engine.model.calls)
	assert.Equal(t, TesterModelSelected, tr.State())
}

func TestSelectModel(t *testing.T) {
	view := &fakeTesterView{}
	tr := newTester(view, &fakeEngine{model: &fakeModel{}})

	tr.SelectModel("runs/train/exp/weights/best.pt")

	require.Len(t, view.dialogs, 1)
	assert.Equal(t, dialog{"info", "Model Loaded", "Loaded model: best.pt"}, view.dialogs[0])
	assert.Equal(t, "runs/train/exp/weights/best.pt", tr.Model().Path())
}

func TestSelectModelFailureClearsModel(t *testing.T) {
	view := &fakeTesterView{}
	engine := &fakeEngine{model: &fakeModel{}}
	tr := newTester(view, engine)
	tr.SelectModel("a/best.pt")
	require.NotNil(t, tr.Model())

	engine.err = errBoom
	tr.SelectModel("b/best.pt")

	assert.Nil(t, tr.Model())
	assert.Equal(t, dialog{"error", "Error", "Failed to load model:\nboom"}, view.dialogs[1])
	assert.Equal(t, TesterIdle, tr.State())
}

func TestRunDetection(t *testing.T) {
	view := &fakeTesterView{}
	engine := &fakeEngine{model: &fakeModel{detections: []models.DetectionResult{
		{Label: "car", Confidence: 0.9, Box: []float32{0.1, 0.1, 0.4, 0.4}},
		{Label: "person", Confidence: 0.7, Box: []float32{0.5, 0.5, 0.9, 0.9}},
	}}}
	tr := newTester(view, engine)
	tr.SelectModel("runs/train/exp/weights/best.pt")

	img := writePNG(t, 1280, 960)
	tr.SelectImage(img)
	assert.Equal(t, "Selected Image: street.png", view.info)

	tr.RunDetection()

	require.Len(t, view.images, 1)
	assert.Equal(t, image.Rect(0, 0, 640, 480), view.images[0].Bounds())
	assert.Equal(t, "Detected: 2 object(s)\nClasses: {car, person}\nAvg Confidence: 0.80", view.info)
	assert.Equal(t, TesterResultDisplayed, tr.State())
}

func TestRunDetectionNoObjects(t *testing.T) {
	view := &fakeTesterView{}
	tr := newTester(view, &fakeEngine{model: &fakeModel{}})
	tr.SelectModel("a/best.pt")
	tr.SelectImage(writePNG(t, 20, 20))

	tr.RunDetection()

	assert.Equal(t, "No objects detected.", view.info)
	require.Len(t, view.images, 1)
}

func TestRunDetectionSummaryError(t *testing.T) {
	view := &fakeTesterView{}
	tr := newTester(view, &fakeEngine{model: &fakeModel{detections: []models.DetectionResult{
		{Label: "car", Confidence: 3},
	}}})
	tr.SelectModel("a/best.pt")
	tr.SelectImage(writePNG(t, 20, 20))

	tr.RunDetection()

	assert.Contains(t, view.info, "Detection error: ")
}

func TestRunDetectionEngineError(t *testing.T) {
	view := &fakeTesterView{}
	tr := newTester(view, &fakeEngine{model: &fakeModel{err: errBoom}})
	tr.SelectModel("a/best.pt")
	tr.SelectImage(writePNG(t, 20, 20))
	info := view.info

	tr.RunDetection()

	assert.Empty(t, view.images)
	assert.Equal(t, info, view.info)
	assert.Equal(t, "error", view.dialogs[len(view.dialogs)-1].kind)
	assert.Equal(t, TesterImageSelected, tr.State())
}

func TestTesterRefresh(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "exp", "weights"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "exp", "weights", "best.pt"), []byte("pt"), 0o644))

	view := &fakeTesterView{}
	tr := NewTester(view, &fakeEngine{model: &fakeModel{}}, base, 640, 480, 0)

	paths := tr.Refresh()

	assert.Equal(t, []string{filepath.Join(base, "exp", "weights", "best.pt")}, paths)
	assert.Equal(t, paths, view.options)
}
