package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"yolodesk/internal/metrics"
	"yolodesk/internal/runs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeViewerRun(t *testing.T, base, name, csv string, mtime time.Time) string {
	t.Helper()

	dir := filepath.Join(base, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "weights"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weights", "best.pt"), []byte("pt"), 0o644))
	if csv != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "results.csv"), []byte(csv), 0o644))
	}
	require.NoError(t, os.Chtimes(dir, mtime, mtime))
	return dir
}

func TestViewerStartLoadsLatest(t *testing.T) {
	base := t.TempDir()
	now := time.Now()
	makeViewerRun(t, base, "exp1", "epoch,metrics/mAP50\n1,0.5\n", now.Add(-time.Hour))
	makeViewerRun(t, base, "exp2", "epoch,metrics/mAP50\n1,0.6\n2,0.823\n", now)

	view := &fakeViewerView{}
	v := NewViewer(view, base, runs.PolicyCompleted, 500, 400)
	v.Start()

	assert.Equal(t, []string{"exp1", "exp2"}, view.options)
	assert.Equal(t, "exp2", view.selected)
	require.Len(t, view.shown, 1)

	d := view.shown[0]
	assert.Equal(t, "exp2", d.Name)
	assert.Nil(t, d.Image)
	assert.Contains(t, d.Summary, "mAP@0.5: 0.823")
	assert.Contains(t, d.Summary, metrics.NoValSummary)
	assert.Equal(t, ViewerRunSelected, v.State())
}

func TestViewerStartEmpty(t *testing.T) {
	view := &fakeViewerView{}
	v := NewViewer(view, filepath.Join(t.TempDir(), "runs"), runs.PolicyCompleted, 500, 400)

	v.Start()

	assert.Empty(t, view.options)
	assert.Empty(t, view.shown)
	assert.Empty(t, view.dialogs)
	assert.Equal(t, ViewerIdle, v.State())
}

func TestViewerMissingResultsKeepsDisplay(t *testing.T) {
	base := t.TempDir()
	now := time.Now()
	makeViewerRun(t, base, "good", "epoch,metrics/mAP50\n1,0.5\n", now.Add(-time.Hour))
	makeViewerRun(t, base, "broken", "", now.Add(-2*time.Hour))

	view := &fakeViewerView{}
	v := NewViewer(view, base, runs.PolicyCompleted, 500, 400)
	v.Start()
	require.Len(t, view.shown, 1)

	v.Select("broken")

	require.Len(t, view.dialogs, 1)
	assert.Equal(t, "error", view.dialogs[0].kind)
	assert.Equal(t, "results.csv not found in the training output directory", view.dialogs[0].message)
	assert.Len(t, view.shown, 1)
	assert.Equal(t, "good", v.Current().Name)
}

func TestViewerRefreshKeepsCurrentSelection(t *testing.T) {
	base := t.TempDir()
	now := time.Now()
	makeViewerRun(t, base, "a", "epoch\n1\n", now.Add(-time.Hour))

	view := &fakeViewerView{}
	v := NewViewer(view, base, runs.PolicyCompleted, 500, 400)
	v.Start()

	makeViewerRun(t, base, "b", "epoch\n1\n", now)
	names := v.Refresh()

	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, "a", view.selected)
}

func TestViewerClassSummary(t *testing.T) {
	base := t.TempDir()
	dir := makeViewerRun(t, base, "exp", "epoch,metrics/mAP50\n1,0.5\n", time.Now())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "val_summary.txt"), []byte("car 0.91"), 0o644))

	view := &fakeViewerView{}
	v := NewViewer(view, base, runs.PolicyCompleted, 500, 400)

	require.NoError(t, v.LoadRun(dir))
	assert.Contains(t, view.shown[0].Summary, "\ncar 0.91")
}
