// Package session holds the screen controllers of the viewer and the tester.
// Controllers own all selection state and reach the screen only through a
// view interface, so every handler runs without a display.
package session

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"slices"

	"yolodesk/internal/metrics"
	"yolodesk/internal/runs"
)

type ViewerState int

const (
	ViewerIdle ViewerState = iota
	ViewerRunSelected
)

func (s ViewerState) String() string {
	if s == ViewerRunSelected {
		return "run-selected"
	}
	return "idle"
}

// RunDisplay is everything the viewer shows for one run. A nil Image means
// the run has no summary plot.
type RunDisplay struct {
	Name    string
	Dir     string
	Table   *metrics.Table
	Image   image.Image
	Summary string
}

type ViewerView interface {
	SetRunOptions(names []string, selected string)
	ShowRun(d *RunDisplay)
	ShowError(title, message string)
}

type Viewer struct {
	view    ViewerView
	baseDir string
	policy  runs.Policy

	imageWidth  int
	imageHeight int

	state   ViewerState
	current *RunDisplay
}

func NewViewer(view ViewerView, baseDir string, policy runs.Policy, imageWidth, imageHeight int) *Viewer {
	return &Viewer{
		view:        view,
		baseDir:     baseDir,
		policy:      policy,
		imageWidth:  imageWidth,
		imageHeight: imageHeight,
	}
}

func (v *Viewer) State() ViewerState   { return v.state }
func (v *Viewer) Policy() runs.Policy  { return v.policy }
func (v *Viewer) Current() *RunDisplay { return v.current }

// SetPolicy changes which directories count as runs from the next Refresh on.
func (v *Viewer) SetPolicy(p runs.Policy) {
	v.policy = p
}

// Start fills the dropdown and opens the latest run, if any.
func (v *Viewer) Start() {
	v.Refresh()

	latest, ok := runs.Latest(v.baseDir, v.policy)
	if !ok {
		slog.Info("no training runs found", "dir", v.baseDir, "policy", v.policy)
		return
	}
	v.LoadRun(latest.Path)
}

// Refresh repopulates the run dropdown. The displayed run stays selected while
// it still exists; otherwise the latest run is preselected.
func (v *Viewer) Refresh() []string {
	list, err := runs.List(v.baseDir, v.policy)
	if err != nil {
		slog.Warn("list runs failed", "dir", v.baseDir, "err", err)
	}
	names := runs.Names(list)

	selected := ""
	if v.current != nil && slices.Contains(names, v.current.Name) {
		selected = v.current.Name
	} else if latest, ok := runs.Latest(v.baseDir, v.policy); ok {
		selected = latest.Name
	}

	v.view.SetRunOptions(names, selected)
	return names
}

func (v *Viewer) Select(name string) {
	if name == "" {
		return
	}
	v.LoadRun(filepath.Join(v.baseDir, name))
}

// LoadRun reads a run's artifacts and shows them. On failure an error dialog
// is shown and the displayed run is left as it was.
func (v *Viewer) LoadRun(dir string) error {
	d, err := v.read(dir)
	if err != nil {
		slog.Warn("load run failed", "dir", dir, "err", err)
		v.view.ShowError("Error", err.Error())
		return err
	}

	v.current = d
	v.state = ViewerRunSelected
	v.view.ShowRun(d)
	return nil
}

func (v *Viewer) read(dir string) (*RunDisplay, error) {
	table, err := metrics.LoadTable(dir)
	if err != nil {
		return nil, err
	}

	classSummary, err := metrics.LoadValSummary(dir)
	if err != nil {
		return nil, fmt.Errorf("read class-wise summary: %w", err)
	}

	img, err := metrics.LoadSummaryImage(dir, v.imageWidth, v.imageHeight)
	if err != nil {
		return nil, err
	}

	return &RunDisplay{
		Name:    filepath.Base(dir),
		Dir:     dir,
		Table:   table,
		Image:   img,
		Summary: metrics.FinalSummary(table) + "\n" + classSummary,
	}, nil
}
