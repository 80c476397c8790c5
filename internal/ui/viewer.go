package ui

import (
	"yolodesk/internal/config"
	"yolodesk/internal/runs"
	"yolodesk/internal/session"
	"yolodesk/internal/ui/cwidget"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const noSummaryImage = "No summary image found"

type ViewerApp struct {
	window

	controller *session.Viewer

	runSelect    *widget.Select
	summaryImage *canvas.Image
	imageLabel   *widget.Label
	table        *cwidget.MetricsTable
	summaryText  *widget.TextGrid
}

func CreateViewerApp(cfg *config.Config, configPath string) *ViewerApp {
	return newViewerApp(app.New(), cfg, configPath)
}

func newViewerApp(a fyne.App, cfg *config.Config, configPath string) *ViewerApp {
	v := &ViewerApp{
		window: newWindow(a, "YOLOv8 Training Results Viewer", fyne.NewSize(820, 750), cfg, configPath),
	}
	v.controller = session.NewViewer(v, cfg.RunsDir, runs.Policy(cfg.GetPolicy()),
		cfg.Viewer.ImageWidth, cfg.Viewer.ImageHeight)
	v.build()
	return v
}

func (v *ViewerApp) build() {
	v.runSelect = widget.NewSelect(nil, v.controller.Select)
	v.runSelect.PlaceHolder = "Select a training run"

	refreshBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		v.controller.Refresh()
	})

	policySelect := widget.NewSelect(config.PoliciesList[:], func(s string) {
		v.config.SetPolicy(config.DiscoveryPolicy(s))
		v.controller.SetPolicy(runs.Policy(s))
		v.controller.Refresh()
	})
	policySelect.Selected = string(v.config.GetPolicy())

	v.summaryImage = canvas.NewImageFromImage(nil)
	v.summaryImage.FillMode = canvas.ImageFillContain
	v.summaryImage.SetMinSize(fyne.NewSize(float32(v.config.Viewer.ImageWidth), float32(v.config.Viewer.ImageHeight)))
	v.summaryImage.Hide()

	v.imageLabel = widget.NewLabelWithStyle(noSummaryImage, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	v.table = cwidget.NewMetricsTable()
	v.summaryText = widget.NewTextGrid()

	header := container.NewBorder(nil, nil, policySelect, refreshBtn, v.runSelect)
	imagePanel := container.NewStack(v.imageLabel, v.summaryImage)

	split := container.NewVSplit(v.table, container.NewScroll(v.summaryText))
	split.SetOffset(0.45)

	v.content = container.NewBorder(
		container.NewVBox(container.NewPadded(header), container.NewCenter(imagePanel)),
		nil, nil, nil,
		split,
	)
}

func (v *ViewerApp) Run() {
	v.controller.Start()
	v.watchRuns(func() { v.controller.Refresh() })
	v.show(v.content)
}

// SetRunOptions assigns the selection directly so that it does not fire a
// run load.
func (v *ViewerApp) SetRunOptions(names []string, selected string) {
	v.runSelect.Options = names
	v.runSelect.Selected = selected
	v.runSelect.Refresh()
}

func (v *ViewerApp) ShowRun(d *session.RunDisplay) {
	if d.Image != nil {
		v.summaryImage.Image = d.Image
		v.summaryImage.Show()
		v.summaryImage.Refresh()
		v.imageLabel.Hide()
	} else {
		v.summaryImage.Image = nil
		v.summaryImage.Hide()
		v.imageLabel.SetText(noSummaryImage)
		v.imageLabel.Show()
	}

	v.table.SetTable(d.Table)
	v.summaryText.SetText(d.Summary)

	if v.runSelect.Selected != d.Name {
		v.runSelect.Selected = d.Name
		v.runSelect.Refresh()
	}
	v.mainWin.SetTitle("YOLOv8 Training Results Viewer - " + d.Name)
}
