package ui

import (
	"image"
	"slices"

	"yolodesk/internal/config"
	"yolodesk/internal/session"
	"yolodesk/internal/ui/cwidget"
	processing "yolodesk/processing/detector"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png"}

type TesterApp struct {
	window

	detector   *processing.RemoteDetector
	controller *session.Tester

	modelSelect  *widget.Select
	resultCanvas *canvas.Image
	infoLabel    *widget.Label
	hostInput    *cwidget.Input[string]
}

func CreateTesterApp(det *processing.RemoteDetector, cfg *config.Config, configPath string) *TesterApp {
	return newTesterApp(app.New(), det, cfg, configPath)
}

func newTesterApp(a fyne.App, det *processing.RemoteDetector, cfg *config.Config, configPath string) *TesterApp {
	t := &TesterApp{
		window:   newWindow(a, "YOLOv8 Model Selector & Image Tester", fyne.NewSize(720, 700), cfg, configPath),
		detector: det,
	}
	t.controller = session.NewTester(t, det, cfg.RunsDir,
		cfg.Tester.ImageWidth, cfg.Tester.ImageHeight, cfg.DetectorTimeout())
	t.build()
	return t
}

func (t *TesterApp) build() {
	t.modelSelect = widget.NewSelect(nil, t.controller.SelectModel)
	t.modelSelect.PlaceHolder = "Select a model"

	t.hostInput = cwidget.NewHostInput("Detector", "localhost:8080", t.config.GetDetectorAddress(), func(addr string) {
		t.config.SetDetectorAddress(addr)
		t.detector.SetAddress(addr)
	})

	uploadBtn := widget.NewButtonWithIcon("Upload Image", theme.FolderOpenIcon(), t.browseImage)
	runBtn := widget.NewButtonWithIcon("Run Detection", theme.MediaPlayIcon(), t.controller.RunDetection)
	runBtn.Importance = widget.HighImportance

	t.resultCanvas = canvas.NewImageFromImage(nil)
	t.resultCanvas.FillMode = canvas.ImageFillContain
	t.resultCanvas.SetMinSize(fyne.NewSize(float32(t.config.Tester.ImageWidth), float32(t.config.Tester.ImageHeight)))

	t.infoLabel = widget.NewLabel("")

	t.content = container.NewVBox(
		widget.NewLabelWithStyle("Select a trained YOLOv8 model:", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		t.modelSelect,
		t.hostInput,
		container.NewCenter(container.NewHBox(uploadBtn, runBtn)),
		t.resultCanvas,
		t.infoLabel,
	)
}

func (t *TesterApp) Run() {
	t.controller.Refresh()
	t.watchRuns(func() { t.controller.Refresh() })
	t.show(container.NewPadded(t.content))
}

func (t *TesterApp) browseImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			t.ShowError("Error", err.Error())
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		t.controller.SelectImage(reader.URI().Path())
	}, t.mainWin)

	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	fd.Show()
}

// SetModelOptions keeps the current choice when it is still listed. The
// selection is assigned directly so that no model load is triggered.
func (t *TesterApp) SetModelOptions(paths []string) {
	t.modelSelect.Options = paths
	if !slices.Contains(paths, t.modelSelect.Selected) {
		t.modelSelect.Selected = ""
	}
	t.modelSelect.Refresh()
}

func (t *TesterApp) SetImage(img image.Image) {
	t.resultCanvas.Image = img
	t.resultCanvas.Refresh()
}

func (t *TesterApp) SetInfo(text string) {
	t.infoLabel.SetText(text)
}
