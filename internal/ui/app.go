package ui

import (
	"context"
	"errors"
	"log/slog"

	"yolodesk/internal/config"
	"yolodesk/internal/runs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// window is the part shared by the viewer and tester apps: the main window,
// its dialogs, the run watcher and saving the config on close.
type window struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config     *config.Config
	configPath string

	content   fyne.CanvasObject
	stopWatch context.CancelFunc
}

func newWindow(a fyne.App, title string, size fyne.Size, cfg *config.Config, configPath string) window {
	w := a.NewWindow(title)
	w.Resize(size)

	return window{
		fyneApp:    a,
		mainWin:    w,
		config:     cfg,
		configPath: configPath,
	}
}

func (w *window) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, w.mainWin)
}

func (w *window) ShowWarning(title, message string) {
	dialog.ShowInformation(title, message, w.mainWin)
}

func (w *window) ShowError(title, message string) {
	slog.Debug("error dialog", "title", title, "message", message)
	dialog.ShowError(errors.New(message), w.mainWin)
}

// watchRuns keeps a dropdown in sync with the runs directory. refresh runs on
// the UI goroutine.
func (w *window) watchRuns(refresh func()) {
	if !w.config.WatchRuns {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := runs.Watch(ctx, w.config.RunsDir, func() { fyne.Do(refresh) }); err != nil {
		cancel()
		slog.Warn("not watching runs directory", "dir", w.config.RunsDir, "err", err)
		return
	}
	w.stopWatch = cancel
}

func (w *window) show(content fyne.CanvasObject) {
	w.mainWin.SetContent(content)

	w.mainWin.SetCloseIntercept(func() {
		if w.stopWatch != nil {
			w.stopWatch()
		}
		if err := w.config.Save(w.configPath); err != nil {
			slog.Warn("save config failed", "path", w.configPath, "err", err)
		}
		w.mainWin.Close()
	})

	w.mainWin.CenterOnScreen()
	w.mainWin.ShowAndRun()
}
