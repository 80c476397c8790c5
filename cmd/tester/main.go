package main

import (
	"flag"
	"log/slog"

	"yolodesk/internal/config"
	"yolodesk/internal/logging"
	ui "yolodesk/internal/ui"
	processing "yolodesk/processing/detector"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the JSON config file")
	flag.Parse()

	cfg := config.LoadConfigFile(*configPath)
	logging.Setup(cfg.Log.Path, cfg.Log.Level)

	device := processing.SelectDevice()
	slog.Info("using device", "device", device, "detector", cfg.GetDetectorAddress())

	det := processing.NewRemoteDetector(cfg.GetDetectorAddress(), device, cfg.Detector.Confidence)
	defer det.Close()

	app := ui.CreateTesterApp(det, cfg, *configPath)

	app.Run()
}
