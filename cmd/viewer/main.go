package main

import (
	"flag"

	"yolodesk/internal/config"
	"yolodesk/internal/logging"
	ui "yolodesk/internal/ui"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the JSON config file")
	flag.Parse()

	cfg := config.LoadConfigFile(*configPath)
	logging.Setup(cfg.Log.Path, cfg.Log.Level)

	app := ui.CreateViewerApp(cfg, *configPath)

	app.Run()
}
