package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"yolodesk/internal/config"
	"yolodesk/internal/logging"
	"yolodesk/internal/metrics"
	processing "yolodesk/processing/detector"
	"yolodesk/processing/trainer"
)

func main() {
	defaults := config.NewDefaultConfig().Train

	var (
		configPath = flag.String("config", config.DefaultConfigPath, "Path to the JSON config file")
		model      = flag.String("model", defaults.Model, "Pre-trained base model")
		data       = flag.String("data", defaults.Data, "Dataset descriptor")
		epochs     = flag.Int("epochs", defaults.Epochs, "Number of training epochs")
		batch      = flag.Int("batch", defaults.Batch, "Batch size (-1 for auto)")
		imgsz      = flag.Int("imgsz", defaults.ImageSize, "Input image resolution")
		name       = flag.String("name", defaults.RunName, "Run folder name inside the project directory")
		project    = flag.String("project", defaults.Project, "Directory runs are written to")
		exe        = flag.String("exe", defaults.Executable, "Training command of the detection framework")
	)
	flag.Parse()

	cfg := config.LoadConfigFile(*configPath)
	logger := logging.Setup(cfg.Log.Path, cfg.Log.Level)

	// Flags given on the command line win over the config file.
	params := trainer.ParamsFromConfig(cfg.Train)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			params.Model = *model
		case "data":
			params.Data = *data
		case "epochs":
			params.Epochs = *epochs
		case "batch":
			params.Batch = *batch
		case "imgsz":
			params.ImageSize = *imgsz
		case "name":
			params.RunName = *name
		case "project":
			params.Project = *project
		case "exe":
			params.Executable = *exe
		}
	})

	if err := run(params, logger); err != nil {
		logger.Error("training failed", "err", err)
		os.Exit(1)
	}
}

func run(p trainer.Params, logger *slog.Logger) error {
	ds, err := trainer.LoadDataset(p.Data)
	if err != nil {
		return err
	}
	logger.Info("dataset", "path", p.Data, "classes", len(ds.Names), "names", ds.Names)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	device := processing.SelectDevice()
	if err := trainer.NewRunner(p, device, logger).Run(ctx); err != nil {
		return err
	}

	result, err := trainer.ResultRun(p)
	if err != nil {
		return err
	}
	logger.Info("training complete", "run", result.Path, "weights", result.WeightsPath())

	table, err := metrics.LoadTable(result.Path)
	if err != nil {
		if errors.Is(err, metrics.ErrResultsNotFound) {
			logger.Warn("no results log to summarize", "run", result.Path)
			return nil
		}
		return err
	}
	fmt.Print(metrics.FinalSummary(table))
	return nil
}
