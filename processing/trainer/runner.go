// Package trainer launches the detection framework's training command and
// follows its output.
package trainer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"yolodesk/internal/config"
	"yolodesk/internal/runs"
	processing "yolodesk/processing/detector"
)

type Params struct {
	Executable string
	Model      string
	Data       string
	Epochs     int
	Batch      int
	ImageSize  int
	RunName    string
	Project    string
}

func ParamsFromConfig(c config.TrainConfig) Params {
	return Params{
		Executable: c.Executable,
		Model:      c.Model,
		Data:       c.Data,
		Epochs:     c.Epochs,
		Batch:      c.Batch,
		ImageSize:  c.ImageSize,
		RunName:    c.RunName,
		Project:    c.Project,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Executable == "":
		return errors.New("training executable is required")
	case p.Model == "":
		return errors.New("base model is required")
	case p.Epochs <= 0:
		return fmt.Errorf("epochs must be positive, got %d", p.Epochs)
	case p.Batch == 0 || p.Batch < -1:
		return fmt.Errorf("batch must be positive or -1, got %d", p.Batch)
	case p.ImageSize <= 0:
		return fmt.Errorf("image size must be positive, got %d", p.ImageSize)
	case p.RunName == "":
		return errors.New("run name is required")
	}
	return nil
}

// Args is the argument list for the training CLI.
func Args(p Params, device processing.Device) []string {
	return []string{
		"detect", "train",
		"data=" + p.Data,
		"model=" + p.Model,
		"epochs=" + strconv.Itoa(p.Epochs),
		"imgsz=" + strconv.Itoa(p.ImageSize),
		"batch=" + strconv.Itoa(p.Batch),
		"name=" + p.RunName,
		"project=" + p.Project,
		"pretrained=True",
		"device=" + device.TrainArg(),
	}
}

type Runner struct {
	params Params
	device processing.Device
	logger *slog.Logger

	cmd *exec.Cmd
}

func NewRunner(p Params, device processing.Device, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{params: p, device: device, logger: logger}
}

// Run starts training and blocks until the process exits. Cancelling ctx
// kills the process.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.params.Validate(); err != nil {
		return err
	}

	args := Args(r.params, r.device)
	r.cmd = exec.CommandContext(ctx, r.params.Executable, args...)

	stdout, err := r.cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := r.cmd.StderrPipe()
	if err != nil {
		return err
	}

	r.logger.Info("starting training",
		"model", r.params.Model,
		"epochs", r.params.Epochs,
		"batch", r.params.Batch,
		"imgsz", r.params.ImageSize,
		"device", r.device,
		"cmd", r.params.Executable+" "+strings.Join(args, " "))

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", r.params.Executable, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go r.follow(&wg, stdout, "stdout")
	go r.follow(&wg, stderr, "stderr")
	wg.Wait()

	if err := r.cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("training cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("training failed: %w", err)
	}
	return nil
}

func (r *Runner) follow(wg *sync.WaitGroup, rd io.Reader, stream string) {
	defer wg.Done()

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(scanProgressLines)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		r.logger.Info(line, "stream", stream)
	}
	if err := sc.Err(); err != nil {
		r.logger.Warn("output stream closed", "stream", stream, "err", err)
	}
}

// scanProgressLines splits on '\n' and on the bare '\r' progress bars use to
// redraw in place.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ResultRun finds the run the last training wrote. The framework appends a
// counter to the run name when the directory already exists, so the newest
// run whose name starts with RunName wins.
func ResultRun(p Params) (runs.Run, error) {
	all, err := runs.List(p.Project, runs.PolicyAll)
	if err != nil {
		return runs.Run{}, err
	}

	var found *runs.Run
	for i, r := range all {
		if !strings.HasPrefix(r.Name, p.RunName) {
			continue
		}
		if found == nil || r.ModTime.After(found.ModTime) {
			found = &all[i]
		}
	}

	if found == nil {
		return runs.Run{}, fmt.Errorf("no run named %q under %s", p.RunName, p.Project)
	}
	if !found.HasWeights {
		return *found, fmt.Errorf("run %s has no %s", found.Path, runs.WeightsFile)
	}
	return *found, nil
}
