// Package runs discovers training run directories written by the detection
// framework under a common base directory.
package runs

import (
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Policy selects which subdirectories of the base directory count as runs.
type Policy string

const (
	// PolicyCompleted keeps only runs that produced a trained weights file.
	PolicyCompleted Policy = "completed"
	// PolicyAll keeps every subdirectory, including runs still in progress.
	PolicyAll Policy = "all"
)

// Artifact names inside a run directory.
const (
	WeightsFile    = "weights/best.pt"
	ResultsFile    = "results.csv"
	ResultsImage   = "results.png"
	ValSummaryFile = "val_summary.txt"
)

type Run struct {
	Name       string
	Path       string
	ModTime    time.Time
	HasWeights bool
}

func (r Run) WeightsPath() string {
	return filepath.Join(r.Path, filepath.FromSlash(WeightsFile))
}

// List returns the runs under base sorted by name. A missing base directory
// is not an error and yields no runs.
func List(base string, policy Policy) ([]Run, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []Run
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		r := Run{
			Name:    e.Name(),
			Path:    filepath.Join(base, e.Name()),
			ModTime: info.ModTime(),
		}
		if st, err := os.Stat(r.WeightsPath()); err == nil && !st.IsDir() {
			r.HasWeights = true
		}

		if policy != PolicyAll && !r.HasWeights {
			continue
		}
		runs = append(runs, r)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Name < runs[j].Name })
	return runs, nil
}

// Latest picks the run with the greatest modification time among those List
// returns for the same policy.
func Latest(base string, policy Policy) (Run, bool) {
	runs, err := List(base, policy)
	if err != nil || len(runs) == 0 {
		return Run{}, false
	}

	latest := runs[0]
	for _, r := range runs[1:] {
		if r.ModTime.After(latest.ModTime) {
			latest = r
		}
	}
	return latest, true
}

// ModelPaths lists the weights files of all completed runs, sorted.
func ModelPaths(base string) []string {
	runs, err := List(base, PolicyCompleted)
	if err != nil {
		return nil
	}

	paths := make([]string, 0, len(runs))
	for _, r := range runs {
		paths = append(paths, r.WeightsPath())
	}
	sort.Strings(paths)
	return paths
}

func Names(runs []Run) []string {
	names := make([]string, 0, len(runs))
	for _, r := range runs {
		names = append(names, r.Name)
	}
	return names
}
