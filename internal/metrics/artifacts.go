package metrics

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"yolodesk/internal/imaging"
)

const NoValSummary = "⚠️ No class-wise evaluation summary found."

// LoadSummaryImage decodes <runDir>/results.png scaled to fit maxW x maxH.
// A missing plot returns a nil image and no error.
func LoadSummaryImage(runDir string, maxW, maxH int) (image.Image, error) {
	f, err := os.Open(filepath.Join(runDir, "results.png"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode results.png: %w", err)
	}

	return imaging.Fit(img, maxW, maxH), nil
}

// LoadValSummary returns the class-wise evaluation text, or NoValSummary when
// the run has none.
func LoadValSummary(runDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(runDir, "val_summary.txt"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NoValSummary, nil
		}
		return "", err
	}
	return string(data), nil
}
