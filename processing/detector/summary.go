package processing

import (
	"fmt"
	"sort"
	"strings"

	"yolodesk/internal/models"
)

const NoObjects = "No objects detected."

// Summarize reports the object count, the distinct classes and the mean
// confidence of a detection result.
func Summarize(detections []models.DetectionResult) (string, error) {
	if len(detections) == 0 {
		return NoObjects, nil
	}

	seen := make(map[string]struct{})
	var total float64
	for i, d := range detections {
		if d.Label == "" {
			return "", fmt.Errorf("detection %d has no class label", i)
		}
		if d.Confidence < 0 || d.Confidence > 1 {
			return "", fmt.Errorf("detection %d confidence %v out of range", i, d.Confidence)
		}
		seen[d.Label] = struct{}{}
		total += float64(d.Confidence)
	}

	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	avg := total / float64(len(detections))
	return fmt.Sprintf("Detected: %d object(s)\nClasses: {%s}\nAvg Confidence: %.2f",
		len(detections), strings.Join(classes, ", "), avg), nil
}
