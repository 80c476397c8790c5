package metrics

import (
	"fmt"
	"strings"
)

// Each metric is looked up under its short name first, then under the name
// the framework writes for detection runs.
var (
	colMAP50    = []string{"metrics/mAP50", "metrics/mAP50(B)"}
	colMAP50_95 = []string{"metrics/mAP50-95", "metrics/mAP50-95(B)"}
	colBoxLoss  = []string{"box_loss", "train/box_loss"}
	colClsLoss  = []string{"cls_loss", "train/cls_loss"}
	colDFLLoss  = []string{"dfl_loss", "train/dfl_loss"}
)

type FinalMetrics struct {
	MAP50    float64
	MAP50_95 float64
	BoxLoss  float64
	ClsLoss  float64
	DFLLoss  float64
}

func lookup(r Row, names []string) (float64, error) {
	for _, n := range names {
		v, ok, err := r.Float(n)
		if err != nil {
			return 0, err
		}
		if ok {
			return v, nil
		}
	}
	return 0, nil
}

// Final extracts the final-epoch metrics. Absent columns read as zero.
func Final(t *Table) (FinalMetrics, error) {
	last, err := t.Last()
	if err != nil {
		return FinalMetrics{}, err
	}

	var m FinalMetrics
	fields := []struct {
		dst   *float64
		names []string
	}{
		{&m.MAP50, colMAP50},
		{&m.MAP50_95, colMAP50_95},
		{&m.BoxLoss, colBoxLoss},
		{&m.ClsLoss, colClsLoss},
		{&m.DFLLoss, colDFLLoss},
	}
	for _, f := range fields {
		if *f.dst, err = lookup(last, f.names); err != nil {
			return FinalMetrics{}, err
		}
	}

	return m, nil
}

// FinalSummary renders the final-epoch report. It never fails; extraction
// errors come back as the report text.
func FinalSummary(t *Table) string {
	m, err := Final(t)
	if err != nil {
		return fmt.Sprintf("Error reading final results: %v", err)
	}

	var b strings.Builder
	b.WriteString("Final Evaluation Summary:\n")
	fmt.Fprintf(&b, "mAP@0.5: %.3f\n", m.MAP50)
	fmt.Fprintf(&b, "mAP@0.5:0.95: %.3f\n", m.MAP50_95)
	fmt.Fprintf(&b, "Box Loss: %.3f | Class Loss: %.3f | DFL Loss: %.3f\n", m.BoxLoss, m.ClsLoss, m.DFLLoss)
	return b.String()
}
