package models

// DetectionResult is one object reported by the detector server.
// Box is [y1, x1, y2, x2] normalized to the image size.
type DetectionResult struct {
	Label      string    `json:"label"`
	Confidence float32   `json:"confidence"`
	Box        []float32 `json:"box"`
}

type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Pixels converts the normalized box to pixel coordinates for a w x h image.
// ok is false when the box does not have four components.
func (d DetectionResult) Pixels(w, h int) (b Box, ok bool) {
	if len(d.Box) != 4 {
		return Box{}, false
	}
	fw, fh := float32(w), float32(h)
	return Box{
		Y1: int(d.Box[0] * fh),
		X1: int(d.Box[1] * fw),
		Y2: int(d.Box[2] * fh),
		X2: int(d.Box[3] * fw),
	}, true
}
