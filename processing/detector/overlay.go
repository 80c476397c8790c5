package processing

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"yolodesk/internal/imaging"
	"yolodesk/internal/models"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	boxColor   = color.RGBA{0, 255, 0, 255}
	labelColor = color.RGBA{0, 0, 0, 255}
)

// Overlay returns a copy of img with a box and a "label confidence" tag drawn
// for every detection.
func Overlay(img image.Image, detections []models.DetectionResult) *image.RGBA {
	dst := imaging.ToRGBA(img)
	bounds := dst.Bounds()

	for _, det := range detections {
		b, ok := det.Pixels(bounds.Dx(), bounds.Dy())
		if !ok {
			continue
		}

		drawRect(dst, b.Y1, b.X1, b.Y2, b.X2, boxColor)
		drawLabel(dst, b.X1, b.Y1, fmt.Sprintf("%s %.2f", det.Label, det.Confidence))
	}

	return dst
}

func drawRect(img *image.RGBA, y1, x1, y2, x2 int, col color.Color) {
	thickness := 3
	bounds := img.Bounds()

	setPixel := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.Set(x, y, col)
		}
	}

	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(x, y1+t)
			setPixel(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			setPixel(x1+t, y)
			setPixel(x2-t, y)
		}
	}
}

// drawLabel puts text on a filled tag sitting on top of the box corner, or
// just inside it when the box touches the top edge.
func drawLabel(img *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(labelColor), Face: face}

	width := d.MeasureString(text).Ceil() + 4
	height := face.Height + 2

	top := y - height
	if top < img.Bounds().Min.Y {
		top = y
	}
	tag := image.Rect(x, top, x+width, top+height).Intersect(img.Bounds())
	draw.Draw(img, tag, image.NewUniform(boxColor), image.Point{}, draw.Src)

	d.Dot = fixed.P(x+2, top+face.Ascent+1)
	d.DrawString(text)
}
