package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/eva/internal/model"
)

// LabelMode controls what text is drawn on each annotated element.
type LabelMode int

const (
	// LabelIDs draws "[id]" element IDs.
	LabelIDs LabelMode = iota
	// LabelCoords draws "(x,y)" center coordinates.
	LabelCoords
)

// markerSize is the box drawn around elements without bounds.
const markerSize = 24

var (
	clickableColor = color.RGBA{R: 255, G: 0, B: 0, A: 200}
	textBoxColor   = color.RGBA{R: 0, G: 120, B: 255, A: 200}
	labelColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor   = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Annotate draws a box and label for every element. Element coordinates
// must be in the image's pixel space.
func Annotate(img image.Image, elements []model.ScreenElement, mode LabelMode) *image.RGBA {
	rgba := ToRGBA(img)
	for _, el := range elements {
		x1, y1, x2, y2 := el.BBox[0], el.BBox[1], el.BBox[2], el.BBox[3]
		if x2 <= x1 || y2 <= y1 {
			x1, y1 = el.X-markerSize/2, el.Y-markerSize/2
			x2, y2 = x1+markerSize, y1+markerSize
		}
		c := clickableColor
		if el.Type == model.ElementText {
			c = textBoxColor
		}
		drawRectangle(rgba, x1, y1, x2, y2, c)

		label := fmt.Sprintf("[%d]", el.ID)
		if mode == LabelCoords {
			label = fmt.Sprintf("(%d,%d)", el.X, el.Y)
		}
		drawTextWithOutline(rgba, label, el.X, el.Y)
	}
	return rgba
}

// ToRGBA converts any image to RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		out := image.NewRGBA(rgba.Bounds())
		copy(out.Pix, rgba.Pix)
		return out
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawTextWithOutline centers text on (x, y) in basicfont.Face7x13.
func drawTextWithOutline(img *image.RGBA, text string, x, y int) {
	offsetX := x - len(text)*7/2
	offsetY := y + 13/2

	stamp := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(offsetX+dx, offsetY+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				stamp(dx, dy, outlineColor)
			}
		}
	}
	stamp(0, 0, labelColor)
}
