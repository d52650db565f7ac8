package charts

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder returns a flat image with a centered caption, used while a chart
// is loading, after a failure, or when there is nothing to draw.
func Placeholder(w, h int, caption string) image.Image {
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 320
	}
	img := blank(w, h)
	if strings.TrimSpace(caption) == "" {
		return img
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 200, G: 200, B: 200, A: 255}), Face: face}
	tw := dr.MeasureString(caption).Ceil()
	x := (w - tw) / 2
	if x < 8 {
		x = 8
	}
	y := h/2 + face.Metrics().Ascent.Ceil()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(caption)
	return img
}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255}), image.Point{}, draw.Src)
	return img
}

// drawHint darkens a strip along the bottom of img and centers text on it.
// Text wider than the image is cut and ends in "...".
func drawHint(img image.Image, text string) image.Image {
	text = strings.TrimSpace(text)
	if img == nil || text == "" {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	strip := image.Rect(b.Min.X, b.Max.Y-face.Metrics().Height.Ceil()-8, b.Max.X, b.Max.Y)
	draw.Draw(out, strip, image.NewUniform(color.RGBA{A: 190}), image.Point{}, draw.Over)

	dr := &font.Drawer{Dst: out, Src: image.NewUniform(color.RGBA{R: 235, G: 235, B: 235, A: 255}), Face: face}
	maxW := fixed.I(b.Dx() - 16)
	if dr.MeasureString(text) > maxW {
		r := []rune(text)
		for len(r) > 0 && dr.MeasureString(string(r)+"...") > maxW {
			r = r[:len(r)-1]
		}
		text = string(r) + "..."
	}
	x := b.Min.X + (b.Dx()-dr.MeasureString(text).Ceil())/2
	dr.Dot = fixed.P(x, b.Max.Y-6)
	dr.DrawString(text)
	return out
}
