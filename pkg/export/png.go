package export

import (
	"image"
	"image/color"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/slicer"
)

// PNGOptions controls rasterization.
type PNGOptions struct {
	// WidthPx is the output image width; height follows the bounds
	// aspect ratio.
	WidthPx int
}

// DefaultPNGOptions renders 800 pixels wide.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{WidthPx: 800}
}

// RenderPNG rasterizes one slice into an image: filled shells with
// even-odd holes, over a white background, y flipped so model +y is
// up.
func RenderPNG(s slicer.Slice, bounds geom.BBox2D, opts PNGOptions) (*image.RGBA, error) {
	if opts.WidthPx <= 0 {
		return nil, errors.Errorf("png width %d must be positive", opts.WidthPx)
	}
	spanX := bounds.Max.X - bounds.Min.X
	spanY := bounds.Max.Y - bounds.Min.Y
	if spanX <= 0 || spanY <= 0 {
		return nil, errors.Errorf("png bounds %+v are empty", bounds)
	}

	scale := float64(opts.WidthPx) / float64(spanX)
	heightPx := int(float64(spanY) * scale)
	if heightPx < 1 {
		heightPx = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.WidthPx, heightPx))
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillColor(color.White)
	gc.Clear()

	gc.SetFillRule(draw2d.FillRuleEvenOdd)
	gc.SetFillColor(color.RGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff})
	gc.SetStrokeColor(color.Black)
	gc.SetLineWidth(1)

	tx := func(v geom.Vec2) (float64, float64) {
		x := float64(v.X-bounds.Min.X) * scale
		y := float64(bounds.Max.Y-v.Y) * scale
		return x, y
	}

	for _, polygon := range s.Polygons {
		gc.BeginPath()
		tracePath(gc, polygon.Vertices, tx)
		for _, hole := range polygon.Holes {
			tracePath(gc, hole.Vertices, tx)
		}
		gc.FillStroke()
	}
	return img, nil
}

// SavePNG rasterizes and writes one slice.
func SavePNG(path string, s slicer.Slice, bounds geom.BBox2D, opts PNGOptions) error {
	img, err := RenderPNG(s, bounds, opts)
	if err != nil {
		return err
	}
	if err := draw2dimg.SaveToPngFile(path, img); err != nil {
		return errors.Wrap(err, "save png")
	}
	return nil
}

func tracePath(gc *draw2dimg.GraphicContext, vertices []geom.Vec2, tx func(geom.Vec2) (float64, float64)) {
	for i, v := range vertices {
		x, y := tx(v)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	gc.Close()
}
