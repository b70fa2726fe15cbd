// Package export renders slices for downstream consumers: SVG and PNG
// for eyeballs, DXF for CAM tools, GeoJSON for anything that speaks
// geo tooling.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/slicer"
)

// SVGOptions controls page layout. Scale multiplies model units into
// SVG user units.
type SVGOptions struct {
	Scale float32
}

// DefaultSVGOptions renders at 10 units per millimeter.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Scale: 10}
}

// WriteSVG draws one slice into w. The page is sized to the given 2D
// bounds so that all slices of a stack share a frame, and y is flipped
// so model +y points up. Holes are subpaths under an even-odd fill.
func WriteSVG(w io.Writer, s slicer.Slice, bounds geom.BBox2D, opts SVGOptions) error {
	if opts.Scale <= 0 {
		return errors.Errorf("svg scale %v must be positive", opts.Scale)
	}
	scaled := bounds.Scale(opts.Scale)
	width := int(scaled.Max.X - scaled.Min.X)
	height := int(scaled.Max.Y - scaled.Min.Y)

	tx := func(x float32) float32 { return x*opts.Scale - scaled.Min.X }
	ty := func(y float32) float32 { return scaled.Max.Y - y*opts.Scale }

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Gstyle("stroke:black;stroke-width:1;fill:lightgray;fill-rule:evenodd")
	for _, polygon := range s.Polygons {
		canvas.Path(svgPath(polygon, tx, ty))
	}
	canvas.Gend()
	canvas.End()
	return nil
}

// SaveSVG writes every slice of a stack to its own numbered file under
// dir, all sharing the stack's footprint frame.
func SaveSVG(dir string, slices []slicer.Slice, bounds geom.BBox2D, opts SVGOptions) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "svg output dir")
	}
	for i, s := range slices {
		path := fmt.Sprintf("%s/slice_%04d.svg", dir, i)
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create svg")
		}
		err = WriteSVG(f, s, bounds, opts)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	return nil
}

// svgPath builds the path data for a polygon and its holes as closed
// subpaths; even-odd filling turns the hole subpaths into actual
// holes.
func svgPath(polygon geom.Polygon2D, tx, ty func(float32) float32) string {
	var b strings.Builder
	writeRing(&b, polygon.Vertices, tx, ty)
	for _, hole := range polygon.Holes {
		writeRing(&b, hole.Vertices, tx, ty)
	}
	return b.String()
}

func writeRing(b *strings.Builder, vertices []geom.Vec2, tx, ty func(float32) float32) {
	for i, v := range vertices {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(b, "%s%.3f %.3f ", cmd, tx(v.X), ty(v.Y))
	}
	b.WriteString("Z ")
}
