package export

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/slicer"
)

// dxfLayerColors cycles per slice so stacked outlines stay readable in
// a viewer.
var dxfLayerColors = []color.ColorNumber{
	color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta,
}

// SaveDXF writes the whole stack into one drawing, one layer per
// slice. Every outline (shells and holes alike) becomes a closed
// lightweight polyline.
func SaveDXF(path string, slices []slicer.Slice) error {
	d := dxf.NewDrawing()

	for i, s := range slices {
		layer := fmt.Sprintf("SLICE_%04d", i)
		d.AddLayer(layer, dxfLayerColors[i%len(dxfLayerColors)], dxf.DefaultLineType, true)
		d.ChangeLayer(layer)

		for _, polygon := range s.Polygons {
			addPolyline(d, polygon.Vertices)
			for _, hole := range polygon.Holes {
				addPolyline(d, hole.Vertices)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return errors.Wrap(err, "save dxf")
	}
	return nil
}

// addPolyline emits a closed ring; the first vertex is repeated to
// close the loop explicitly.
func addPolyline(d *drawing.Drawing, vertices []geom.Vec2) {
	if len(vertices) == 0 {
		return
	}
	lwp := entity.NewLwPolyline(len(vertices) + 1)
	for i, v := range vertices {
		lwp.Vertices[i] = []float64{float64(v.X), float64(v.Y)}
	}
	first := vertices[0]
	lwp.Vertices[len(vertices)] = []float64{float64(first.X), float64(first.Y)}
	d.AddEntity(lwp)
}
