package export

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/slicer"
)

// FeatureCollection converts a slice stack into GeoJSON, one polygon
// feature per shell with its holes as interior rings and the slice
// height in a "z" property.
func FeatureCollection(slices []slicer.Slice) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for i, s := range slices {
		for _, polygon := range s.Polygons {
			if !polygon.IsValid() {
				return nil, errors.Errorf("slice %d: polygon with %d vertices", i, len(polygon.Vertices))
			}
			feature := geojson.NewFeature(toOrbPolygon(polygon))
			feature.Properties["slice"] = i
			feature.Properties["z"] = s.Z
			fc.Append(feature)
		}
	}
	return fc, nil
}

// MarshalGeoJSON renders the stack as GeoJSON bytes.
func MarshalGeoJSON(slices []slicer.Slice) ([]byte, error) {
	fc, err := FeatureCollection(slices)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal geojson")
	}
	return data, nil
}

// toOrbPolygon maps shell and holes to orb rings. GeoJSON rings are
// explicitly closed, so the first point is appended again at the end.
func toOrbPolygon(polygon geom.Polygon2D) orb.Polygon {
	rings := orb.Polygon{toOrbRing(polygon.Vertices)}
	for _, hole := range polygon.Holes {
		rings = append(rings, toOrbRing(hole.Vertices))
	}
	return rings
}

func toOrbRing(vertices []geom.Vec2) orb.Ring {
	ring := lo.Map(vertices, func(v geom.Vec2, _ int) orb.Point {
		return orb.Point{float64(v.X), float64(v.Y)}
	})
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return orb.Ring(ring)
}
