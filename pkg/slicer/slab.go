package slicer

import (
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/clip"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/spatial"
)

// SlabSection is the projected wall geometry of one slab: every facet
// crossing the slab, clipped to it and flattened. Unlike Slice this is
// raw per-triangle geometry, not stitched outlines; toolpath previews
// use it to shade the walls between two adjacent planes.
type SlabSection struct {
	Polygons []geom.Polygon2D
	Bottom   float32
	Top      float32
}

// SlabSections clips the facets slabTriangles collects for each slab
// to the slab's two planes. Facets keep Above against the slab bottom and then Below
// against the slab top, so a facet lying flat on a plane registers
// with the slab above it and only that one.
func SlabSections(index spatial.Index, cfg Config) ([]SlabSection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	volume, err := index.AABB()
	if err != nil {
		return nil, err
	}

	var sections []SlabSection
	for _, bottom := range SliceHeights(volume, cfg.Thickness) {
		top := bottom + cfg.Thickness
		if top > volume.Max.Z {
			top = volume.Max.Z
		}

		triangles, err := slabTriangles(index, bottom, top)
		if err != nil {
			return nil, err
		}

		section := SlabSection{Bottom: bottom, Top: top}
		for _, tri := range triangles {
			polygon := geom.Polygon3D{Vertices: []geom.Vec3{tri.V0, tri.V1, tri.V2}}

			aboveBottom, err := clip.Clip(polygon, bottom, clip.KeepAbove)
			if err != nil {
				return nil, errors.Wrapf(err, "slab [%v, %v]", bottom, top)
			}
			if !aboveBottom.IsValid() {
				continue
			}

			inSlab, err := clip.Clip(aboveBottom, top, clip.KeepBelow)
			if err != nil {
				return nil, errors.Wrapf(err, "slab [%v, %v]", bottom, top)
			}
			if !inSlab.IsValid() {
				continue
			}

			section.Polygons = append(section.Polygons, inSlab.XY())
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// slabTriangles collects the facets whose bounding boxes touch either
// slab plane, deduplicated by value. A facet strictly between the two
// planes straddles neither and is not returned; sections assume the
// slab height is at least the tallest facet extent.
func slabTriangles(index spatial.Index, bottom, top float32) ([]geom.Triangle3D, error) {
	atBottom, err := index.Query(bottom)
	if err != nil {
		return nil, err
	}
	atTop, err := index.Query(top)
	if err != nil {
		return nil, err
	}

	seen := make(map[geom.Triangle3D]struct{}, len(atBottom)+len(atTop))
	var result []geom.Triangle3D
	for _, tri := range append(atBottom, atTop...) {
		if _, dup := seen[tri]; dup {
			continue
		}
		seen[tri] = struct{}{}
		result = append(result, tri)
	}
	return result, nil
}
