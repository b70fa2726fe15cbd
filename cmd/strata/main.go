// Command strata slices a triangle mesh into planar contours and
// exports them. Input is an STL or 3MF file, or a generated test
// solid; output is SVG, PNG, DXF or GeoJSON.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/export"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/slicer"
	"github.com/chazu/strata/pkg/spatial"
)

func main() {
	var (
		in          = flag.String("in", "", "input mesh file (.stl or .3mf)")
		shape       = flag.String("shape", "", "generate a test solid instead of loading: box, cylinder or tube")
		sizeX       = flag.Float64("sx", 20, "generated solid x size (cylinder: radius)")
		sizeY       = flag.Float64("sy", 20, "generated solid y size")
		sizeZ       = flag.Float64("sz", 20, "generated solid z size (cylinder: height)")
		wall        = flag.Float64("wall", 3, "tube wall thickness")
		cells       = flag.Int("cells", 128, "marching cubes resolution for generated solids")
		thickness   = flag.Float64("thickness", 1, "slab height")
		indexKind   = flag.String("index", "bvh", "spatial index: bvh, linear or rtree")
		strategy    = flag.String("strategy", "sah", "bvh split strategy: median or sah")
		epsilon     = flag.Float64("epsilon", geom.DefaultEpsilon, "quantization lattice spacing")
		classifyEps = flag.Float64("classify-eps", 0, "on-plane classification band (0 = exact)")
		workers     = flag.Int("workers", 1, "parallel slice workers")
		format      = flag.String("format", "svg", "output format: svg, png, dxf or geojson")
		out         = flag.String("out", "slices", "output directory (svg, png) or file (dxf, geojson)")
	)
	flag.Parse()

	if err := run(runConfig{
		in: *in, shape: *shape,
		sizeX: *sizeX, sizeY: *sizeY, sizeZ: *sizeZ, wall: *wall, cells: *cells,
		thickness: float32(*thickness), indexKind: *indexKind, strategy: *strategy,
		epsilon: float32(*epsilon), classifyEps: float32(*classifyEps),
		workers: *workers, format: *format, out: *out,
	}); err != nil {
		log.Fatalf("strata: %v", err)
	}
}

type runConfig struct {
	in, shape                  string
	sizeX, sizeY, sizeZ, wall  float64
	cells                      int
	thickness                  float32
	indexKind, strategy        string
	epsilon, classifyEps       float32
	workers                    int
	format, out                string
}

func run(rc runConfig) error {
	m, err := loadMesh(rc)
	if err != nil {
		return err
	}
	log.Printf("mesh: %d triangles", m.TriangleCount())

	index, err := buildIndex(rc, m)
	if err != nil {
		return err
	}

	cfg := slicer.Config{
		Thickness:       rc.thickness,
		Strategy:        parseStrategy(rc.strategy),
		QuantizeEpsilon: rc.epsilon,
		ClassifyEpsilon: rc.classifyEps,
		Workers:         rc.workers,
	}

	started := time.Now()
	slices, err := slicer.SliceMesh(index, cfg)
	if err != nil {
		return err
	}
	log.Printf("sliced %d planes in %v", len(slices), time.Since(started))

	return writeOutput(rc, index, slices)
}

func loadMesh(rc runConfig) (*mesh.Mesh, error) {
	switch {
	case rc.in != "":
		switch strings.ToLower(filepath.Ext(rc.in)) {
		case ".stl":
			return mesh.LoadSTL(rc.in)
		case ".3mf":
			return mesh.Load3MF(rc.in)
		default:
			return nil, errors.Errorf("unsupported input format %q", filepath.Ext(rc.in))
		}
	case rc.shape == "box":
		return mesh.Box(rc.sizeX, rc.sizeY, rc.sizeZ, rc.cells)
	case rc.shape == "cylinder":
		return mesh.Cylinder(rc.sizeZ, rc.sizeX, rc.cells)
	case rc.shape == "tube":
		return mesh.Tube(rc.sizeX, rc.sizeY, rc.sizeZ, rc.wall, rc.cells)
	case rc.shape != "":
		return nil, errors.Errorf("unknown shape %q", rc.shape)
	default:
		return nil, errors.New("pass -in FILE or -shape NAME")
	}
}

func parseStrategy(name string) spatial.Strategy {
	if name == "median" {
		return spatial.MedianSplit
	}
	return spatial.SurfaceAreaHeuristic
}

func buildIndex(rc runConfig, m *mesh.Mesh) (spatial.Index, error) {
	var index spatial.Index
	switch rc.indexKind {
	case "bvh":
		index = spatial.NewBVH(parseStrategy(rc.strategy))
	case "linear":
		index = spatial.NewLinear()
	case "rtree":
		index = spatial.NewRTree()
	default:
		return nil, errors.Errorf("unknown index %q", rc.indexKind)
	}

	started := time.Now()
	err := index.Build(m.Triangles)
	if errors.Is(err, spatial.ErrTooFewPrimitives) {
		log.Printf("mesh too small for a %s index, falling back to linear scan", rc.indexKind)
		index = spatial.NewLinear()
		err = index.Build(m.Triangles)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("built %s index in %v", rc.indexKind, time.Since(started))
	return index, nil
}

func writeOutput(rc runConfig, index spatial.Index, slices []slicer.Slice) error {
	volume, err := index.AABB()
	if err != nil {
		return err
	}
	bounds := volume.XY()

	switch rc.format {
	case "svg":
		return export.SaveSVG(rc.out, slices, bounds, export.DefaultSVGOptions())
	case "png":
		if err := os.MkdirAll(rc.out, 0o755); err != nil {
			return errors.Wrap(err, "png output dir")
		}
		for i, s := range slices {
			path := filepath.Join(rc.out, fmt.Sprintf("slice_%04d.png", i))
			if err := export.SavePNG(path, s, bounds, export.DefaultPNGOptions()); err != nil {
				return err
			}
		}
		return nil
	case "dxf":
		return export.SaveDXF(rc.out, slices)
	case "geojson":
		data, err := export.MarshalGeoJSON(slices)
		if err != nil {
			return err
		}
		return errors.Wrap(os.WriteFile(rc.out, data, 0o644), "write geojson")
	default:
		return errors.Errorf("unknown format %q", rc.format)
	}
}
