package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// stlHeaderSize is the unused lead-in of a binary STL file.
const stlHeaderSize = 80

// stlRecord is one binary facet: normal, three vertices, attribute
// byte count.
type stlRecord struct {
	Normal   [3]float32
	Vertices [3][3]float32
	Attr     uint16
}

// LoadSTL reads an STL file, binary or ASCII.
func LoadSTL(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open stl")
	}
	defer f.Close()
	return ReadSTL(f)
}

// ReadSTL reads an STL stream. ASCII files start with "solid" and
// contain a "facet" keyword; anything else is treated as binary. The
// check needs the whole prefix, so the stream is buffered in memory.
func ReadSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read stl")
	}
	if isASCIISTL(data) {
		return readASCIISTL(bytes.NewReader(data))
	}
	return readBinarySTL(bytes.NewReader(data))
}

// isASCIISTL sniffs the format. Binary exporters are allowed to write
// "solid" into the free-form header, so the prefix alone is not
// enough; a real ASCII body names at least one facet.
func isASCIISTL(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return bytes.Contains(probe, []byte("facet"))
}

func readBinarySTL(r io.Reader) (*Mesh, error) {
	header := make([]byte, stlHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "binary stl header")
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "binary stl triangle count")
	}

	mesh := &Mesh{Triangles: make([]geom.Triangle3D, 0, count)}
	for i := uint32(0); i < count; i++ {
		var rec stlRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, errors.Wrapf(err, "binary stl facet %d of %d", i, count)
		}
		mesh.Triangles = append(mesh.Triangles, geom.Triangle3D{
			V0: geom.Vec3{X: rec.Vertices[0][0], Y: rec.Vertices[0][1], Z: rec.Vertices[0][2]},
			V1: geom.Vec3{X: rec.Vertices[1][0], Y: rec.Vertices[1][1], Z: rec.Vertices[1][2]},
			V2: geom.Vec3{X: rec.Vertices[2][0], Y: rec.Vertices[2][1], Z: rec.Vertices[2][2]},
		})
	}
	return mesh, nil
}

func readASCIISTL(r io.Reader) (*Mesh, error) {
	mesh := &Mesh{}
	var vertices []geom.Vec3

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, errors.Errorf("ascii stl line %d: vertex needs 3 coordinates", line)
		}
		var coords [3]float32
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "ascii stl line %d", line)
			}
			coords[i] = float32(v)
		}
		vertices = append(vertices, geom.Vec3{X: coords[0], Y: coords[1], Z: coords[2]})

		if len(vertices) == 3 {
			mesh.Triangles = append(mesh.Triangles, geom.Triangle3D{
				V0: vertices[0], V1: vertices[1], V2: vertices[2],
			})
			vertices = vertices[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ascii stl")
	}
	if len(vertices) != 0 {
		return nil, errors.Errorf("ascii stl: %d trailing vertices do not form a facet", len(vertices))
	}
	return mesh, nil
}

// SaveSTL writes the mesh as binary STL. Facet normals are recomputed
// from the vertex winding.
func SaveSTL(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create stl")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteSTL(w, m); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flush stl")
	}
	return nil
}

// WriteSTL writes the mesh as binary STL to w.
func WriteSTL(w io.Writer, m *Mesh) error {
	header := make([]byte, stlHeaderSize)
	copy(header, "strata binary stl")
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "binary stl header")
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return errors.Wrap(err, "binary stl triangle count")
	}

	for i, tri := range m.Triangles {
		n := tri.V1.Sub(tri.V0).Cross(tri.V2.Sub(tri.V0))
		rec := stlRecord{
			Normal: [3]float32{n.X, n.Y, n.Z},
			Vertices: [3][3]float32{
				{tri.V0.X, tri.V0.Y, tri.V0.Z},
				{tri.V1.X, tri.V1.Y, tri.V1.Z},
				{tri.V2.X, tri.V2.Y, tri.V2.Z},
			},
		}
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return errors.Wrapf(err, "binary stl facet %d", i)
		}
	}
	return nil
}
