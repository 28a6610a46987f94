package gfx

import "github.com/go-gl/mathgl/mgl32"

const (
	floatSize          = 4
	componentsPerPoint = 3
)

// Mesh is flat position data plus an optional index list.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

func (m Mesh) VertexCount() int {
	return len(m.Vertices) / componentsPerPoint
}

func (m Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

func (m Mesh) validate() error {
	if len(m.Vertices) == 0 || len(m.Vertices)%componentsPerPoint != 0 {
		return ErrInvalidVertexData
	}
	count := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= count {
			return ErrIndexOutOfRange
		}
	}
	return nil
}

// FlattenPoints packs positions into the tightly packed layout NewGeometry
// expects.
func FlattenPoints(points []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(points)*componentsPerPoint)
	for _, p := range points {
		out = append(out, p.X(), p.Y(), p.Z())
	}
	return out
}

var quadCorners = []mgl32.Vec3{
	{0.5, 0.5, 0},   // top right
	{0.5, -0.5, 0},  // bottom right
	{-0.5, -0.5, 0}, // bottom left
	{-0.5, 0.5, 0},  // top left
}

var quadIndices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

// QuadMesh returns the unit quad centred on the origin. With indexed set it
// carries two triangles sharing the bottom-right/top-left diagonal.
func QuadMesh(indexed bool) Mesh {
	m := Mesh{Vertices: FlattenPoints(quadCorners)}
	if indexed {
		m.Indices = append([]uint32(nil), quadIndices...)
	}
	return m
}
