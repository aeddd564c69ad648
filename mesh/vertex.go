package mesh

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// VertexSize is the byte stride of one Vertex: two float32x3 attributes.
const VertexSize = 24

// IndexSize is the byte size of one index (Uint16).
const IndexSize = 2

// Attribute offsets within a Vertex.
const (
	positionOffset = 0
	colorOffset    = 12
)

// Vertex is one corner of a triangle.
// Position is in clip space, Color is linear RGB.
type Vertex struct {
	Position f32.Vec3
	Color    f32.Vec3
}

// V is shorthand for building a Vertex from six floats.
func V(x, y, z, r, g, b float32) Vertex {
	return Vertex{
		Position: f32.Vec3{x, y, z},
		Color:    f32.Vec3{r, g, b},
	}
}

// VertexLayout returns the vertex buffer layout matching Vertex:
// position at shader location 0, color at location 1.
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: positionOffset, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: colorOffset, ShaderLocation: 1},
		},
	}
}

// put writes v into buf in little-endian order. buf must hold VertexSize bytes.
func (v Vertex) put(buf []byte) {
	for i, c := range v.Position {
		binary.LittleEndian.PutUint32(buf[positionOffset+i*4:], math.Float32bits(c))
	}
	for i, c := range v.Color {
		binary.LittleEndian.PutUint32(buf[colorOffset+i*4:], math.Float32bits(c))
	}
}

// EncodeVertices serializes vertices into the GPU byte layout.
func EncodeVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		v.put(buf[i*VertexSize:])
	}
	return buf
}

// EncodeIndices serializes indices as little-endian uint16.
func EncodeIndices(indices []uint16) []byte {
	buf := make([]byte, len(indices)*IndexSize)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*IndexSize:], idx)
	}
	return buf
}

// alignCopy pads n up to the 4-byte granularity required for buffer writes.
func alignCopy(n uint64) uint64 {
	return (n + 3) &^ 3
}
