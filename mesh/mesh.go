package mesh

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Mesh errors.
var (
	// ErrNoVertices is returned when a mesh is built without vertices.
	ErrNoVertices = errors.New("mesh: no vertices")

	// ErrNoIndices is returned when a mesh is built without indices.
	ErrNoIndices = errors.New("mesh: no indices")

	// ErrIndexCount is returned when the index count is not a multiple of 3.
	ErrIndexCount = errors.New("mesh: index count is not a multiple of 3")

	// ErrIndexOutOfRange is returned when an index refers past the last vertex.
	ErrIndexOutOfRange = errors.New("mesh: index out of range")

	// ErrTooManyVertices is returned when vertices cannot be addressed by uint16.
	ErrTooManyVertices = errors.New("mesh: too many vertices for uint16 indices")

	// ErrNilDevice is returned when Upload is called without a device or queue.
	ErrNilDevice = errors.New("mesh: nil device or queue")

	// ErrOtherDevice is returned when a mesh already uploaded to one device
	// is uploaded to another.
	ErrOtherDevice = errors.New("mesh: already uploaded to a different device")

	// ErrDestroyed is returned when drawing a BufferedMesh after Destroy.
	ErrDestroyed = errors.New("mesh: buffers destroyed")
)

// IndexError describes the first index that fails the range check.
type IndexError struct {
	Position    int
	Index       uint16
	VertexCount int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("mesh: index %d at position %d out of range [0, %d)",
		e.Index, e.Position, e.VertexCount)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// Mesh is indexed triangle-list geometry held in CPU memory.
type Mesh struct {
	label    string
	vertices []Vertex
	indices  []uint16

	// buffered is set by Upload and cleared by BufferedMesh.Destroy.
	buffered *BufferedMesh
}

// New validates and wraps the given geometry. The slices are copied.
// Every index must be smaller than len(vertices) and the index count must
// describe whole triangles.
func New(label string, vertices []Vertex, indices []uint16) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	if len(vertices) > 1<<16 {
		return nil, ErrTooManyVertices
	}
	if len(indices) == 0 {
		return nil, ErrNoIndices
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrIndexCount, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, &IndexError{Position: i, Index: idx, VertexCount: len(vertices)}
		}
	}

	return &Mesh{
		label:    label,
		vertices: append([]Vertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
	}, nil
}

// MustNew is like New but panics on invalid geometry.
// Intended for package-level fixtures.
func MustNew(label string, vertices []Vertex, indices []uint16) *Mesh {
	m, err := New(label, vertices, indices)
	if err != nil {
		panic(err)
	}
	return m
}

// Label returns the debug label.
func (m *Mesh) Label() string { return m.label }

// Vertices returns a copy of the vertex data.
func (m *Mesh) Vertices() []Vertex { return append([]Vertex(nil), m.vertices...) }

// Indices returns a copy of the index data.
func (m *Mesh) Indices() []uint16 { return append([]uint16(nil), m.indices...) }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int { return len(m.indices) }

// TriangleCount returns the number of triangles drawn.
func (m *Mesh) TriangleCount() int { return len(m.indices) / 3 }

// VertexBytes returns the byte length of the encoded vertex data.
func (m *Mesh) VertexBytes() uint64 { return uint64(len(m.vertices)) * VertexSize }

// IndexBytes returns the byte length of the encoded index data, unpadded.
func (m *Mesh) IndexBytes() uint64 { return uint64(len(m.indices)) * IndexSize }

// Uploaded returns the live BufferedMesh, or nil if the mesh has not been
// uploaded (or its buffers were destroyed).
func (m *Mesh) Uploaded() *BufferedMesh { return m.buffered }

// Upload allocates the vertex and index buffers on device and writes the
// mesh data through queue. Calling Upload again on the same device returns
// the existing BufferedMesh without allocating.
func (m *Mesh) Upload(device hal.Device, queue hal.Queue) (*BufferedMesh, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if m.buffered != nil {
		if m.buffered.device != device {
			return nil, ErrOtherDevice
		}
		return m.buffered, nil
	}

	vb, err := createAndUploadBuffer(device, queue, m.label+"_vertices",
		EncodeVertices(m.vertices), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	ib, err := createAndUploadBuffer(device, queue, m.label+"_indices",
		EncodeIndices(m.indices), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		device.DestroyBuffer(vb)
		return nil, err
	}

	m.buffered = &BufferedMesh{
		Mesh:         m,
		device:       device,
		vertexBuffer: vb,
		indexBuffer:  ib,
	}
	return m.buffered, nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
// The allocation is padded to the 4-byte copy granularity.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := alignCopy(uint64(len(data)))
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if pad := size - uint64(len(data)); pad > 0 {
		data = append(data, make([]byte, pad)...)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// BufferedMesh is a Mesh whose data lives in GPU buffers.
// It is only produced by Mesh.Upload.
type BufferedMesh struct {
	*Mesh

	device       hal.Device
	vertexBuffer hal.Buffer
	indexBuffer  hal.Buffer
}

// VertexBuffer returns the GPU vertex buffer.
func (b *BufferedMesh) VertexBuffer() hal.Buffer { return b.vertexBuffer }

// IndexBuffer returns the GPU index buffer.
func (b *BufferedMesh) IndexBuffer() hal.Buffer { return b.indexBuffer }

// Draw binds the vertex buffer at slot 0 and the Uint16 index buffer, then
// draws every index as a single instance. Nothing is recorded once the
// buffers have been destroyed.
func (b *BufferedMesh) Draw(pass hal.RenderPassEncoder) error {
	if b.vertexBuffer == nil || b.indexBuffer == nil {
		return ErrDestroyed
	}
	pass.SetVertexBuffer(0, b.vertexBuffer, 0)
	pass.SetIndexBuffer(b.indexBuffer, gputypes.IndexFormatUint16, 0)
	pass.DrawIndexed(uint32(len(b.indices)), 1, 0, 0, 0)
	return nil
}

// Destroy releases both GPU buffers. The parent Mesh can be uploaded again
// afterwards. Safe to call more than once.
func (b *BufferedMesh) Destroy() {
	if b.device == nil {
		return
	}
	if b.indexBuffer != nil {
		b.device.DestroyBuffer(b.indexBuffer)
		b.indexBuffer = nil
	}
	if b.vertexBuffer != nil {
		b.device.DestroyBuffer(b.vertexBuffer)
		b.vertexBuffer = nil
	}
	b.device = nil
	if b.Mesh.buffered == b {
		b.Mesh.buffered = nil
	}
}
