package scene

import (
	"testing"

	"golang.org/x/image/math/f32"
)

func TestPentagonMesh(t *testing.T) {
	m := PentagonMesh()
	if m.VertexCount() != 5 {
		t.Errorf("vertices = %d, want 5", m.VertexCount())
	}
	want := []uint16{0, 1, 4, 1, 2, 4, 2, 3, 4}
	got := m.Indices()
	if len(got) != len(want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
	for i, v := range m.Vertices() {
		if v.Color != (f32.Vec3{0.5, 0, 0.5}) {
			t.Errorf("vertex %d color = %v, want purple", i, v.Color)
		}
	}
	if m.TriangleCount() != 3 {
		t.Errorf("triangles = %d, want 3", m.TriangleCount())
	}
}

func TestPyramidMesh(t *testing.T) {
	m := PyramidMesh()
	if m.VertexCount() != 5 || m.IndexCount() != 18 || m.TriangleCount() != 6 {
		t.Errorf("counts = %d/%d/%d, want 5/18/6", m.VertexCount(), m.IndexCount(), m.TriangleCount())
	}
}

// Every triangle must wind counter-clockwise seen from outside the solid.
// In clip space (x right, y up, z into the screen) that is a cross
// product pointing toward the centroid.
func TestPyramidWinding(t *testing.T) {
	m := PyramidMesh()
	verts := m.Vertices()
	idx := m.Indices()

	var centroid f32.Vec3
	for _, v := range verts {
		for k := range 3 {
			centroid[k] += v.Position[k] / float32(len(verts))
		}
	}

	for tri := 0; tri < len(idx); tri += 3 {
		a, b, c := verts[idx[tri]].Position, verts[idx[tri+1]].Position, verts[idx[tri+2]].Position
		e1 := sub(b, a)
		e2 := sub(c, a)
		n := f32.Vec3{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		toCenter := sub(centroid, a)
		if dot(n, toCenter) <= 0 {
			t.Errorf("triangle %d (%v) faces the wrong way", tri/3, idx[tri:tri+3])
		}
	}
}

func sub(a, b f32.Vec3) f32.Vec3 { return f32.Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func dot(a, b f32.Vec3) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
