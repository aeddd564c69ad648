package scene

import "github.com/gogpu/meshloop/mesh"

var pentagonColor = [3]float32{0.5, 0.0, 0.5}

// PentagonMesh returns a purple pentagon in the z=0 plane, fanned from
// its last vertex into three triangles.
func PentagonMesh() *mesh.Mesh {
	c := pentagonColor
	return mesh.MustNew("pentagon",
		[]mesh.Vertex{
			mesh.V(-0.0868241, 0.49240386, 0.0, c[0], c[1], c[2]),
			mesh.V(-0.49513406, 0.06958647, 0.0, c[0], c[1], c[2]),
			mesh.V(-0.21918549, -0.44939706, 0.0, c[0], c[1], c[2]),
			mesh.V(0.35966998, -0.3473291, 0.0, c[0], c[1], c[2]),
			mesh.V(0.44147372, 0.2347359, 0.0, c[0], c[1], c[2]),
		},
		[]uint16{
			0, 1, 4,
			1, 2, 4,
			2, 3, 4,
		},
	)
}

// PyramidMesh returns a square pyramid with its apex on +y: four sides
// and a base split in two, six triangles in all. Every face winds
// counter-clockwise seen from outside, so back-face culling hides the
// far side.
func PyramidMesh() *mesh.Mesh {
	return mesh.MustNew("pyramid",
		[]mesh.Vertex{
			mesh.V(0.0, 0.5, 0.0, 1.0, 1.0, 1.0),    // apex
			mesh.V(-0.5, -0.5, -0.5, 1.0, 0.0, 0.0), // base
			mesh.V(0.5, -0.5, -0.5, 0.0, 1.0, 0.0),
			mesh.V(0.5, -0.5, 0.5, 0.0, 0.0, 1.0),
			mesh.V(-0.5, -0.5, 0.5, 1.0, 1.0, 0.0),
		},
		[]uint16{
			1, 2, 0,
			2, 3, 0,
			3, 4, 0,
			4, 1, 0,
			1, 4, 3,
			1, 3, 2,
		},
	)
}

// Pentagon returns the static pentagon scene.
func Pentagon(opts ...Option) Scene {
	return NewStatic("pentagon", []*mesh.Mesh{PentagonMesh()}, opts...)
}

// Pyramid returns the rotating pyramid scene.
func Pyramid(opts ...Option) Scene {
	return NewAnimated("pyramid", []*mesh.Mesh{PyramidMesh()}, opts...)
}
