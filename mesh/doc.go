// Package mesh holds indexed triangle geometry and its GPU-resident form.
//
// A [Mesh] is CPU-side data only. [Mesh.Upload] allocates the vertex and
// index buffers on a hal device and returns a [BufferedMesh], the only type
// that can draw. A mesh that was never uploaded has no Draw method, so the
// "draw before upload" mistake cannot compile.
//
//	m, err := mesh.New("pentagon", vertices, indices)
//	if err != nil {
//	    return err
//	}
//	bm, err := m.Upload(device, queue)
//	if err != nil {
//	    return err
//	}
//	defer bm.Destroy()
//
//	if err := bm.Draw(pass); err != nil {
//	    return err
//	}
package mesh
