// Package scene renders meshes to a gpu.Context once per redraw.
//
// A Scene owns its meshes, its shader and the pipeline built from it. The
// loop drives it in three calls:
//
//	s := scene.Pentagon()
//	if err := s.InitializeBuffers(ctx); err != nil { ... }
//	for each redraw {
//	    s.Tick(ctx)
//	    switch scene.Classify(s.Render(ctx)) { ... }
//	}
//
// Render follows a fixed order: build or reuse the pipeline, acquire the
// surface texture, encode a single render pass that clears to
// ClearColor and draws every mesh, submit, present. A frame that fails
// after acquisition is discarded, never presented.
//
// Two variants are provided. Static draws vertex colors with no bind
// groups. Animated adds a FrameUniform carrying the elapsed time at
// @group(0) @binding(0), rewritten on every Tick.
//
// Scenes are also available by name through the package registry; see
// Register, List and New.
package scene
