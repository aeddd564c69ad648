// Package meshloop renders a Scene to a window in a continuous redraw loop.
//
// # Overview
//
// The loop owns three collaborators:
//
//   - a gpu.Context: instance, surface, adapter, device and queue of one
//     window, negotiated once at startup
//   - an EventSource: the window, delivering close, resize, key and
//     redraw events
//   - a scene.Scene: meshes plus the pipeline that draws them
//
// # Quick Start
//
//	ctx, err := gpu.New(win)
//	if err != nil {
//	    os.Exit(meshloop.ExitStartup)
//	}
//	defer ctx.Close()
//
//	app, err := meshloop.New(ctx, win, meshloop.WithSceneName("pentagon"))
//	if err != nil {
//	    os.Exit(meshloop.ExitStartup)
//	}
//	defer app.Close()
//	os.Exit(app.Run())
//
// # Frame errors
//
// A frame whose surface was lost or became outdated is dropped and the
// surface is reconfigured at its current size; nothing is submitted.
// Device out-of-memory ends Run with ExitOutOfMemory. Any other frame
// error is logged and the frame skipped.
//
// # Logging
//
// meshloop is silent by default. SetLogger installs a *slog.Logger for
// this package and its sub-packages.
package meshloop
