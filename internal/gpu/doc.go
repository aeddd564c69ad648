// Package gpu owns the device and presentation surface of a window.
//
// It sits directly on the gogpu/wgpu HAL. [New] runs the startup
// negotiation once:
//
//  1. select a registered hal backend from the platform's backend family
//  2. create the instance and a surface for the window handles
//  3. pick the highest-power adapter that can present to the surface
//  4. open a device and queue with default (or downlevel) limits
//  5. choose the first sRGB surface format, first present mode and first
//     alpha mode, then configure the surface at the window size
//
// After startup, [Context.Resize] reconfigures the surface and
// [Context.AcquireFrame] hands out one presentable texture per frame.
// Acquisition failures are returned as [*SurfaceError] wrapping the hal
// sentinels so the caller can decide between reconfiguring, skipping the
// frame and exiting.
package gpu
