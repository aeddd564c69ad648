package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

var namedKeys = map[glfw.Key]gpucontext.Key{
	glfw.KeyEscape:    gpucontext.KeyEscape,
	glfw.KeyTab:       gpucontext.KeyTab,
	glfw.KeyBackspace: gpucontext.KeyBackspace,
	glfw.KeyEnter:     gpucontext.KeyEnter,
	glfw.KeySpace:     gpucontext.KeySpace,
	glfw.KeyInsert:    gpucontext.KeyInsert,
	glfw.KeyDelete:    gpucontext.KeyDelete,
	glfw.KeyHome:      gpucontext.KeyHome,
	glfw.KeyEnd:       gpucontext.KeyEnd,
	glfw.KeyPageUp:    gpucontext.KeyPageUp,
	glfw.KeyPageDown:  gpucontext.KeyPageDown,
	glfw.KeyLeft:      gpucontext.KeyLeft,
	glfw.KeyRight:     gpucontext.KeyRight,
	glfw.KeyUp:        gpucontext.KeyUp,
	glfw.KeyDown:      gpucontext.KeyDown,
}

// mapKey converts a GLFW key to its gpucontext code.
func mapKey(k glfw.Key) gpucontext.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return gpucontext.KeyA + gpucontext.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return gpucontext.Key0 + gpucontext.Key(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF12:
		return gpucontext.KeyF1 + gpucontext.Key(k-glfw.KeyF1)
	}
	if g, ok := namedKeys[k]; ok {
		return g
	}
	return gpucontext.KeyUnknown
}
