package scene

import (
	"encoding/binary"
	"math"
)

// UniformSize is the byte size of FrameUniform on the GPU. A lone f32
// is padded to the 16-byte minimum uniform binding size.
const UniformSize = 16

// FrameUniform is the per-frame state read by animated.wgsl.
type FrameUniform struct {
	// Time is the elapsed time since InitializeBuffers, in seconds.
	Time float32
}

// Bytes encodes u in its GPU layout.
func (u FrameUniform) Bytes() []byte {
	buf := make([]byte, UniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(u.Time))
	return buf
}
