package convert

import (
	"sync"

	"github.com/brensch/snakeworld/rules"
)

const (
	Width     = 11
	Height    = 11
	Channels  = 4
	Radius    = Width / 2
	FloatSize = Channels * Width * Height
)

// Channel layout.
const (
	BorderPlane = iota
	OwnPlane
	OthersPlane
	FoodPlane
)

var floatPool = sync.Pool{
	New: func() interface{} {
		b := make([]float32, FloatSize)
		return &b
	},
}

func GetFloatBuffer() *[]float32 {
	return floatPool.Get().(*[]float32)
}

func PutFloatBuffer(b *[]float32) {
	floatPool.Put(b)
}

// Index is the flat offset of window cell (x, y) in channel c.
func Index(c, x, y int) int {
	return c*Height*Width + y*Width + x
}

// FrameToFloat32 encodes an agent-centred window of the frame into a pooled
// float32 slice suitable for ONNX input.
// Output shape: [Channels, Height, Width] (C, H, W), the agent's head at the
// centre cell. Cells outside the world count as border.
// Bodies are written as a time-to-live value from head (1.0) down to tail (1/len).
// If the agent is not in the frame every plane but the border is empty.
// Caller must return the buffer with PutFloatBuffer.
func FrameToFloat32(f *rules.Frame, agent int) *[]float32 {
	dataPtr := GetFloatBuffer()
	data := *dataPtr
	clear(data)

	self, ok := f.Snake(agent)
	if !ok {
		return dataPtr
	}
	head := self.Body[0]
	ox, oy := int(head.X)-Radius, int(head.Y)-Radius

	set := func(c, wx, wy int, val float32) {
		x, y := wx-ox, wy-oy
		if x < 0 || x >= Width || y < 0 || y >= Height {
			return
		}
		data[Index(c, x, y)] = val
	}

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			wx, wy := ox+x, oy+y
			if wx <= 0 || wy <= 0 || wx >= f.Width-1 || wy >= f.Height-1 {
				data[Index(BorderPlane, x, y)] = 1
			}
		}
	}

	for _, s := range f.Snakes {
		c := OthersPlane
		if s.ID == agent {
			c = OwnPlane
		}
		l := float32(len(s.Body))
		for i, p := range s.Body {
			set(c, int(p.X), int(p.Y), (l-float32(i))/l)
		}
	}

	for _, p := range f.Food {
		set(FoodPlane, int(p.X), int(p.Y), 1)
	}
	return dataPtr
}

// ViewToFloat32 is FrameToFloat32 on a live view.
func ViewToFloat32(v *rules.WorldView, agent int) *[]float32 {
	f := v.Frame()
	return FrameToFloat32(&f, agent)
}
