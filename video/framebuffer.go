package video

// Color is one of the 4 DMG shades, packed BGRA8888.
type Color uint32

const (
	FrameWidth  = 160
	FrameHeight = 144
	FrameSize   = FrameWidth * FrameHeight
)

const (
	WhiteColor     Color = 0xFFFFFFFF
	LightGreyColor Color = 0xFFAAAAAA
	DarkGreyColor  Color = 0xFF555555
	BlackColor     Color = 0xFF000000
)

// ShadeToColor maps a 2-bit DMG color index (0=lightest..3=darkest in the
// palette byte's bit-pair encoding) to a packed BGRA8888 pixel.
func ShadeToColor(value byte) Color {
	switch value {
	case 0:
		return WhiteColor
	case 1:
		return LightGreyColor
	case 2:
		return DarkGreyColor
	case 3:
		return BlackColor
	}
	return WhiteColor
}

// FrameBuffer holds one rendered 160x144 frame as packed BGRA8888 pixels.
type FrameBuffer struct {
	buffer []uint32
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{buffer: make([]uint32, FrameSize)}
}

func (fb *FrameBuffer) SetPixel(x, y int, color Color) {
	fb.buffer[y*FrameWidth+x] = uint32(color)
}

func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.buffer[y*FrameWidth+x]
}

// Pixels exposes the raw BGRA8888 pixel buffer, one uint32 per pixel.
func (fb *FrameBuffer) Pixels() []uint32 {
	return fb.buffer
}

func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(BlackColor)
	}
}

// Bytes returns the framebuffer as raw bytes A,R,G,B per pixel (each
// 0xAARRGGBB value written high byte first). Read back as little-endian
// 32-bit words these are SDL's packed PIXELFORMAT_BGRA8888 (B in the high
// byte), which is how the SDL backend consumes them.
func (fb *FrameBuffer) Bytes() []byte {
	out := make([]byte, len(fb.buffer)*4)
	for i, pixel := range fb.buffer {
		out[i*4] = byte(pixel >> 24)   // A
		out[i*4+1] = byte(pixel >> 16) // R
		out[i*4+2] = byte(pixel >> 8)  // G
		out[i*4+3] = byte(pixel)       // B
	}
	return out
}
