package gfx

// Stage identifies a shader pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota + 1
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

type BufferTarget uint8

const (
	ArrayBuffer BufferTarget = iota + 1
	ElementArrayBuffer
)

// AttribLayout describes how one vertex attribute slot reads float data
// from the buffer bound to ArrayBuffer.
type AttribLayout struct {
	Slot       uint32
	Components int32
	Stride     int32
	Offset     int
}

// NoError is the value Device.Error returns when the error flag is clear.
const NoError uint32 = 0

// Device is the graphics context every core operation runs against. All
// binding state lives behind it; callers rebind what they need before each
// dependent call. Implementations must be used from a single OS thread.
type Device interface {
	// Error returns and clears the oldest pending error flag.
	Error() uint32

	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32, limit int) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32, limit int) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	// BufferData uploads data ([]float32 or []uint32) to the buffer bound
	// to target with static usage.
	BufferData(target BufferTarget, data any)
	DeleteBuffer(buffer uint32)

	VertexAttribPointer(layout AttribLayout)
	EnableVertexAttribArray(slot uint32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
	DrawArrays(first, count int32)
	DrawElements(count int32)
}

// Presenter swaps the back buffer to the screen.
type Presenter interface {
	Present()
}
