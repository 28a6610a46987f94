package gfx

import "github.com/go-gl/mathgl/mgl32"

type DrawMode uint8

const (
	// DrawArrays issues Count vertices sequentially from the vertex buffer.
	DrawArrays DrawMode = iota + 1
	// DrawElements issues Count indices through the index buffer.
	DrawElements
)

func (m DrawMode) String() string {
	switch m {
	case DrawArrays:
		return "arrays"
	case DrawElements:
		return "elements"
	default:
		return "unknown"
	}
}

type DrawCall struct {
	Mode  DrawMode
	Count int32
}

// Renderer draws one geometry with one program per frame.
type Renderer struct {
	dev        Device
	geometry   *Geometry
	program    *Program
	draw       DrawCall
	clearColor mgl32.Vec4
}

func NewRenderer(dev Device, geometry *Geometry, program *Program, draw DrawCall, clearColor mgl32.Vec4) *Renderer {
	return &Renderer{
		dev:        dev,
		geometry:   geometry,
		program:    program,
		draw:       draw,
		clearColor: clearColor,
	}
}

func (r *Renderer) DrawCall() DrawCall {
	return r.draw
}

// Render clears the frame, draws once and presents. Every binding the draw
// depends on is set here; nothing is assumed to persist from earlier calls.
// Draw failures surface only through Device.Error.
func (r *Renderer) Render(p Presenter) {
	dev := r.dev
	dev.ClearColor(r.clearColor.Elem())
	dev.Clear()

	dev.UseProgram(r.program.Handle())
	dev.BindVertexArray(r.geometry.VertexArray())

	switch r.draw.Mode {
	case DrawElements:
		dev.DrawElements(r.draw.Count)
	default:
		dev.DrawArrays(0, r.draw.Count)
	}

	dev.BindVertexArray(0)
	p.Present()
}
