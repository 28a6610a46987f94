//go:build !js

package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/kjkrol/glquad/pkg/gfx"
)

// glDevice implements gfx.Device on top of the current OpenGL 3.3 core
// context. It must only be used from the thread that owns the context.
type glDevice struct{}

var _ gfx.Device = glDevice{}

func (glDevice) Error() uint32 {
	return gl.GetError()
}

func (glDevice) CreateShader(stage gfx.Stage) uint32 {
	switch stage {
	case gfx.StageVertex:
		return gl.CreateShader(gl.VERTEX_SHADER)
	case gfx.StageFragment:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	default:
		return 0
	}
}

func (glDevice) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (glDevice) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (glDevice) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (glDevice) ShaderInfoLog(shader uint32, limit int) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	return readLog(logLength, limit, func(size int32, buf *uint8) {
		gl.GetShaderInfoLog(shader, size, nil, buf)
	})
}

func (glDevice) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (glDevice) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (glDevice) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (glDevice) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (glDevice) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (glDevice) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (glDevice) ProgramInfoLog(program uint32, limit int) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	return readLog(logLength, limit, func(size int32, buf *uint8) {
		gl.GetProgramInfoLog(program, size, nil, buf)
	})
}

func (glDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (glDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (glDevice) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (glDevice) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (glDevice) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (glDevice) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (glDevice) BindBuffer(target gfx.BufferTarget, buffer uint32) {
	gl.BindBuffer(glTarget(target), buffer)
}

func (glDevice) BufferData(target gfx.BufferTarget, data any) {
	switch d := data.(type) {
	case []float32:
		if len(d) == 0 {
			return
		}
		gl.BufferData(glTarget(target), len(d)*4, gl.Ptr(d), gl.STATIC_DRAW)
	case []uint32:
		if len(d) == 0 {
			return
		}
		gl.BufferData(glTarget(target), len(d)*4, gl.Ptr(d), gl.STATIC_DRAW)
	default:
		panic(fmt.Sprintf("BufferData: unsupported data type %T", data))
	}
}

func (glDevice) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (glDevice) VertexAttribPointer(layout gfx.AttribLayout) {
	gl.VertexAttribPointer(layout.Slot, layout.Components, gl.FLOAT, false, layout.Stride, gl.PtrOffset(layout.Offset))
}

func (glDevice) EnableVertexAttribArray(slot uint32) {
	gl.EnableVertexAttribArray(slot)
}

func (glDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (glDevice) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (glDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (glDevice) DrawArrays(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (glDevice) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func glTarget(target gfx.BufferTarget) uint32 {
	if target == gfx.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// readLog fetches at most limit bytes of an info log whose driver-reported
// length (including the terminator) is logLength.
func readLog(logLength int32, limit int, fetch func(size int32, buf *uint8)) string {
	size := clampLogSize(logLength, limit)
	if size == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(size))
	fetch(size, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func clampLogSize(logLength int32, limit int) int32 {
	if logLength <= 0 {
		return 0
	}
	if limit > 0 && int(logLength) > limit {
		return int32(limit)
	}
	return logLength
}
