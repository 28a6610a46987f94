package gfx

import (
	"fmt"
	"log/slog"
)

// Geometry owns the vertex-array object and buffers of one uploaded mesh.
type Geometry struct {
	dev    Device
	vao    uint32
	vbo    uint32
	ebo    uint32
	layout AttribLayout

	vertexCount int32
	indexCount  int32
}

// NewGeometry uploads mesh and describes attribute slot 0 as tightly packed
// 3-component float positions. On failure every handle created so far is
// released and the returned error has kind KindBufferAllocation.
func NewGeometry(dev Device, mesh Mesh) (*Geometry, error) {
	if err := mesh.validate(); err != nil {
		return nil, &Error{Kind: KindBufferAllocation, Op: "validate", Err: err}
	}
	g := &Geometry{
		dev: dev,
		layout: AttribLayout{
			Slot:       0,
			Components: componentsPerPoint,
			Stride:     componentsPerPoint * floatSize,
			Offset:     0,
		},
		vertexCount: int32(mesh.VertexCount()),
		indexCount:  int32(len(mesh.Indices)),
	}
	if err := g.upload(mesh); err != nil {
		dev.BindVertexArray(0)
		g.Close()
		return nil, err
	}
	Logger().Debug("geometry uploaded",
		slog.Uint64("vao", uint64(g.vao)),
		slog.Uint64("vbo", uint64(g.vbo)),
		slog.Uint64("ebo", uint64(g.ebo)),
		slog.Int("vertices", int(g.vertexCount)),
		slog.Int("indices", int(g.indexCount)),
	)
	return g, nil
}

func (g *Geometry) upload(mesh Mesh) error {
	dev := g.dev
	drainErrors(dev)

	g.vao = dev.GenVertexArray()
	if err := checkHandle(dev, "gen vertex array", g.vao); err != nil {
		return err
	}
	dev.BindVertexArray(g.vao)
	if err := check(dev, "bind vertex array"); err != nil {
		return err
	}

	g.vbo = dev.GenBuffer()
	if err := checkHandle(dev, "gen vertex buffer", g.vbo); err != nil {
		return err
	}
	dev.BindBuffer(ArrayBuffer, g.vbo)
	dev.BufferData(ArrayBuffer, mesh.Vertices)
	if err := check(dev, "upload vertices"); err != nil {
		return err
	}

	if mesh.Indexed() {
		g.ebo = dev.GenBuffer()
		if err := checkHandle(dev, "gen index buffer", g.ebo); err != nil {
			return err
		}
		// The element binding is recorded in the bound vertex array.
		dev.BindBuffer(ElementArrayBuffer, g.ebo)
		dev.BufferData(ElementArrayBuffer, mesh.Indices)
		if err := check(dev, "upload indices"); err != nil {
			return err
		}
	}

	dev.BindBuffer(ArrayBuffer, g.vbo)
	dev.VertexAttribPointer(g.layout)
	dev.EnableVertexAttribArray(g.layout.Slot)
	if err := check(dev, "describe attributes"); err != nil {
		return err
	}

	dev.BindVertexArray(0)
	dev.BindBuffer(ArrayBuffer, 0)
	return check(dev, "unbind")
}

// Layout reports the attribute description bound to slot 0.
func (g *Geometry) Layout() AttribLayout {
	return g.layout
}

func (g *Geometry) VertexArray() uint32 { return g.vao }
func (g *Geometry) VertexCount() int32  { return g.vertexCount }
func (g *Geometry) IndexCount() int32   { return g.indexCount }
func (g *Geometry) Indexed() bool       { return g.ebo != 0 }

// Close releases every handle once. Calling it again is a no-op.
func (g *Geometry) Close() {
	if g == nil || g.dev == nil {
		return
	}
	if g.ebo != 0 {
		g.dev.DeleteBuffer(g.ebo)
		g.ebo = 0
	}
	if g.vbo != 0 {
		g.dev.DeleteBuffer(g.vbo)
		g.vbo = 0
	}
	if g.vao != 0 {
		g.dev.DeleteVertexArray(g.vao)
		g.vao = 0
	}
}

// maxStaleErrors bounds how many pending flags drainErrors discards; a lost
// context can report an error from every query.
const maxStaleErrors = 8

// drainErrors clears flags raised by earlier, unrelated calls so they are not
// reported against the calls that follow.
func drainErrors(dev Device) {
	for i := 0; i < maxStaleErrors; i++ {
		code := dev.Error()
		if code == NoError {
			return
		}
		Logger().Debug("discarding stale gl error", slog.String("code", fmt.Sprintf("0x%04X", code)))
	}
}

func check(dev Device, op string) error {
	if code := dev.Error(); code != NoError {
		return &Error{Kind: KindBufferAllocation, Op: op, Code: code}
	}
	return nil
}

func checkHandle(dev Device, op string, handle uint32) error {
	if err := check(dev, op); err != nil {
		return err
	}
	if handle == 0 {
		return &Error{Kind: KindBufferAllocation, Op: op}
	}
	return nil
}
