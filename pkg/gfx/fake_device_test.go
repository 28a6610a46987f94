package gfx_test

import (
	"fmt"
	"strings"

	"github.com/kjkrol/glquad/pkg/gfx"
)

const (
	errInvalidEnum      uint32 = 0x0500
	errInvalidValue     uint32 = 0x0501
	errInvalidOperation uint32 = 0x0502
	errOutOfMemory      uint32 = 0x0505
)

// gridSize is the edge length of the fake framebuffer. Pixel centres sit at
// odd multiples of 1/gridSize in normalized device coordinates.
const gridSize = 16

type fakeShader struct {
	stage      gfx.Stage
	source     string
	compiled   bool
	flagged    bool
	attachedTo map[uint32]bool
}

type fakeProgram struct {
	attached []uint32
	linked   bool
}

type fakeVAO struct {
	layout     *gfx.AttribLayout
	layoutBuf  uint32
	enabled    bool
	elementBuf uint32
}

type drawRecord struct {
	mode  gfx.DrawMode
	first int32
	count int32
}

// fakeDevice models the parts of an OpenGL context the core touches: object
// lifetimes, binding points, the error flag and a coarse rasterizer.
type fakeDevice struct {
	next uint32

	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
	vaos     map[uint32]*fakeVAO
	buffers  map[uint32]any

	boundVAO     uint32
	boundArray   uint32
	boundProgram uint32

	errors []uint32

	// compileFails returns a log and true when the source must not compile.
	compileFails func(stage gfx.Stage, source string) (string, bool)
	// linkLog, when set, makes every link fail with that log.
	linkLog *string
	// failOn pushes the given error code when the named call runs.
	failOn map[string]uint32
	// zeroHandle makes the named generator return 0.
	zeroHandle map[string]bool

	calls          []string
	createdShaders int
	deletedShaders map[uint32]int
	doubleDeletes  int
	draws          []drawRecord

	clearColor [4]float32
	pixels     []uint32
	frames     [][]uint32
	viewport   [4]int32
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:        make(map[uint32]*fakeShader),
		programs:       make(map[uint32]*fakeProgram),
		vaos:           make(map[uint32]*fakeVAO),
		buffers:        make(map[uint32]any),
		failOn:         make(map[string]uint32),
		zeroHandle:     make(map[string]bool),
		deletedShaders: make(map[uint32]int),
		compileFails:   requireMain,
		pixels:         make([]uint32, gridSize*gridSize),
	}
}

func requireMain(_ gfx.Stage, source string) (string, bool) {
	if !strings.Contains(source, "void main") {
		return "0:1(1): error: syntax error, function main is not defined", true
	}
	return "", false
}

func (d *fakeDevice) record(name string) {
	d.calls = append(d.calls, name)
	if code, ok := d.failOn[name]; ok {
		d.errors = append(d.errors, code)
	}
}

func (d *fakeDevice) raise(code uint32) {
	d.errors = append(d.errors, code)
}

func (d *fakeDevice) handle(name string) uint32 {
	if d.zeroHandle[name] {
		return 0
	}
	d.next++
	return d.next
}

func (d *fakeDevice) called(name string) bool {
	for _, c := range d.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (d *fakeDevice) count(name string) int {
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

// liveShaders counts stage objects that still exist in the driver: not
// deleted, or flagged for deletion while attached to a live program.
func (d *fakeDevice) liveShaders() int {
	return len(d.shaders)
}

func (d *fakeDevice) Error() uint32 {
	d.calls = append(d.calls, "Error")
	if len(d.errors) == 0 {
		return gfx.NoError
	}
	code := d.errors[0]
	d.errors = d.errors[1:]
	return code
}

func (d *fakeDevice) CreateShader(stage gfx.Stage) uint32 {
	d.record("CreateShader")
	h := d.handle("CreateShader")
	if h == 0 {
		return 0
	}
	d.shaders[h] = &fakeShader{stage: stage, attachedTo: make(map[uint32]bool)}
	d.createdShaders++
	return h
}

func (d *fakeDevice) ShaderSource(shader uint32, source string) {
	d.record("ShaderSource")
	s, ok := d.shaders[shader]
	if !ok {
		d.raise(errInvalidValue)
		return
	}
	s.source = source
}

func (d *fakeDevice) CompileShader(shader uint32) {
	d.record("CompileShader")
	s, ok := d.shaders[shader]
	if !ok {
		d.raise(errInvalidValue)
		return
	}
	_, fails := d.compileFails(s.stage, s.source)
	s.compiled = !fails
}

func (d *fakeDevice) ShaderCompiled(shader uint32) bool {
	d.record("ShaderCompiled")
	s, ok := d.shaders[shader]
	return ok && s.compiled
}

func (d *fakeDevice) ShaderInfoLog(shader uint32, limit int) string {
	d.record("ShaderInfoLog")
	s, ok := d.shaders[shader]
	if !ok || s.compiled {
		return ""
	}
	log, _ := d.compileFails(s.stage, s.source)
	if len(log) > limit {
		log = log[:limit]
	}
	return log
}

func (d *fakeDevice) DeleteShader(shader uint32) {
	d.record("DeleteShader")
	if shader == 0 {
		return
	}
	d.deletedShaders[shader]++
	s, ok := d.shaders[shader]
	if !ok || s.flagged {
		d.doubleDeletes++
		return
	}
	s.flagged = true
	d.reapShader(shader)
}

func (d *fakeDevice) reapShader(shader uint32) {
	s, ok := d.shaders[shader]
	if ok && s.flagged && len(s.attachedTo) == 0 {
		delete(d.shaders, shader)
	}
}

func (d *fakeDevice) CreateProgram() uint32 {
	d.record("CreateProgram")
	h := d.handle("CreateProgram")
	if h == 0 {
		return 0
	}
	d.programs[h] = &fakeProgram{}
	return h
}

func (d *fakeDevice) AttachShader(program, shader uint32) {
	d.record("AttachShader")
	p, okP := d.programs[program]
	s, okS := d.shaders[shader]
	if !okP || !okS || s.flagged {
		d.raise(errInvalidValue)
		return
	}
	p.attached = append(p.attached, shader)
	s.attachedTo[program] = true
}

func (d *fakeDevice) DetachShader(program, shader uint32) {
	d.record("DetachShader")
	p, ok := d.programs[program]
	if !ok {
		d.raise(errInvalidValue)
		return
	}
	for i, h := range p.attached {
		if h == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			break
		}
	}
	if s, ok := d.shaders[shader]; ok {
		delete(s.attachedTo, program)
		d.reapShader(shader)
	}
}

func (d *fakeDevice) LinkProgram(program uint32) {
	d.record("LinkProgram")
	p, ok := d.programs[program]
	if !ok {
		d.raise(errInvalidValue)
		return
	}
	stages := map[gfx.Stage]bool{}
	for _, h := range p.attached {
		if s, ok := d.shaders[h]; ok && s.compiled {
			stages[s.stage] = true
		}
	}
	p.linked = d.linkLog == nil && stages[gfx.StageVertex] && stages[gfx.StageFragment]
}

func (d *fakeDevice) ProgramLinked(program uint32) bool {
	d.record("ProgramLinked")
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *fakeDevice) ProgramInfoLog(program uint32, limit int) string {
	d.record("ProgramInfoLog")
	p, ok := d.programs[program]
	if !ok || p.linked {
		return ""
	}
	log := "error: linking with uncompiled/unspecialized shader"
	if d.linkLog != nil {
		log = *d.linkLog
	}
	if len(log) > limit {
		log = log[:limit]
	}
	return log
}

func (d *fakeDevice) UseProgram(program uint32) {
	d.record("UseProgram")
	if program != 0 {
		if p, ok := d.programs[program]; !ok || !p.linked {
			d.raise(errInvalidOperation)
			return
		}
	}
	d.boundProgram = program
}

func (d *fakeDevice) DeleteProgram(program uint32) {
	d.record("DeleteProgram")
	p, ok := d.programs[program]
	if !ok {
		return
	}
	for _, h := range p.attached {
		if s, ok := d.shaders[h]; ok {
			delete(s.attachedTo, program)
			d.reapShader(h)
		}
	}
	delete(d.programs, program)
	if d.boundProgram == program {
		d.boundProgram = 0
	}
}

func (d *fakeDevice) GenVertexArray() uint32 {
	d.record("GenVertexArray")
	h := d.handle("GenVertexArray")
	if h != 0 {
		d.vaos[h] = &fakeVAO{}
	}
	return h
}

func (d *fakeDevice) BindVertexArray(vao uint32) {
	d.record("BindVertexArray")
	if vao != 0 {
		if _, ok := d.vaos[vao]; !ok {
			d.raise(errInvalidOperation)
			return
		}
	}
	d.boundVAO = vao
}

func (d *fakeDevice) DeleteVertexArray(vao uint32) {
	d.record("DeleteVertexArray")
	delete(d.vaos, vao)
	if d.boundVAO == vao {
		d.boundVAO = 0
	}
}

func (d *fakeDevice) GenBuffer() uint32 {
	d.record("GenBuffer")
	h := d.handle("GenBuffer")
	if h != 0 {
		d.buffers[h] = nil
	}
	return h
}

func (d *fakeDevice) BindBuffer(target gfx.BufferTarget, buffer uint32) {
	d.record("BindBuffer")
	if buffer != 0 {
		if _, ok := d.buffers[buffer]; !ok {
			d.raise(errInvalidValue)
			return
		}
	}
	switch target {
	case gfx.ArrayBuffer:
		d.boundArray = buffer
	case gfx.ElementArrayBuffer:
		vao, ok := d.vaos[d.boundVAO]
		if !ok {
			d.raise(errInvalidOperation)
			return
		}
		vao.elementBuf = buffer
	}
}

func (d *fakeDevice) BufferData(target gfx.BufferTarget, data any) {
	d.record("BufferData")
	var buffer uint32
	switch target {
	case gfx.ArrayBuffer:
		buffer = d.boundArray
	case gfx.ElementArrayBuffer:
		if vao, ok := d.vaos[d.boundVAO]; ok {
			buffer = vao.elementBuf
		}
	}
	if buffer == 0 {
		d.raise(errInvalidOperation)
		return
	}
	switch v := data.(type) {
	case []float32:
		d.buffers[buffer] = append([]float32(nil), v...)
	case []uint32:
		d.buffers[buffer] = append([]uint32(nil), v...)
	default:
		panic(fmt.Sprintf("unexpected buffer data %T", data))
	}
}

func (d *fakeDevice) DeleteBuffer(buffer uint32) {
	d.record("DeleteBuffer")
	delete(d.buffers, buffer)
	if d.boundArray == buffer {
		d.boundArray = 0
	}
}

func (d *fakeDevice) VertexAttribPointer(layout gfx.AttribLayout) {
	d.record("VertexAttribPointer")
	vao, ok := d.vaos[d.boundVAO]
	if !ok || d.boundArray == 0 {
		d.raise(errInvalidOperation)
		return
	}
	l := layout
	vao.layout = &l
	vao.layoutBuf = d.boundArray
}

func (d *fakeDevice) EnableVertexAttribArray(slot uint32) {
	d.record("EnableVertexAttribArray")
	vao, ok := d.vaos[d.boundVAO]
	if !ok {
		d.raise(errInvalidOperation)
		return
	}
	if vao.layout != nil && vao.layout.Slot == slot {
		vao.enabled = true
	}
}

func (d *fakeDevice) Viewport(x, y, width, height int32) {
	d.record("Viewport")
	d.viewport = [4]int32{x, y, width, height}
}

func (d *fakeDevice) ClearColor(r, g, b, a float32) {
	d.record("ClearColor")
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *fakeDevice) Clear() {
	d.record("Clear")
	for i := range d.pixels {
		d.pixels[i] = 0
	}
}

func (d *fakeDevice) DrawArrays(first, count int32) {
	d.record("DrawArrays")
	d.draws = append(d.draws, drawRecord{mode: gfx.DrawArrays, first: first, count: count})
	positions, ok := d.drawState()
	if !ok {
		return
	}
	if int(first+count) > len(positions) {
		d.raise(errInvalidOperation)
		return
	}
	d.rasterize(positions[first : first+count])
}

func (d *fakeDevice) DrawElements(count int32) {
	d.record("DrawElements")
	d.draws = append(d.draws, drawRecord{mode: gfx.DrawElements, count: count})
	positions, ok := d.drawState()
	if !ok {
		return
	}
	indices, _ := d.buffers[d.vaos[d.boundVAO].elementBuf].([]uint32)
	if int(count) > len(indices) {
		d.raise(errInvalidOperation)
		return
	}
	points := make([][2]float64, 0, count)
	for _, idx := range indices[:count] {
		points = append(points, positions[idx])
	}
	d.rasterize(points)
}

// drawState validates the bindings a draw reads and returns the positions
// fed through attribute slot 0.
func (d *fakeDevice) drawState() ([][2]float64, bool) {
	if _, ok := d.programs[d.boundProgram]; !ok {
		d.raise(errInvalidOperation)
		return nil, false
	}
	vao, ok := d.vaos[d.boundVAO]
	if !ok || !vao.enabled || vao.layout == nil {
		d.raise(errInvalidOperation)
		return nil, false
	}
	data, _ := d.buffers[vao.layoutBuf].([]float32)
	stride := int(vao.layout.Stride) / 4
	offset := vao.layout.Offset / 4
	var out [][2]float64
	for i := offset; i+1 < len(data); i += stride {
		out = append(out, [2]float64{float64(data[i]), float64(data[i+1])})
	}
	return out, true
}

func (d *fakeDevice) rasterize(points [][2]float64) {
	for t := 0; t+2 < len(points); t += 3 {
		a, b, c := points[t], points[t+1], points[t+2]
		for j := 0; j < gridSize; j++ {
			for i := 0; i < gridSize; i++ {
				if insideTriangle(a, b, c, pixelCentre(i, j)) {
					d.pixels[j*gridSize+i] = d.boundProgram
				}
			}
		}
	}
}

// Present snapshots the framebuffer, standing in for a swap.
func (d *fakeDevice) Present() {
	d.record("Present")
	d.frames = append(d.frames, append([]uint32(nil), d.pixels...))
}

func pixelCentre(i, j int) [2]float64 {
	return [2]float64{
		-1 + float64(2*i+1)/gridSize,
		-1 + float64(2*j+1)/gridSize,
	}
}

func edge(a, b, p [2]float64) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// insideTriangle includes points on edges, for either winding.
func insideTriangle(a, b, c, p [2]float64) bool {
	d1, d2, d3 := edge(a, b, p), edge(b, c, p), edge(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
