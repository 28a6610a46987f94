package gfx

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Variant selects how the quad is drawn.
type Variant uint8

const (
	// VariantIndexed uploads an index buffer and draws both triangles.
	VariantIndexed Variant = iota + 1
	// VariantArrays uploads vertices only and draws the first three, which
	// covers the top-right/bottom-right/bottom-left triangle.
	VariantArrays
)

func (v Variant) String() string {
	switch v {
	case VariantIndexed:
		return "indexed"
	case VariantArrays:
		return "arrays"
	default:
		return "unknown"
	}
}

// ParseVariant maps "indexed" and "arrays" to their Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "indexed":
		return VariantIndexed, nil
	case "arrays":
		return VariantArrays, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

// Title is the window title the variant was first shipped with.
func (v Variant) Title() string {
	if v == VariantArrays {
		return "hello triangle"
	}
	return "Hello OpenGL"
}

// Fill is the variant's default fragment colour.
func (v Variant) Fill() mgl32.Vec4 {
	if v == VariantArrays {
		return mgl32.Vec4{1, 1, 0, 1}
	}
	return mgl32.Vec4{1, 0.5, 0.5, 1}
}

func (v Variant) mesh() Mesh {
	return QuadMesh(v == VariantIndexed)
}

func (v Variant) drawCall(g *Geometry) DrawCall {
	if v == VariantIndexed {
		return DrawCall{Mode: DrawElements, Count: g.IndexCount()}
	}
	return DrawCall{Mode: DrawArrays, Count: 3}
}

type PipelineConfig struct {
	Variant    Variant
	Width      int
	Height     int
	Fill       mgl32.Vec4
	ClearColor mgl32.Vec4
	// Shaders overrides the quad shaders when either source is set.
	Shaders ShaderSources
}

// Pipeline is the complete set of GPU objects for one quad.
type Pipeline struct {
	geometry *Geometry
	program  *Program
	renderer *Renderer
}

// NewPipeline uploads the variant's mesh, builds the shader program and
// prepares the renderer, in that order. A failing step stops the sequence
// and releases whatever the earlier steps created.
func NewPipeline(dev Device, conf PipelineConfig) (*Pipeline, error) {
	if conf.Variant == 0 {
		conf.Variant = VariantIndexed
	}
	if conf.Width > 0 && conf.Height > 0 {
		dev.Viewport(0, 0, int32(conf.Width), int32(conf.Height))
	}

	geometry, err := NewGeometry(dev, conf.Variant.mesh())
	if err != nil {
		return nil, fmt.Errorf("init buffers: %w", err)
	}

	sources := conf.Shaders
	if sources.Vertex == "" || sources.Fragment == "" {
		sources = QuadShaders(conf.Fill)
	}
	program, err := BuildProgram(dev, sources)
	if err != nil {
		geometry.Close()
		return nil, fmt.Errorf("init shaders: %w", err)
	}

	draw := conf.Variant.drawCall(geometry)
	Logger().Info("pipeline ready",
		slog.String("variant", conf.Variant.String()),
		slog.String("draw", draw.Mode.String()),
		slog.Int("count", int(draw.Count)),
	)
	return &Pipeline{
		geometry: geometry,
		program:  program,
		renderer: NewRenderer(dev, geometry, program, draw, conf.ClearColor),
	}, nil
}

func (p *Pipeline) Renderer() *Renderer { return p.renderer }
func (p *Pipeline) Geometry() *Geometry { return p.geometry }
func (p *Pipeline) Program() *Program   { return p.program }

// Render draws one frame and presents it.
func (p *Pipeline) Render(presenter Presenter) {
	p.renderer.Render(presenter)
}

func (p *Pipeline) Close() {
	if p == nil {
		return
	}
	p.program.Close()
	p.geometry.Close()
}
