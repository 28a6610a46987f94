package gfx

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const glslVersion = "#version 330 core"

//go:embed shaders/quad.vert
var quadVertexBody string

//go:embed shaders/quad.frag
var quadFragmentBody string

// QuadShaders returns the quad's vertex and fragment sources with the fill
// colour baked into the fragment stage.
func QuadShaders(fill mgl32.Vec4) ShaderSources {
	r, g, b, a := fill.Elem()
	fillDefine := fmt.Sprintf("#define FILL_COLOR vec4(%g, %g, %g, %g)", r, g, b, a)
	return ShaderSources{
		Vertex:   buildShaderSource(quadVertexBody),
		Fragment: buildShaderSource(quadFragmentBody, fillDefine),
	}
}

func buildShaderSource(body string, defines ...string) string {
	var sb strings.Builder
	sb.WriteString(glslVersion + "\n")
	for _, d := range defines {
		sb.WriteString(d + "\n")
	}
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}
