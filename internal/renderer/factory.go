//go:build !js

package renderer

import (
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/kjkrol/glquad/pkg/gfx"
)

// NewDevice loads the OpenGL entry points for the context current on the
// calling thread and returns a device bound to it.
func NewDevice() (gfx.Device, error) {
	if err := gl.Init(); err != nil {
		return nil, &gfx.Error{Kind: gfx.KindContextInit, Op: "gl.Init", Err: err}
	}
	gfx.Logger().Info("opengl ready",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return glDevice{}, nil
}
