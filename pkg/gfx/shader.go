package gfx

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// MaxInfoLog bounds the diagnostic text fetched from the driver.
const MaxInfoLog = 256

const noDiagnostic = "driver reported failure without a diagnostic log"

// Shader is a compiled, unlinked stage object.
type Shader struct {
	handle uint32
	stage  Stage
}

func (s Shader) Handle() uint32 { return s.handle }
func (s Shader) Stage() Stage   { return s.stage }

// Program is a linked pipeline object. A Program value is only produced
// when both stages compiled and the link succeeded.
type Program struct {
	dev    Device
	handle uint32
}

func (p *Program) Handle() uint32 {
	if p == nil {
		return 0
	}
	return p.handle
}

// Close deletes the program once.
func (p *Program) Close() {
	if p == nil || p.handle == 0 {
		return
	}
	p.dev.DeleteProgram(p.handle)
	p.handle = 0
}

type ShaderSources struct {
	Vertex   string
	Fragment string
}

// CompileShader creates a stage object, assigns source and compiles it. On
// failure the stage object is released and the driver log is returned in
// an *Error of kind KindShaderCompile.
func CompileShader(dev Device, stage Stage, source string) (Shader, error) {
	handle := dev.CreateShader(stage)
	if handle == 0 {
		return Shader{}, &Error{Kind: KindShaderCompile, Stage: stage, Op: "create", Code: dev.Error()}
	}
	dev.ShaderSource(handle, source)
	dev.CompileShader(handle)

	if !dev.ShaderCompiled(handle) {
		log := boundedLog(dev.ShaderInfoLog(handle, MaxInfoLog))
		dev.DeleteShader(handle)
		return Shader{}, &Error{Kind: KindShaderCompile, Stage: stage, Op: "compile", Log: log}
	}
	Logger().Debug("shader compiled", slog.String("stage", stage.String()), slog.Uint64("handle", uint64(handle)))
	return Shader{handle: handle, stage: stage}, nil
}

// LinkProgram links vs and fs into a program. Both stage objects are
// released before it returns, whatever the outcome. A missing stage, or a
// stage passed in the wrong position, fails before any program is created.
func LinkProgram(dev Device, vs, fs Shader) (*Program, error) {
	defer releaseStage(dev, fs)
	defer releaseStage(dev, vs)

	if vs.handle == 0 || fs.handle == 0 || vs.stage != StageVertex || fs.stage != StageFragment {
		return nil, &Error{Kind: KindProgramLink, Op: "validate",
			Log: "link needs a compiled vertex stage and a compiled fragment stage"}
	}

	program := dev.CreateProgram()
	if program == 0 {
		return nil, &Error{Kind: KindProgramLink, Op: "create", Code: dev.Error()}
	}
	dev.AttachShader(program, vs.handle)
	dev.AttachShader(program, fs.handle)
	dev.LinkProgram(program)

	if !dev.ProgramLinked(program) {
		log := boundedLog(dev.ProgramInfoLog(program, MaxInfoLog))
		dev.DeleteProgram(program)
		return nil, &Error{Kind: KindProgramLink, Op: "link", Log: log}
	}

	dev.DetachShader(program, vs.handle)
	dev.DetachShader(program, fs.handle)
	Logger().Debug("program linked", slog.Uint64("handle", uint64(program)))
	return &Program{dev: dev, handle: program}, nil
}

// BuildProgram compiles the vertex stage, then the fragment stage, and links
// them. The first compile failure aborts the build; link is never reached
// with a missing stage.
func BuildProgram(dev Device, src ShaderSources) (*Program, error) {
	vs, err := CompileShader(dev, StageVertex, src.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := CompileShader(dev, StageFragment, src.Fragment)
	if err != nil {
		releaseStage(dev, vs)
		return nil, err
	}
	return LinkProgram(dev, vs, fs)
}

func releaseStage(dev Device, s Shader) {
	if s.handle != 0 {
		dev.DeleteShader(s.handle)
	}
}

// boundedLog caps log at MaxInfoLog bytes and drops a trailing rune cut in
// half, either by the cap or by the driver's own buffer.
func boundedLog(log string) string {
	if len(log) > MaxInfoLog {
		log = log[:MaxInfoLog]
	}
	for i := len(log) - 1; i >= 0 && i >= len(log)-utf8.UTFMax; i-- {
		if utf8.RuneStart(log[i]) {
			if !utf8.FullRuneInString(log[i:]) {
				log = log[:i]
			}
			break
		}
	}
	log = strings.TrimRight(log, "\x00 \t\r\n")
	if log == "" {
		return noDiagnostic
	}
	return log
}
