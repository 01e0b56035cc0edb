package shaders

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fosdem/glexperiment/lib/metrics"
	"github.com/go-gl/gl/v3.3-core/gl"
)

type Stage uint32

const (
	Vertex   Stage = gl.VERTEX_SHADER
	Fragment Stage = gl.FRAGMENT_SHADER
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%#x)", uint32(s))
	}
}

type Shader struct {
	ID    uint32
	Stage Stage
}

func (s Shader) Delete() {
	gl.DeleteShader(s.ID)
}

type Program struct {
	ID uint32
}

func (p Program) Use() {
	gl.UseProgram(p.ID)
}

func (p Program) Delete() {
	gl.DeleteProgram(p.ID)
}

// Valid is false for the zero Program, which is what you get back when
// a build was aborted.
func (p Program) Valid() bool {
	return p.ID != 0
}

type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader failed to compile:\n%s", e.Stage, e.Log)
}

type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program failed to link:\n%s", e.Log)
}

// CompileShader compiles source for the given stage. The shader handle is
// returned even when compilation fails.
func CompileShader(source string, stage Stage) (Shader, error) {
	shader := Shader{ID: gl.CreateShader(uint32(stage)), Stage: stage}

	csources, free := gl.Strs(source)
	size := int32(len(source))
	gl.ShaderSource(shader.ID, 1, csources, &size)
	free()
	gl.CompileShader(shader.ID)

	var status int32
	gl.GetShaderiv(shader.ID, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader.ID, gl.INFO_LOG_LENGTH, &logLength)

		return shader, &CompileError{Stage: stage, Log: readInfoLog(logLength, func(buf *uint8) {
			gl.GetShaderInfoLog(shader.ID, logLength, nil, buf)
		})}
	}

	return shader, nil
}

// LinkProgram links vs and fs into a new program. Both shaders are deleted
// afterwards, whether or not linking succeeded.
func LinkProgram(vs, fs Shader) (Program, error) {
	program := Program{ID: gl.CreateProgram()}

	gl.AttachShader(program.ID, vs.ID)
	gl.AttachShader(program.ID, fs.ID)
	gl.LinkProgram(program.ID)

	vs.Delete()
	fs.Delete()

	var status int32
	gl.GetProgramiv(program.ID, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program.ID, gl.INFO_LOG_LENGTH, &logLength)

		return program, &LinkError{Log: readInfoLog(logLength, func(buf *uint8) {
			gl.GetProgramInfoLog(program.ID, logLength, nil, buf)
		})}
	}

	return program, nil
}

// BuildProgram compiles and links a vertex/fragment pair. Every failure is
// logged. With strict unset the build carries on past compile failures and
// the returned program may be unusable; the joined error still reports
// everything that went wrong.
func BuildProgram(vertexSource, fragmentSource string, strict bool) (Program, error) {
	var errs []error

	vs, err := CompileShader(vertexSource, Vertex)
	if err != nil {
		reportFailure(Vertex.String(), err)
		if strict {
			vs.Delete()
			return Program{}, err
		}
		errs = append(errs, err)
	}

	fs, err := CompileShader(fragmentSource, Fragment)
	if err != nil {
		reportFailure(Fragment.String(), err)
		if strict {
			vs.Delete()
			fs.Delete()
			return Program{}, errors.Join(append(errs, err)...)
		}
		errs = append(errs, err)
	}

	program, err := LinkProgram(vs, fs)
	if err != nil {
		reportFailure("program", err)
		if strict {
			program.Delete()
			return Program{}, err
		}
		errs = append(errs, err)
	}

	return program, errors.Join(errs...)
}

func reportFailure(stage string, err error) {
	metrics.ShaderFailures.WithLabelValues(stage).Inc()
	slog.Error("shader build failed", slog.String("module", "shaders"), slog.String("stage", stage), slog.Any("err", err))
}

func readInfoLog(length int32, read func(buf *uint8)) string {
	if length <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, length)
	read(&buf[0])
	return string(bytes.TrimRight(buf, "\x00"))
}
