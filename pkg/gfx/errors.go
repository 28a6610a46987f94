package gfx

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindSurfaceCreation ErrorKind = iota + 1
	KindContextInit
	KindBufferAllocation
	KindShaderCompile
	KindProgramLink
)

func (k ErrorKind) String() string {
	switch k {
	case KindSurfaceCreation:
		return "surface creation"
	case KindContextInit:
		return "context init"
	case KindBufferAllocation:
		return "buffer allocation"
	case KindShaderCompile:
		return "shader compile"
	case KindProgramLink:
		return "program link"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrInvalidVertexData = errors.New("vertex data must be a non-empty multiple of 3 floats")
	ErrIndexOutOfRange   = errors.New("index references a missing vertex")
)

// Error is the failure value returned by every core operation. Log carries
// the driver's diagnostic text for compile and link failures; Code carries
// the driver error flag for buffer failures.
type Error struct {
	Kind  ErrorKind
	Stage Stage
	Op    string
	Code  uint32
	Log   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindShaderCompile && e.Stage != 0 {
		msg = e.Stage.String() + " " + msg
	}
	if e.Op != "" {
		msg += " (" + e.Op + ")"
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(": gl error 0x%04X", e.Code)
	}
	if e.Log != "" {
		msg += ": " + e.Log
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
