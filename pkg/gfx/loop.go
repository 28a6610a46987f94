package gfx

import (
	"log/slog"
	"runtime"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
)

// Surface is the window side of the frame loop.
type Surface interface {
	Presenter
	PollEvents()
	ShouldClose() bool
	SetShouldClose(bool)
	IsKeyPressed(Key) bool
}

// FrameFunc renders and presents one frame.
type FrameFunc func(Presenter)

// Run drives the frame loop on the calling OS thread until the surface asks
// to close. Escape requests a close; the frame in which it was seen is still
// rendered. Run returns the number of frames presented.
func Run(surface Surface, frame FrameFunc) int {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	frames := 0
	for !surface.ShouldClose() {
		handleInput(surface)
		frame(surface)
		frames++
		surface.PollEvents()
	}
	Logger().Info("frame loop finished", slog.Int("frames", frames))
	return frames
}

func handleInput(surface Surface) {
	if surface.IsKeyPressed(KeyEscape) {
		surface.SetShouldClose(true)
	}
}
