package platform

import "errors"

var ErrSurfaceCreation = errors.New("surface creation failed")

type WindowConfig struct {
	Width  int
	Height int
	Title  string
	// SwapInterval is the number of screen refreshes to wait per Present.
	SwapInterval int
}
