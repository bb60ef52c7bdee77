package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrLoadRunners = errors.New("load runners failed")
	ErrLoadCourse  = errors.New("load course failed")
)
