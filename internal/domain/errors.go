package domain

import "errors"

// ErrPathNotFound is returned when the project path (or its tests folder)
// passed to a command does not exist. Commands report it once and stop
// before any filesystem side effects.
var ErrPathNotFound = errors.New("path does not exist")
