package system

import "errors"

var (
	ErrStopped   = errors.New("system stopped")
	ErrPathInUse = errors.New("path already in use")
)
