package domain

import "errors"

var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidAction = errors.New(`action must be either "like" or "dislike"`)
	ErrInvalidID     = errors.New("invalid video id")

	// Compression errors are file-scoped: the orchestrator records them on the
	// file's result and moves on to the next file.
	ErrProbe         = errors.New("probe failed")
	ErrEncode        = errors.New("encode failed")
	ErrNoImprovement = errors.New("compressed output is not smaller than the original")
)
