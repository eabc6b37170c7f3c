package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound            = errors.New("not found")
	ErrNotImplemented      = errors.New("not implemented")
	ErrNoSteps             = errors.New("recipe has no steps")
	ErrWakeLockUnavailable = errors.New("stay-awake capability unavailable")
)
