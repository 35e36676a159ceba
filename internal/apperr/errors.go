// Package apperr holds sentinel errors shared by the note store and session.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("invalid note name")
)
