package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrLoginRequired      = errors.New("authentication required")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("please enter a correct username and password")
	ErrInvalidSession     = errors.New("invalid or expired session")
)
