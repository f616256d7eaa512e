package repository

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrHoldExpired  = errors.New("hold expired")
	ErrHoldNotFound = errors.New("hold not found")
)
