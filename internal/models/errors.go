package models

import "errors"

var (
	ErrInvalidCard  = errors.New("invalid card")
	ErrInvalidColor = errors.New("invalid color")
)
