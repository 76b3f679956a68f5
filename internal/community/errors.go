package community

import "errors"

var (
	ErrValidation         = errors.New("community: validation failed")
	ErrNotFound           = errors.New("community: resource not found")
	ErrConflict           = errors.New("community: resource already exists")
	ErrForbidden          = errors.New("community: not allowed")
	ErrInvalidCredentials = errors.New("community: invalid credentials")
	ErrInternal           = errors.New("community: internal failure")
)
