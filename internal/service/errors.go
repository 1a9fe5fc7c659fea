package service

import "errors"

var (
	ErrNotFound         = errors.New("error not found")
	ErrInvalidStatement = errors.New("error invalid statement")
)
