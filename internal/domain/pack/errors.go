package pack

import "errors"

var (
	ErrPackNotFound = errors.New("pack not found")
	ErrPackInactive = errors.New("pack is not for sale")
)
