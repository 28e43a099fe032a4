package service

import "errors"

var (
	ErrInvalidCategoryName = errors.New("category name must be 1-30 characters")
	ErrLastCategory        = errors.New("at least one category must remain")
)
