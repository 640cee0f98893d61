package domain

import "errors"

var (
	// ErrInvalidInput is returned when a yearly Nutri-Score record has no usable year
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation is returned when a serving count is not strictly positive
	ErrValidation = errors.New("validation failed")

	// ErrMalformedSelection is returned when a meal selection lacks a required category
	ErrMalformedSelection = errors.New("malformed meal selection")

	// ErrFoodNotAllowed is returned when a food is placed in a meal it is not served at
	ErrFoodNotAllowed = errors.New("food not allowed for meal")

	// ErrFoodNotFound is returned when a food is not in the catalog
	ErrFoodNotFound = errors.New("food not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
