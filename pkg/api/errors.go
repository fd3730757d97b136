package api

import "errors"

var (
	// ErrInvalidBody is returned for requests whose JSON body cannot be decoded.
	ErrInvalidBody = errors.New("api: invalid request body")
	// ErrCheckInProgress is reported when a manual check overlaps a running pass.
	ErrCheckInProgress = errors.New("api: inventory check already in progress")
)
