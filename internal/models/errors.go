package models

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrIncidentAlreadyOpen is returned when the store refuses a second open
	// incident for the same site.
	ErrIncidentAlreadyOpen = errors.New("site already has an open incident")
)
