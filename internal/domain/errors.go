package domain

import "errors"

var (
	// ErrNoCategories signals a reload that registered zero categories.
	ErrNoCategories = errors.New("no categories loaded")
	// ErrUnknownCategory signals a lookup for a category that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrEmptySelection signals that sampling produced no entries.
	ErrEmptySelection = errors.New("no loras selected")
)
