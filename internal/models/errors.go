package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")

	// ErrDependency marks a failed call to the language-model service.
	ErrDependency = errors.New("language model dependency failed")
	// ErrExtraction marks a model reply that could not be interpreted as a
	// structured intent. Callers downgrade to general chat, never surface it.
	ErrExtraction = errors.New("intent extraction failed")
)
