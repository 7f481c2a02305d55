package models

import "errors"

var (
	// ErrQuestionNotFound is returned when no question exists for a day.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrMissingInput is returned when day or answer is absent or empty.
	ErrMissingInput = errors.New("day and answer are required")
	// ErrCorruptQuestion is returned when a stored question has no canonical
	// answer. This is a catalog defect, not a wrong answer.
	ErrCorruptQuestion = errors.New("question record is missing its answer")
	// ErrInvalidCredentials is returned on failed admin login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
