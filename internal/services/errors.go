package services

import "errors"

// ===== COMMON SERVICE ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")

	// Bank specific errors
	ErrInvalidLevel  = errors.New("unknown qualification level")
	ErrTopicNotFound = errors.New("topic not found for level")

	// Session specific errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFinished = errors.New("session is already finished")
	ErrAlreadyAnswered = errors.New("question already answered - first answer is final")
	ErrNotAnswered     = errors.New("current question has not been answered")
	ErrInvalidOption   = errors.New("selected option index out of range")
	ErrEmptySession    = errors.New("session has no questions")
)
