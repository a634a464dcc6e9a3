package services

import "errors"

// Common errors
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrDuplicateAssignment = errors.New("active assignment already exists for this task, user and role")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrValidation          = errors.New("validation error")
	ErrInternal            = errors.New("internal server error")
)
