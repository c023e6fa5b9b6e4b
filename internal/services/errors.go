// internal/services/errors.go
package services

import (
	"errors"

	"github.com/Piyush5621/AnarchyBay/internal/repository"
)

var (
	ErrNotFound            = repository.ErrNotFound
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("already exists")
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrOrderCreation       = errors.New("failed to create payment order")
	ErrProviderDisabled    = errors.New("payment provider not configured")
	ErrChatDisabled        = errors.New("chat assistant not configured")
	ErrStorageDisabled     = errors.New("file storage not configured")
	ErrEmailDelivery       = errors.New("email delivery failed")
)

// NotFoundError names the missing resource; it matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ValidationError carries a user facing message; it matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// orNotFound turns a repository miss into a named NotFoundError.
func orNotFound(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(resource)
	}
	return err
}
