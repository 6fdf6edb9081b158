// Package errors classifies service failures so the HTTP layer can pick a
// status code and a message that is safe to show to the caller.
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	// CategoryDataError: the request is malformed or carries invalid content.
	CategoryDataError Category = iota + 1
	// CategoryUnauthorized: the caller has no valid credentials.
	CategoryUnauthorized
	// CategoryForbidden: the caller is authenticated but not allowed.
	CategoryForbidden
	// CategoryResourceNotFound: the addressed resource does not exist.
	CategoryResourceNotFound
	// CategoryDataConflict: the request conflicts with the current state.
	CategoryDataConflict
	// CategoryDependencyFailure: a dependency such as the chain node failed.
	CategoryDependencyFailure
	// CategoryGeneralError: an unexpected failure; details are not exposed.
	CategoryGeneralError
	// CategoryRecovering: the service cannot act until an operator fixes its
	// configuration or funding.
	CategoryRecovering
)

var categories = map[Category]struct {
	name     string
	status   int
	fallback string
}{
	CategoryDataError:         {"CategoryDataError", http.StatusBadRequest, "bad request"},
	CategoryUnauthorized:      {"CategoryUnauthorized", http.StatusUnauthorized, "unauthorized"},
	CategoryForbidden:         {"CategoryForbidden", http.StatusForbidden, "request forbidden"},
	CategoryResourceNotFound:  {"CategoryResourceNotFound", http.StatusNotFound, "resource not found"},
	CategoryDataConflict:      {"CategoryDataConflict", http.StatusConflict, "conflict"},
	CategoryDependencyFailure: {"CategoryDependencyFailure", http.StatusBadGateway, "dependency failure"},
	CategoryGeneralError:      {"CategoryGeneralError", http.StatusInternalServerError, "internal server error"},
	CategoryRecovering:        {"CategoryRecovering", http.StatusServiceUnavailable, "service unavailable"},
}

func (c Category) String() string {
	if meta, ok := categories[c]; ok {
		return meta.name
	}
	return "CategoryGeneralError"
}

// ServiceError carries a category, a caller-facing message and the
// underlying cause, which is only ever logged.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is matches a target whose text equals the caller-facing message, so a
// ServiceError built from a sentinel still satisfies errors.Is for it.
func (err ServiceError) Is(target error) bool {
	return err.Message == target.Error()
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	if meta, ok := categories[err.Category]; ok {
		return meta.status
	}
	return http.StatusInternalServerError
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

func newError(cat Category, err error, message string) error {
	if err == nil {
		err = errors.New(categories[cat].fallback + ": " + message)
	}
	return &ServiceError{
		Category: cat,
		Message:  message,
		Err:      err,
	}
}

// GeneralError hides err behind "Internal Server Error"; err is only logged.
func GeneralError(err error) error {
	if err == nil {
		err = errors.New("internal server error")
	}
	return &ServiceError{
		Category: CategoryGeneralError,
		Message:  "Internal Server Error",
		Err:      err,
	}
}

// ResourceNotFoundError returns an error with category ResourceNotFound
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message)
}

// BadRequestError returns an error with category DataError
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message)
}

// ForbiddenError returns an error with category Forbidden
func ForbiddenError(err error, message string) error {
	return newError(CategoryForbidden, err, message)
}

// UnAuthorizedError returns an error with category Unauthorized
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message)
}

// ConflictError returns an error with category DataConflict
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, message)
}

// DependencyFailureError returns an error with category DependencyFailure
func DependencyFailureError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, message)
}

// RecoveringError returns an error with category Recovering
func RecoveringError(err error, message string) error {
	return newError(CategoryRecovering, err, message)
}
