// Package errors provides custom error types for the rowform system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the rowform system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCatalogUnavailable indicates that the catalog backing source
	// could not be read at all
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrProfileInvalid indicates that a field profile failed validation
	ErrProfileInvalid = errors.New("profile invalid")

	// ErrBatchAborted indicates that a strict-mode batch stopped early
	ErrBatchAborted = errors.New("batch aborted")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrNotImplemented indicates that a feature is not yet implemented
	ErrNotImplemented = errors.New("not implemented")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceError represents an error from a catalog backing source
type SourceError struct {
	Source     string // Source ID as string
	Namespaces []string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if len(e.Namespaces) > 0 {
		return fmt.Sprintf("source error from %s (namespaces: %v): %s", e.Source, e.Namespaces, e.Message)
	}
	return fmt.Sprintf("source error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}

// NewSourceError creates a new SourceError
func NewSourceError(source string, namespaces []string, err error) *SourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &SourceError{
		Source:     source,
		Namespaces: namespaces,
		Message:    message,
		Err:        err,
	}
}

// ProfileError represents a field profile that cannot drive a batch
type ProfileError struct {
	Profile string
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ProfileError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("profile %s invalid at field %s: %s", e.Profile, e.Field, e.Message)
	}
	return fmt.Sprintf("profile %s invalid: %s", e.Profile, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ProfileError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ProfileError) Is(target error) bool {
	return target == ErrProfileInvalid
}

// NewProfileError creates a new ProfileError
func NewProfileError(profile, field, message string, err error) *ProfileError {
	return &ProfileError{
		Profile: profile,
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// BatchError represents a strict-mode batch run that stopped early
type BatchError struct {
	BatchID string
	Err     error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	if e.BatchID != "" {
		return fmt.Sprintf("batch %s aborted: %v", e.BatchID, e.Err)
	}
	return fmt.Sprintf("batch aborted: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *BatchError) Is(target error) bool {
	return target == ErrBatchAborted
}

// NewBatchError creates a new BatchError
func NewBatchError(batchID string, err error) *BatchError {
	return &BatchError{BatchID: batchID, Err: err}
}

// ItemError represents a failure processing a single batch item.
// The batch decides whether it is fatal: strict imports stop on the
// first ItemError, regular batches record it and continue.
type ItemError struct {
	Index  int
	LineID string
	Err    error
}

// Error implements the error interface
func (e *ItemError) Error() string {
	if e.LineID != "" {
		return fmt.Sprintf("item %d (line %s): %v", e.Index, e.LineID, e.Err)
	}
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ItemError) Unwrap() error {
	return e.Err
}

// NewItemError creates a new ItemError
func NewItemError(index int, lineID string, err error) *ItemError {
	return &ItemError{Index: index, LineID: lineID, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "template", etc.
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "delete", "fetch"
	Resource  string // "catalog", "namespace", "profile", "product"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsReadOnly checks if an error is a read-only rejection
func IsReadOnly(err error) bool {
	return errors.Is(err, ErrReadOnly)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCatalogUnavailable checks if an error means the backing source is down
func IsCatalogUnavailable(err error) bool {
	return errors.Is(err, ErrCatalogUnavailable)
}

// IsProfileInvalid checks if an error is a profile validation error
func IsProfileInvalid(err error) bool {
	return errors.Is(err, ErrProfileInvalid)
}

// IsBatchAborted checks if an error is a strict-mode abort
func IsBatchAborted(err error) bool {
	return errors.Is(err, ErrBatchAborted)
}

// IsItemError checks if an error is a per-item failure and returns it
func IsItemError(err error) (*ItemError, bool) {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSource wraps an error as a SourceError
func WrapSource(source string, namespaces []string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceError(source, namespaces, err)
}

// WrapItem wraps an error as an ItemError
func WrapItem(index int, lineID string, err error) error {
	if err == nil {
		return nil
	}
	return NewItemError(index, lineID, err)
}
