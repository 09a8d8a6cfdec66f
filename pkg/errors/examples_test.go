package errors_test

import (
	"fmt"

	"github.com/rowform/rowform/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	// Create a not found error
	err := &errors.NotFoundError{
		Resource: "namespace",
		ID:       "finish",
	}

	// Check error type
	if errors.IsNotFound(err) {
		fmt.Println("Resource not found")
	}

	// Output: Resource not found
}

// Example_sourceError demonstrates backing source error handling.
func Example_sourceError() {
	// Simulate a catalog source failure
	err := &errors.SourceError{
		Source:     "postgres",
		Namespaces: []string{"color"},
		Message:    "connection refused",
	}

	// Batch-level failures are the only errors that abort a run
	if errors.IsCatalogUnavailable(err) {
		fmt.Println("Catalog unavailable - batch cannot start")
	}

	// Output: Catalog unavailable - batch cannot start
}

// Example_validationError shows input validation errors.
func Example_validationError() {
	// Validate input
	template := ""
	if template == "" {
		err := &errors.ValidationError{
			Field:   "template",
			Value:   template,
			Message: "computed template field requires a template",
		}
		fmt.Println(err.Error())
	}

	// Output: validation failed for field template: computed template field requires a template
}

// Example_itemError demonstrates per-item failure handling.
func Example_itemError() {
	// An item failure carries its batch position and line id
	err := errors.NewItemError(3, "li-8f2", errors.New("value coercion panicked"))

	if ie, ok := errors.IsItemError(err); ok {
		fmt.Printf("item %d failed, batch continues\n", ie.Index)
	}

	// Output: item 3 failed, batch continues
}

// Example_errorWrapping demonstrates error wrapping patterns.
func Example_errorWrapping() {
	// Original error
	originalErr := fmt.Errorf("connection refused")

	// Wrap with IO error
	ioErr := errors.WrapIO("connect", "db.internal:5432", originalErr)

	// Wrap with source error
	srcErr := errors.WrapSource("postgres", []string{"color", "material"}, ioErr)

	if errors.IsCatalogUnavailable(srcErr) {
		fmt.Println("source error occurred")
	}

	// Output: source error occurred
}

// Example_errorChaining shows chained error handling.
func Example_errorChaining() {
	// Create a chain of errors
	baseErr := &errors.NotFoundError{
		Resource: "file",
		ID:       "profile.yaml",
	}

	parseErr := &errors.ParseError{
		Format:  "yaml",
		File:    "profile.yaml",
		Message: "failed to load profile",
		Err:     baseErr,
	}

	// Check through the chain using standard library
	if parseErr.Err != nil {
		if _, ok := parseErr.Err.(*errors.NotFoundError); ok {
			fmt.Println("File not found in parse chain")
		}
	}

	// Output: File not found in parse chain
}
