package errors_test

import (
	"fmt"
	"os"

	"github.com/ajitpratap0/datagen/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeConfig, "record count must not be negative").
		WithDetail("count", -1)

	fmt.Println(err.Error())

	// Output:
	// config: record count must not be negative
}

// ExampleWrap shows how sink failures are wrapped.
func ExampleWrap() {
	_, openErr := os.Open("/nonexistent/large-records.csv")

	err := errors.Wrap(openErr, errors.ErrorTypeIO, "failed to open sink").
		WithDetail("path", "/nonexistent/large-records.csv")

	if errors.IsType(err, errors.ErrorTypeIO) {
		fmt.Println("sink error")
	}
	if errors.Is(err, os.ErrNotExist) {
		fmt.Println("destination missing")
	}

	// Output:
	// sink error
	// destination missing
}

// ExampleIsRetryable shows which error types are retryable.
func ExampleIsRetryable() {
	connErr := errors.New(errors.ErrorTypeConnection, "broker unreachable")
	ioErr := errors.New(errors.ErrorTypeIO, "disk full")

	fmt.Println(errors.IsRetryable(connErr))
	fmt.Println(errors.IsRetryable(ioErr))

	// Output:
	// true
	// false
}
