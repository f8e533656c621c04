// Package must turns errors that cannot happen at runtime into panics.
// It is meant for start-up wiring such as compiling embedded schemas.
package must

import "fmt"

// OK panics if err is not nil.
func OK(err error) {
	if err != nil {
		panic(fmt.Errorf("must: %w", err))
	}
}

// Any returns v, or panics if err is not nil.
func Any[T any](v T, err error) T {
	OK(err)

	return v
}
