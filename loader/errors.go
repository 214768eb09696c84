package loader

import (
	"errors"
	"fmt"
	"io"
)

type ErrorCollector struct {
	// Errors for this load
	Errors []error

	// Max errors kept; 0 => no limit
	MaxErrors int
}

func (f *ErrorCollector) HasErrors() bool {
	return len(f.Errors) > 0
}

func (f *ErrorCollector) PrintErrors(w io.Writer) {
	for _, err := range f.Errors {
		fmt.Fprintln(w, err)
	}
}

// AddErrors records errors and reports whether there is room for more.
func (f *ErrorCollector) AddErrors(errs ...error) bool {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if f.MaxErrors > 0 && len(f.Errors) >= f.MaxErrors {
			return false
		}
		f.Errors = append(f.Errors, err)
	}
	return f.MaxErrors == 0 || len(f.Errors) < f.MaxErrors
}

// Err joins the collected errors, or returns nil.
func (f *ErrorCollector) Err() error {
	return errors.Join(f.Errors...)
}
