package queck

import (
	"errors"
	"fmt"
)

// SchemaError reports invalid quiz structure. Path locates the failing
// value, e.g. "questions[2].answer".
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// prefixPath wraps err as a SchemaError rooted at prefix, extending the
// path of an existing SchemaError.
func prefixPath(err error, prefix string) error {
	var se *SchemaError
	if errors.As(err, &se) {
		path := prefix
		if se.Path != "" {
			path = prefix + "." + se.Path
		}
		return &SchemaError{Path: path, Err: se.Err}
	}
	return &SchemaError{Path: prefix, Err: err}
}
