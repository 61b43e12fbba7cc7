package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema marks loads whose headers cannot supply the mandatory fields.
var ErrSchema = errors.New("schema error")

// SchemaError names every unmatched mandatory field and the observed headers.
type SchemaError struct {
	Missing []Field
	Headers []string
}

func (e *SchemaError) Error() string {
	missing := make([]string, 0, len(e.Missing))
	for _, f := range e.Missing {
		missing = append(missing, string(f))
	}
	quoted := make([]string, 0, len(e.Headers))
	for _, h := range e.Headers {
		quoted = append(quoted, fmt.Sprintf("%q", h))
	}
	return fmt.Sprintf("%s: no header matches mandatory field(s) %s; available headers: [%s]",
		ErrSchema, strings.Join(missing, ", "), strings.Join(quoted, ", "))
}

// Is reports ErrSchema as the error's classification.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
