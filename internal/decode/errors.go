package decode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataSource marks failures to read the source file under any encoding.
var ErrDataSource = errors.New("data source error")

// Attempt records why one candidate encoding was rejected.
type Attempt struct {
	Encoding string
	Reason   string
}

// DataSourceError reports a file that is absent, unreadable, or not tabular
// under every attempted encoding.
type DataSourceError struct {
	Path     string
	Attempts []Attempt
	Err      error
}

func (e *DataSourceError) Error() string {
	var b strings.Builder
	b.WriteString(ErrDataSource.Error())
	if e.Path != "" {
		fmt.Fprintf(&b, ": %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Attempts) > 0 {
		parts := make([]string, 0, len(e.Attempts))
		for _, attempt := range e.Attempts {
			parts = append(parts, attempt.Encoding+" ("+attempt.Reason+")")
		}
		b.WriteString(": no usable encoding: ")
		b.WriteString(strings.Join(parts, "; "))
	}
	return b.String()
}

// Is reports ErrDataSource as the error's classification.
func (e *DataSourceError) Is(target error) bool {
	return target == ErrDataSource
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
