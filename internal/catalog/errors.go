package catalog

import "fmt"

// ContentDataError reports a content file that could not be read, parsed or validated
type ContentDataError struct {
	Path string
	Err  error
}

func (e *ContentDataError) Error() string {
	return fmt.Sprintf("content data %s: %v", e.Path, e.Err)
}

func (e *ContentDataError) Unwrap() error {
	return e.Err
}
