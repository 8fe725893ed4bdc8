package domain

import (
	"errors"
	"fmt"
)

// ErrPostNotFound is returned by repositories when no post has the
// requested slug.
var ErrPostNotFound = errors.New("post not found")

// ConfigurationError indicates invalid site or feed configuration, such as
// a missing or malformed site URL. It is not recoverable within a request.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// DataError indicates a post record that violates a required-field
// invariant. A DataError fails the whole feed build rather than dropping
// the offending post, since a partial feed would misrepresent recency.
type DataError struct {
	Slug   string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error: post %q: %s", e.Slug, e.Reason)
}
