package analytics

import "fmt"

// TimestampError reports a timestamp on a ticket that could not be parsed.
type TimestampError struct {
	IssueKey string
	Field    string
	Value    string
	Err      error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("issue %s: malformed %s timestamp %q: %v", e.IssueKey, e.Field, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}
