package scraper

import (
	"errors"
	"fmt"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrNoHeader      = errors.New("table has no header row")
	ErrNoGames       = errors.New("no game summaries found")
)

// NetworkError is returned when a page could not be fetched: the connection
// failed, the request timed out or the server answered with a non-success status.
type NetworkError struct {
	URL string
	// StatusCode is zero when no response was received.
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %q: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %q: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the fetched page does not contain the expected
// structure. Row is the 1-based index of the offending row, 0 when the error
// concerns the document as a whole.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("parse row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError is returned when the output file cannot be written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
