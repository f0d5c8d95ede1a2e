package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout gridview
var (
	ErrUnsupportedFormat = errors.New("unsupported data format")
	ErrNotConnected      = errors.New("not connected to database")
	ErrNoQuery           = errors.New("no query given")
	ErrUnknownConfigKey  = errors.New("unknown config key")
)

// GridError is a structured error with context and suggestions
type GridError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *GridError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.Err)
	}
	return e.Title
}

func (e *GridError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *GridError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}
	if e.Err != nil && e.Message == "" {
		sb.WriteString(fmt.Sprintf("\n  %v\n", e.Err))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new GridError
func NewError(title string) *GridError {
	return &GridError{Title: title}
}

// WithMessage adds a detailed message
func (e *GridError) WithMessage(msg string) *GridError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *GridError) WithContext(ctx string) *GridError {
	e.Context = ctx
	return e
}

// WithCauses adds possible causes
func (e *GridError) WithCauses(causes ...string) *GridError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestions adds actionable suggestions
func (e *GridError) WithSuggestions(sugs ...string) *GridError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *GridError) Wrap(err error) *GridError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// UnsupportedFormatError is returned when a file's format cannot be detected.
func UnsupportedFormatError(path string) *GridError {
	return NewError("Unsupported data format").
		WithContext(path).
		WithMessage("gridview reads .json, .yaml, .yml, .csv and .tsv files").
		WithSuggestions(
			"gridview view --format csv data.txt   # Force a format",
		).
		Wrap(ErrUnsupportedFormat)
}

// ReadDataError wraps a failure to load or decode rows.
func ReadDataError(path string, err error) *GridError {
	return NewError("Cannot read data").
		WithContext(path).
		WithCauses(
			"The file does not exist or is not readable",
			"The file is not a list of records",
		).
		Wrap(err)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *GridError {
	return NewError("Cannot connect to database").
		WithContext(RedactURL(url)).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"gridview sql --url postgres://user@host/db \"select 1\"",
		).
		Wrap(err)
}

// InvalidFilterError reports a filter expression that did not parse.
func InvalidFilterError(expr string, err error) *GridError {
	return NewError("Invalid filter").
		WithContext(expr).
		WithMessage(err.Error()).
		WithSuggestions(
			`gridview view data.json --filter 'age > 25 and name ~ "bo"'`,
		).
		Wrap(err)
}

// InvalidSortError reports a malformed --sort value.
func InvalidSortError(value string, err error) *GridError {
	return NewError("Invalid sort").
		WithContext(value).
		WithSuggestions("gridview view data.json --sort age:desc").
		Wrap(err)
}

// UnknownColumnError reports a column name that matches no column.
func UnknownColumnError(name string, available []string) *GridError {
	return NewError(fmt.Sprintf("Unknown column '%s'", name)).
		WithMessage("Available columns: " + strings.Join(available, ", "))
}

// ConfigKeyError reports an unknown configuration key.
func ConfigKeyError(key string) *GridError {
	return NewError(fmt.Sprintf("Unknown config key '%s'", key)).
		WithSuggestions("gridview config --list   # Show all keys").
		Wrap(ErrUnknownConfigKey)
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *GridError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestions(example)
	}
	return e
}

// TooManyArgumentsError returns an error for too many arguments
func TooManyArgumentsError(expected int, got int) *GridError {
	return NewError(fmt.Sprintf("Too many arguments: expected %d, got %d", expected, got))
}

// RedactURL hides the password of a connection URL.
func RedactURL(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return url
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return url
	}
	return scheme + "://" + user + ":***@" + host
}
