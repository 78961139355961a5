package fields

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFieldType is returned when a tag has no registered descriptor.
	ErrUnknownFieldType = errors.New("fields: unknown field type")
	// ErrDuplicateFieldType is returned when registering a tag twice.
	ErrDuplicateFieldType = errors.New("fields: duplicate field type")
	// ErrInvalidConfiguration is the sentinel wrapped by ConfigError.
	ErrInvalidConfiguration = errors.New("fields: invalid configuration")
	// ErrReadOnlyEditor is returned by Editor.Commit when no Apply callback
	// was supplied.
	ErrReadOnlyEditor = errors.New("fields: property editor has no apply callback")
)

// Issue is one rejected configuration property.
type Issue struct {
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
}

// ConfigError lists the properties of a configuration that failed its
// descriptor's schema. It matches ErrInvalidConfiguration with errors.Is.
type ConfigError struct {
	Type   Type
	Issues []Issue
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ErrInvalidConfiguration.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Property == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Property+" "+issue.Message)
	}
	return fmt.Sprintf("%s for %q: %s", ErrInvalidConfiguration, e.Type, strings.Join(parts, "; "))
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IssuesFor returns the messages attached to one property.
func (e *ConfigError) IssuesFor(property string) []string {
	if e == nil {
		return nil
	}
	var out []string
	for _, issue := range e.Issues {
		if issue.Property == property {
			out = append(out, issue.Message)
		}
	}
	return out
}
