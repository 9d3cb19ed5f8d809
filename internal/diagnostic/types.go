package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"extensible-data/internal/common"
)

// Diagnostics holds all diagnostic information from one check.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Subject names the type, pipeline or table the problem belongs to.
	Subject string
	// Key is the field, tag or component the problem is about (if any).
	Key string
	// Cause is the sentinel error the diagnostic stands for (if any).
	Cause error
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic caused by cause.
func (d *Diagnostics) AddError(cause error, code, subject, key, message string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Subject:  subject,
		Key:      key,
		Cause:    cause,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, subject, key, message string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Subject:  subject,
		Key:      key,
	})
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err returns a combined error from all error diagnostics, or nil if valid.
// The result matches every Cause with errors.Is.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	var parts []string

	var causes []error

	for _, e := range d.Errors {
		parts = append(parts, e.String())

		if e.Cause != nil {
			causes = append(causes, e.Cause)
		}
	}

	return &combined{msg: strings.Join(parts, "; "), causes: causes}
}

type combined struct {
	msg    string
	causes []error
}

func (c *combined) Error() string   { return c.msg }
func (c *combined) Unwrap() []error { return c.causes }

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}

	if d.Key != "" {
		prefix = append(prefix, d.Key)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Is lets a single Diagnostic be matched against its cause.
func (d Diagnostic) Is(target error) bool {
	return d.Cause != nil && errors.Is(d.Cause, target)
}
