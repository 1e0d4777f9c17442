package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError reports a descriptor that does not have the expected shape.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "invalid descriptor: " + e.Reason
	}
	return fmt.Sprintf("invalid descriptor: %s: %s", e.Field, e.Reason)
}

// UnknownProfileError reports an extension tag with no registered profile.
type UnknownProfileError struct {
	Tag   string
	Known []string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown extension %q (available: %s)", e.Tag, strings.Join(e.Known, ", "))
}

// ConflictKind classifies a collision between user and injected content.
type ConflictKind string

const (
	ConflictOptionRedefined      ConflictKind = "option-redefined"
	ConflictIntegrationRedefined ConflictKind = "integration-redefined"
	ConflictDuplicateEndpoint    ConflictKind = "duplicate-endpoint"
	ConflictRootKey              ConflictKind = "root-key"
	ConflictServiceRole          ConflictKind = "service-role"
	ConflictEnvironment          ConflictKind = "environment-collision"
)

// Conflict is one collision, naming the colliding key.
type Conflict struct {
	Kind    ConflictKind
	Name    string
	Detail  string
	Sources []string
}

func (c *Conflict) Error() string {
	msg := fmt.Sprintf("%s conflict on %q: %s", c.Kind, c.Name, c.Detail)
	if len(c.Sources) > 0 {
		msg += " [" + strings.Join(c.Sources, ", ") + "]"
	}
	return msg
}

// ConflictError aggregates every conflict found in one expansion.
type ConflictError struct {
	Conflicts []*Conflict
}

func (e *ConflictError) Error() string {
	lines := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		lines[i] = "  - " + c.Error()
	}
	return fmt.Sprintf("%d conflict(s):\n%s", len(e.Conflicts), strings.Join(lines, "\n"))
}

// Unwrap exposes the individual conflicts to errors.As and errors.Is.
func (e *ConflictError) Unwrap() []error {
	errs := make([]error, len(e.Conflicts))
	for i, c := range e.Conflicts {
		errs[i] = c
	}
	return errs
}

// Names returns the colliding names in report order.
func (e *ConflictError) Names() []string {
	names := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		names[i] = c.Name
	}
	return names
}

// InvalidSecretReferenceError reports a secret option whose default is not
// a "secret:<id>" reference.
type InvalidSecretReferenceError struct {
	Option string
	Value  string
}

func (e *InvalidSecretReferenceError) Error() string {
	return fmt.Sprintf("option %q: default %q is not a valid secret reference (expected secret:<id>)", e.Option, e.Value)
}

// OversizeError reports a descriptor beyond the bounded-work guard.
type OversizeError struct {
	What   string
	Limit  int
	Actual int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("descriptor too large: %d %s exceeds limit of %d", e.Actual, e.What, e.Limit)
}

// Problems flattens err into the individual problems it reports. Joined
// errors and ConflictError are expanded, including when wrapped with %w;
// anything else is returned as is.
func Problems(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range multi.Unwrap() {
			out = append(out, Problems(e)...)
		}
		return out
	}
	if inner := errors.Unwrap(err); inner != nil {
		if sub := Problems(inner); len(sub) > 1 {
			return sub
		}
	}
	return []error{err}
}
