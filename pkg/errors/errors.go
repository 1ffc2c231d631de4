// Package errors provides structured error types for the Layercake core
// engine.
//
// This package defines the taxonomy described in spec §7: every error
// surfaced by the graph model, transform algebra, filter compiler, merge
// resolver, Plan DAG validator, executor, or renderer carries a machine
// readable Kind and Code plus a human message, and can be compared with
// [Is] or unwrapped with the standard errors package.
//
// # Usage
//
//	err := errors.New(errors.KindIntegrity, errors.CodeDuplicateNodeID, "merge", "duplicate node id %q", id)
//	if errors.Is(err, errors.CodeDuplicateNodeID) {
//	    // handle
//	}
package errors

import (
	"errors"
	"fmt"
)

// Kind is the broad error taxonomy from spec §7.
type Kind string

// Error kinds.
const (
	KindValidation   Kind = "VALIDATION"
	KindIntegrity    Kind = "INTEGRITY"
	KindUpstream     Kind = "UPSTREAM_MISSING"
	KindRendering    Kind = "RENDERING"
	KindRepository   Kind = "REPOSITORY"
	KindCancellation Kind = "CANCELLATION"
	KindTimeout      Kind = "TIMEOUT"
)

// Code is a machine-readable error code, namespaced by Kind.
type Code string

// Error codes for each kind.
const (
	CodeInvalidTransformParam Code = "Validation/InvalidTransformParam"
	CodeInvalidRuleGroup      Code = "Validation/InvalidRuleGroup"
	CodeCyclicPlan            Code = "Validation/CyclicPlan"
	CodeInvalidUpstreamCount  Code = "Validation/UpstreamCount"
	CodeUnknownEdgeEndpoint   Code = "Validation/UnknownEdgeEndpoint"

	CodeDuplicateNodeID     Code = "Integrity/DuplicateNodeId"
	CodeDuplicateEdgeID     Code = "Integrity/DuplicateEdgeId"
	CodeDanglingEdge        Code = "Integrity/DanglingEdge"
	CodeOrphanedPartition   Code = "Integrity/OrphanedPartition"
	CodeCyclicHierarchy     Code = "Integrity/CyclicHierarchy"
	CodeNonPartitionParent  Code = "Integrity/NonPartitionParent"
	CodeEdgeEndpointMissing Code = "Integrity/EdgeEndpointMissing"
	CodeInvalidWeight       Code = "Integrity/InvalidWeight"

	CodeUpstreamNotComputed Code = "UpstreamMissing/NotComputed"
	CodeUpstreamFailed      Code = "UpstreamMissing/Failed"

	CodeUnsupportedFormat Code = "Rendering/UnsupportedFormat"
	CodeTemplateFailure   Code = "Rendering/TemplateFailure"
	CodeExporterFailure   Code = "Rendering/ExporterFailure"

	CodeRepositoryLoad   Code = "Repository/Load"
	CodeRepositoryStore  Code = "Repository/Store"
	CodeRepositorySelect Code = "Repository/Select"

	CodeCancelled Code = "Cancellation/Cancelled"
	CodeTimedOut  Code = "Timeout/Exceeded"
)

// Error is a structured error carrying the §7 payload shape
// {kind, where, message, details}.
type Error struct {
	Kind    Kind
	Code    Code
	Where   string // e.g. a DAG node id, transform name, or rule-group path
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Where != "" {
		prefix = fmt.Sprintf("%s[%s]", e.Code, e.Where)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Cause }

// WithDetails attaches structured details and returns the same error for
// chaining at the call site.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// New creates a new Error with the given kind, code, location, and message.
func New(kind Kind, code Code, where, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Where: where, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing cause.
func Wrap(kind Kind, code Code, where string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Where: where, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err has the given error code, unwrapping as needed.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// KindOf extracts the Kind from err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// List aggregates validation errors and warnings so callers (e.g.
// validate_plan_dag) can surface the full set instead of failing fast,
// per §7's propagation policy.
type List struct {
	Errors   []*Error
	Warnings []*Error
}

// Add appends an error to the list.
func (l *List) Add(err *Error) { l.Errors = append(l.Errors, err) }

// AddWarning appends a warning to the list.
func (l *List) AddWarning(err *Error) { l.Warnings = append(l.Warnings, err) }

// OK reports whether the list has no errors (warnings do not block).
func (l *List) OK() bool { return len(l.Errors) == 0 }

// Error implements the error interface, joining all error messages.
func (l *List) Error() string {
	if len(l.Errors) == 0 {
		return ""
	}
	msg := fmt.Sprintf("%d validation error(s):", len(l.Errors))
	for _, e := range l.Errors {
		msg += "\n  - " + e.Error()
	}
	return msg
}
