package referrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/refinline/internal/jsonvalue"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrLoad indicates a document could not be loaded.
	ErrLoad = errors.New("load failure")

	// ErrDecode indicates no decoder accepted a document's bytes.
	ErrDecode = errors.New("decode failure")

	// ErrReference indicates a $ref could not be substituted.
	ErrReference = errors.New("reference error")

	// ErrRefMustBeString indicates a $ref value that is not a string.
	ErrRefMustBeString = errors.New("$ref must be a string")

	// ErrRefTargetMustBeObject indicates a $ref target that is not an object.
	ErrRefTargetMustBeObject = errors.New("$ref target must be an object")

	// ErrKeyNotFound indicates an in-document path named a missing key.
	ErrKeyNotFound = errors.New("key not found in target")

	// ErrNotAnObject indicates an in-document path stepped into a non-object.
	ErrNotAnObject = errors.New("path segment is not an object")

	// ErrTooManyFragments indicates a $ref with more than one '#'.
	ErrTooManyFragments = errors.New("too many fragment separators")

	// ErrURLCannotBeRebased indicates a base URL that cannot anchor a relative reference.
	ErrURLCannotBeRebased = errors.New("url cannot be rebased")

	// ErrPathJoin indicates a relative reference could not be joined onto its base.
	ErrPathJoin = errors.New("path join failed")

	// ErrCyclicReference indicates a $ref cycle.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")
)

// maxContextLen bounds how much of a JSON fragment is printed in messages.
const maxContextLen = 200

// LoadError represents a failure to read, fetch or decode a document.
type LoadError struct {
	// Document is the identity of the document being loaded
	Document string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load failure"
	if e.Document != "" {
		msg += " for " + e.Document
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// DecodeAttempt records one decoder that was tried and why it failed.
type DecodeAttempt struct {
	// Format is the name of the decoder ("json", "yaml", ...)
	Format string
	// Err is the decoder's failure
	Err error
}

// DecodeError reports that every candidate format failed to decode a document.
type DecodeError struct {
	// Document is the identity of the document being decoded
	Document string
	// Attempts lists each decoder in the order it was tried
	Attempts []DecodeAttempt
}

// Error returns a human-readable error message listing every attempt.
func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode failure")
	if e.Document != "" {
		b.WriteString(" for ")
		b.WriteString(e.Document)
	}
	for i, a := range e.Attempts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "as %s: %v", a.Format, a.Err)
	}
	return b.String()
}

// Unwrap returns the underlying failures of every attempt.
func (e *DecodeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// Is reports whether target matches this error type.
// A DecodeError is also a load failure.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode || target == ErrLoad
}

// ReferenceError wraps a failure raised while substituting a single $ref.
type ReferenceError struct {
	// Ref is the verbatim $ref string
	Ref string
	// Document is the document that contains the $ref
	Document string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "resolving $ref"
	if e.Ref != "" {
		msg += " " + quote(e.Ref)
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// RefTypeError reports a $ref whose value is not a string.
type RefTypeError struct {
	// Document is the document containing the malformed $ref
	Document string
	// Value is the offending $ref value
	Value any
}

// Error returns a human-readable error message.
func (e *RefTypeError) Error() string {
	msg := fmt.Sprintf("$ref must be a string, got %s", typeName(e.Value))
	if e.Document != "" {
		msg += " in " + e.Document
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *RefTypeError) Is(target error) bool {
	return target == ErrRefMustBeString
}

// TargetTypeError reports a $ref whose target is not an object.
type TargetTypeError struct {
	// Ref is the verbatim $ref string
	Ref string
	// Got names the JSON type actually found
	Got string
}

// Error returns a human-readable error message.
func (e *TargetTypeError) Error() string {
	return fmt.Sprintf("$ref %s must point at an object, got %s", quote(e.Ref), e.Got)
}

// Is reports whether target matches this error type.
func (e *TargetTypeError) Is(target error) bool {
	return target == ErrRefTargetMustBeObject
}

// KeyNotFoundError reports a missing key while walking an in-document path.
type KeyNotFoundError struct {
	// Key is the first segment that could not be found
	Key string
	// Path is the full in-document path being walked
	Path string
	// Context is the compact JSON of the object that was searched
	Context string
}

// Error returns a human-readable error message.
func (e *KeyNotFoundError) Error() string {
	msg := fmt.Sprintf("key %s not found", quote(e.Key))
	if e.Path != "" {
		msg += " while walking " + quote(e.Path)
	}
	if e.Context != "" {
		msg += " in " + truncate(e.Context)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// NotAnObjectError reports an attempt to step into a non-object value.
type NotAnObjectError struct {
	// Segment is the key that could not be looked up
	Segment string
	// Path is the full in-document path being walked
	Path string
	// Got names the JSON type actually found
	Got string
}

// Error returns a human-readable error message.
func (e *NotAnObjectError) Error() string {
	msg := fmt.Sprintf("cannot look up %s in %s", quote(e.Segment), e.Got)
	if e.Path != "" {
		msg += " while walking " + quote(e.Path)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *NotAnObjectError) Is(target error) bool {
	return target == ErrNotAnObject
}

// FragmentError reports a $ref string with more than one '#'.
type FragmentError struct {
	// Ref is the verbatim $ref string
	Ref string
}

// Error returns a human-readable error message.
func (e *FragmentError) Error() string {
	return fmt.Sprintf("$ref %s has more than one '#'", quote(e.Ref))
}

// Is reports whether target matches this error type.
func (e *FragmentError) Is(target error) bool {
	return target == ErrTooManyFragments
}

// RebaseError reports a base URL that cannot anchor a relative reference.
type RebaseError struct {
	// Base is the base URL
	Base string
	// Ref is the relative reference
	Ref string
}

// Error returns a human-readable error message.
func (e *RebaseError) Error() string {
	return fmt.Sprintf("cannot resolve %s against %s: url cannot be a base", quote(e.Ref), e.Base)
}

// Is reports whether target matches this error type.
func (e *RebaseError) Is(target error) bool {
	return target == ErrURLCannotBeRebased
}

// PathJoinError reports a relative reference that could not be joined onto its base.
type PathJoinError struct {
	// Base is the base document
	Base string
	// Ref is the relative reference
	Ref string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *PathJoinError) Error() string {
	msg := fmt.Sprintf("cannot join %s onto %s", quote(e.Ref), e.Base)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *PathJoinError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *PathJoinError) Is(target error) bool {
	return target == ErrPathJoin
}

// CycleError reports a $ref that re-enters a location still being resolved.
type CycleError struct {
	// Ref is the $ref string that closed the cycle
	Ref string
	// Document is the document the cycle re-enters
	Document string
	// Chain lists the locations in resolution order, ending with the repeated one
	Chain []string
}

// Error returns a human-readable error message.
func (e *CycleError) Error() string {
	msg := "cyclic reference"
	if e.Ref != "" {
		msg += " " + quote(e.Ref)
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if len(e.Chain) > 0 {
		msg += ": " + strings.Join(e.Chain, " -> ")
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicReference
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// TypeName returns the JSON type name of a generic JSON value.
func TypeName(v any) string {
	return typeName(v)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any, *jsonvalue.Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint64, uint32:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

func truncate(s string) string {
	if len(s) <= maxContextLen {
		return s
	}
	return s[:maxContextLen] + "..."
}
