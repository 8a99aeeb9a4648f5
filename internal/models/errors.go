package models

import (
	"errors"
	"fmt"
)

// Reason is a machine-readable validation failure code.
type Reason string

const (
	ReasonEmptyName                   Reason = "EmptyName"
	ReasonEmptyBuildingID             Reason = "EmptyBuildingId"
	ReasonEmptySetpointValue          Reason = "EmptySetpointValue"
	ReasonNotNumeric                  Reason = "NotNumeric"
	ReasonNoSetpointType              Reason = "NoSetpointType"
	ReasonNoZone                      Reason = "NoZone"
	ReasonEmptyOutstation             Reason = "EmptyOutstation"
	ReasonDuplicateOutstationID       Reason = "DuplicateOutstationId"
	ReasonDuplicateEventID            Reason = "DuplicateEventId"
	ReasonDuplicateZoneID             Reason = "DuplicateZoneId"
	ReasonDuplicateBuildingID         Reason = "DuplicateBuildingId"
	ReasonNoDaySelected               Reason = "NoDaySelected"
	ReasonDuplicateExclusion          Reason = "DuplicateExclusion"
	ReasonEmptyPattern                Reason = "EmptyPattern"
	ReasonAllWildcard                 Reason = "AllWildcard"
	ReasonIncompletePattern           Reason = "IncompletePattern"
	ReasonInvalidCalendarField        Reason = "InvalidCalendarField"
	ReasonExclusionNotAllowed         Reason = "ExclusionNotAllowed"
	ReasonInvalidColour               Reason = "InvalidColour"
	ReasonInvalidWeekday              Reason = "InvalidWeekday"
	ReasonInvalidRuleKind             Reason = "InvalidRuleKind"
	ReasonReplaceConfirmationRequired Reason = "ReplaceConfirmationRequired"
	ReasonInvalidWeekStart            Reason = "InvalidWeekStart"
	ReasonInvalidTimeRange            Reason = "InvalidTimeRange"
	ReasonUnsupportedFormat           Reason = "UnsupportedFormat"
)

// ValidationError reports a rejected input. No state was mutated.
type ValidationError struct {
	Reason Reason
	Detail string
	// Conflict names the record that caused a duplicate, if any.
	Conflict string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Invalid builds a ValidationError with a formatted detail message.
func Invalid(reason Reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Duplicate builds a ValidationError naming the conflicting record.
func Duplicate(reason Reason, conflict, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...), Conflict: conflict}
}

// IsValidation reports whether err is a ValidationError, optionally with one of the given reasons.
func IsValidation(err error, reasons ...Reason) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	if len(reasons) == 0 {
		return true
	}
	for _, r := range reasons {
		if ve.Reason == r {
			return true
		}
	}
	return false
}

// Kinds of records a NotFoundError can refer to.
const (
	KindSchedule = "schedule"
	KindZone     = "zone"
	KindEvent    = "event"
)

// NotFoundError reports a referenced schedule, zone or event that does not exist.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(kind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IOError wraps a storage failure: unreadable or unwritable records, malformed documents.
type IOError struct {
	Op  string
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a persisted field that could not be interpreted.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
