package domain

import "errors"

var (
	ErrConflict             = errors.New("username or email already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotFound             = errors.New("not found")
	ErrInvalidState         = errors.New("invalid game state")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotAuthenticated     = errors.New("login required")
	ErrNoMaps               = errors.New("no maps available")
	ErrBadCoordinates       = errors.New("coordinates out of range")
)

// FailureReason explains why a signup was rejected. Reasons are checked in declaration
// order and the first match wins.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonMissingUsername
	ReasonMissingEmail
	ReasonMissingPassword
	ReasonLongUsername
	ReasonLongEmail
	ReasonBadEmail
	ReasonShortPassword
	ReasonNoUpperPassword
	ReasonNoLowerPassword
	ReasonDupeUsername
	ReasonDupeEmail
	ReasonUnknown
)

var failureMessages = map[FailureReason]string{
	ReasonMissingUsername: "Please enter a username.",
	ReasonMissingEmail:    "Please enter an email.",
	ReasonMissingPassword: "Please enter a password.",
	ReasonLongUsername:    "Your username must be less than 100 characters.",
	ReasonLongEmail:       "Your email must be less than 100 characters.",
	ReasonBadEmail:        "Your email is invalid. Please try again.",
	ReasonShortPassword:   "Your password must be at least 12 characters.",
	ReasonNoUpperPassword: "Your password must have at least one uppercase character.",
	ReasonNoLowerPassword: "Your password must have at least one lowercase character.",
	ReasonDupeUsername:    "Your username is already in use.",
	ReasonDupeEmail:       "Your email is already in use.",
	ReasonUnknown:         "An unknown error has occurred. Please try again.",
}

var failureCodes = map[FailureReason]string{
	ReasonNone:            "NONE",
	ReasonMissingUsername: "MISSING_USERNAME",
	ReasonMissingEmail:    "MISSING_EMAIL",
	ReasonMissingPassword: "MISSING_PASSWORD",
	ReasonLongUsername:    "LONG_USERNAME",
	ReasonLongEmail:       "LONG_EMAIL",
	ReasonBadEmail:        "BAD_EMAIL",
	ReasonShortPassword:   "SHORT_PASSWORD",
	ReasonNoUpperPassword: "NO_UPPER_PASSWORD",
	ReasonNoLowerPassword: "NO_LOWER_PASSWORD",
	ReasonDupeUsername:    "DUPE_USERNAME",
	ReasonDupeEmail:       "DUPE_EMAIL",
	ReasonUnknown:         "UNKNOWN",
}

func (r FailureReason) Code() string {
	if code, ok := failureCodes[r]; ok {
		return code
	}
	return failureCodes[ReasonUnknown]
}

func (r FailureReason) Message() string {
	if msg, ok := failureMessages[r]; ok {
		return msg
	}
	return failureMessages[ReasonUnknown]
}

// ValidationError reports a rejected signup. Duplicate username or email reasons wrap
// ErrConflict.
type ValidationError struct {
	Reason FailureReason
	Err    error
}

func NewValidationError(reason FailureReason) *ValidationError {
	ve := &ValidationError{Reason: reason}
	if reason == ReasonDupeUsername || reason == ReasonDupeEmail {
		ve.Err = ErrConflict
	}
	return ve
}

func (e *ValidationError) Error() string {
	return e.Reason.Message()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
