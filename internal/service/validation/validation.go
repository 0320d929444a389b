package validation

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"ninernav/domain"
)

const (
	MaxUsernameLen    = 100
	MaxEmailLen       = 100
	MinPasswordLength = 12
)

var (
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
)

// ValidateEmail applies the site's email rule: exactly one '@' that is not the first
// character, at least one '.', the last '.' after the '@' and not the last character.
func ValidateEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	if !strings.Contains(email, ".") {
		return false
	}
	at := strings.LastIndex(email, "@")
	dot := strings.LastIndex(email, ".")
	if at == 0 {
		return false
	}
	if dot == len(email)-1 {
		return false
	}
	return at < dot
}

func ValidatePassword(password string) domain.FailureReason {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domain.ReasonShortPassword
	}
	if !upperPattern.MatchString(password) {
		return domain.ReasonNoUpperPassword
	}
	if !lowerPattern.MatchString(password) {
		return domain.ReasonNoLowerPassword
	}
	return domain.ReasonNone
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CheckSignupFields runs every rule that does not need the user store and returns the
// first failing reason, or ReasonNone.
func CheckSignupFields(username, email, password string) domain.FailureReason {
	switch {
	case blank(username):
		return domain.ReasonMissingUsername
	case blank(email):
		return domain.ReasonMissingEmail
	case blank(password):
		return domain.ReasonMissingPassword
	case utf8.RuneCountInString(username) > MaxUsernameLen:
		return domain.ReasonLongUsername
	case utf8.RuneCountInString(email) > MaxEmailLen:
		return domain.ReasonLongEmail
	case !ValidateEmail(email):
		return domain.ReasonBadEmail
	}
	return ValidatePassword(password)
}

// Registry answers whether a username or email is already registered.
type Registry interface {
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// SignupFailure returns the first reason a signup with these fields fails. The
// store lookups are advisory: ReasonNone does not guarantee the insert will succeed.
func SignupFailure(ctx context.Context, registry Registry, username, email, password string) (domain.FailureReason, error) {
	if reason := CheckSignupFields(username, email, password); reason != domain.ReasonNone {
		return reason, nil
	}
	return DuplicateFailure(ctx, registry, username, email)
}

// DuplicateFailure checks only the store-backed rules.
func DuplicateFailure(ctx context.Context, registry Registry, username, email string) (domain.FailureReason, error) {
	taken, err := registry.UsernameTaken(ctx, username)
	if err != nil {
		return domain.ReasonUnknown, err
	}
	if taken {
		return domain.ReasonDupeUsername, nil
	}

	taken, err = registry.EmailTaken(ctx, email)
	if err != nil {
		return domain.ReasonUnknown, err
	}
	if taken {
		return domain.ReasonDupeEmail, nil
	}
	return domain.ReasonNone, nil
}
