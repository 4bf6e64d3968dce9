package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/jobassistant/internal/common"
)

const (
	usernameMinLen    = 3
	usernameMaxLen    = 50
	passwordMinLen    = 8
	emailMaxLen       = 255
	messageMaxRunes   = 8000
	titleMaxRunes     = 200
	listDefaultLimit  = 50
	listMaximumLimit  = 100
	generatedTitleMax = 50
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRe   = regexp.MustCompile(`[A-Za-z]`)
	digitRe    = regexp.MustCompile(`\d`)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func normalizeUsername(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func validateUsername(u string) error {
	switch {
	case u == "":
		return invalid("username is required")
	case len(u) < usernameMinLen:
		return invalid("username must be at least %d characters", usernameMinLen)
	case len(u) > usernameMaxLen:
		return invalid("username must be at most %d characters", usernameMaxLen)
	case !usernameRe.MatchString(u):
		return invalid("username may only contain lowercase letters, numbers, and underscores")
	}
	return nil
}

func validateEmail(e string) error {
	switch {
	case e == "":
		return invalid("email is required")
	case len(e) > emailMaxLen:
		return invalid("email too long")
	case !emailRe.MatchString(e):
		return invalid("invalid email format")
	}
	return nil
}

func validatePassword(p string) error {
	switch {
	case p == "":
		return invalid("password is required")
	case utf8.RuneCountInString(p) < passwordMinLen:
		return invalid("password must be at least %d characters", passwordMinLen)
	case !letterRe.MatchString(p):
		return invalid("password must contain at least one letter")
	case !digitRe.MatchString(p):
		return invalid("password must contain at least one number")
	}
	return nil
}

// titleFromMessage: newlines become spaces; longer than 50 runes is cut to 47
// plus "...".
func titleFromMessage(message string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(message), "\n", " ")
	runes := []rune(clean)
	if len(runes) <= generatedTitleMax {
		return clean
	}
	return string(runes[:generatedTitleMax-3]) + "..."
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return listDefaultLimit
	case limit > listMaximumLimit:
		return listMaximumLimit
	}
	return limit
}
