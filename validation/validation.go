// Package validation checks user-submitted form values before they reach the
// store. Every check is pure and reports all violated rules at once.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"secure-notes/result"
)

// Check is the outcome of a validation: success, or the list of messages
// for every rule that failed.
type Check = result.Result[struct{}, []string]

const (
	UsernameMinLength = 5
	UsernameMaxLength = 30
	PasswordMinLength = 8
)

const (
	MsgUsernameLength   = "Username must be between 5 and 30 characters."
	MsgUsernameCharset  = "Username may only contain letters, numbers, underscores or hyphens."
	MsgPasswordRequired = "Please enter your password twice."
	MsgPasswordLength   = "Password must be at least 8 characters long."
	MsgPasswordMismatch = "Passwords do not match."
	MsgNoteEmpty        = "Note content cannot be empty."
)

var usernameCharset = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

func pass() Check { return result.Success[struct{}, []string](struct{}{}) }

func fail(msg string) Check { return result.Failure[struct{}]([]string{msg}) }

func rule(violated bool, msg string) Check {
	if violated {
		return fail(msg)
	}
	return pass()
}

// ValidateUsername checks the length and character set of a username.
func ValidateUsername(username string) Check {
	n := utf8.RuneCountInString(username)
	return result.MergeAll(
		rule(n < UsernameMinLength || n > UsernameMaxLength, MsgUsernameLength),
		rule(!usernameCharset.MatchString(username), MsgUsernameCharset),
	)
}

// ValidatePassword checks a password and its confirmation. Presence, length
// and equality are independent rules, so one submission can fail all three.
func ValidatePassword(password, password2 string) Check {
	return result.MergeAll(
		rule(password == "" || password2 == "", MsgPasswordRequired),
		rule(utf8.RuneCountInString(password) < PasswordMinLength, MsgPasswordLength),
		rule(password != password2, MsgPasswordMismatch),
	)
}

// ValidateRegistration merges the username and password checks. Whether the
// username is still free is decided by the store, not here.
func ValidateRegistration(username, password, password2 string) Check {
	return result.Merge(ValidateUsername(username), ValidatePassword(password, password2))
}

// ValidateNoteContent rejects content that is empty after trimming.
func ValidateNoteContent(content string) Check {
	return rule(strings.TrimSpace(content) == "", MsgNoteEmpty)
}
