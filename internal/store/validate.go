package store

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits. Passwords are capped at bcrypt's 72-byte input limit so they
// are never silently truncated.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
	MinPasswordLen = 8
	MaxPasswordLen = 72
	MaxTitleLen    = 200
	MaxNameLen     = 100
	MaxBioLen      = 500
	MaxURLLen      = 2048
	MaxEmailLen    = 255
)

var (
	// ErrInvalidUsername is returned when a username does not match the required pattern.
	ErrInvalidUsername = fmt.Errorf("username must be %d-%d characters of a-z, 0-9 or _", MinUsernameLen, MaxUsernameLen)

	// ErrUsernameReserved is returned when a username collides with a route segment.
	ErrUsernameReserved = errors.New("username is reserved")

	// ErrInvalidPassword is returned when a password is too short or too long.
	ErrInvalidPassword = fmt.Errorf("password must be %d-%d bytes", MinPasswordLen, MaxPasswordLen)

	// ErrInvalidEmail is returned when an email address cannot be parsed.
	ErrInvalidEmail = errors.New("email is not a valid address")

	// ErrInvalidURL is returned when a URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("url must start with http:// or https://")

	// ErrInvalidTitle is returned when a link title is empty.
	ErrInvalidTitle = errors.New("title is required")

	// ErrFieldTooLong is returned when a free-text field exceeds its limit.
	ErrFieldTooLong = errors.New("field is too long")

	usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	urlRe      = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)

	reservedUsernames = map[string]bool{
		"me": true,
	}
)

// NormalizeUsername trims and lower-cases a username so uniqueness is
// case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks an already-normalized username.
func ValidateUsername(username string) error {
	if reservedUsernames[username] {
		return fmt.Errorf("%w: %q", ErrUsernameReserved, username)
	}
	if len(username) < MinUsernameLen || len(username) > MaxUsernameLen || !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword checks the password length in bytes.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateEmail accepts a bare address such as "a@example.com". An empty
// email is valid because the field is optional.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("%w: email", ErrFieldTooLong)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateURL checks that u is an absolute http(s) URL without whitespace.
func ValidateURL(u string) error {
	if len(u) > MaxURLLen {
		return fmt.Errorf("%w: url", ErrFieldTooLong)
	}
	if !urlRe.MatchString(u) {
		return ErrInvalidURL
	}
	return nil
}

// ValidateOptionalURL is ValidateURL for fields where empty means "none".
func ValidateOptionalURL(u string) error {
	if u == "" {
		return nil
	}
	return ValidateURL(u)
}

// ValidateTitle checks a trimmed link title.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrInvalidTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("%w: title", ErrFieldTooLong)
	}
	return nil
}

// Validate checks the fields present in p.
func (p ProfileUpdate) Validate() error {
	if p.Name != nil && utf8.RuneCountInString(*p.Name) > MaxNameLen {
		return fmt.Errorf("%w: name", ErrFieldTooLong)
	}
	if p.Bio != nil && utf8.RuneCountInString(*p.Bio) > MaxBioLen {
		return fmt.Errorf("%w: bio", ErrFieldTooLong)
	}
	if p.Avatar != nil {
		if err := ValidateOptionalURL(*p.Avatar); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the fields present in p. A present title or url must be
// non-empty; a present image url may be empty to clear it.
func (p LinkUpdate) Validate() error {
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.URL != nil {
		if err := ValidateURL(*p.URL); err != nil {
			return err
		}
	}
	if p.ImageURL != nil {
		if err := ValidateOptionalURL(*p.ImageURL); err != nil {
			return err
		}
	}
	return nil
}
