package store

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice", "alice"},
		{"Alice", "alice"},
		{"  BOB_42 ", "bob_42"},
	}
	for _, tt := range tests {
		if got := NormalizeUsername(tt.in); got != tt.want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{name: "simple", username: "alice", wantErr: nil},
		{name: "digits and underscore", username: "a_1", wantErr: nil},
		{name: "max length", username: strings.Repeat("a", MaxUsernameLen), wantErr: nil},

		{name: "empty", username: "", wantErr: ErrInvalidUsername},
		{name: "too short", username: "ab", wantErr: ErrInvalidUsername},
		{name: "too long", username: strings.Repeat("a", MaxUsernameLen+1), wantErr: ErrInvalidUsername},
		{name: "uppercase", username: "Alice", wantErr: ErrInvalidUsername},
		{name: "hyphen", username: "al-ice", wantErr: ErrInvalidUsername},
		{name: "space", username: "al ice", wantErr: ErrInvalidUsername},
		{name: "slash", username: "al/ice", wantErr: ErrInvalidUsername},

		{name: "reserved me", username: "me", wantErr: ErrUsernameReserved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateUsername(%q) = %v, want nil", tt.username, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"min length", strings.Repeat("x", MinPasswordLen), true},
		{"max length", strings.Repeat("x", MaxPasswordLen), true},
		{"too short", "short", false},
		{"empty", "", false},
		{"over bcrypt limit", strings.Repeat("x", MaxPasswordLen+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.ok && err != nil {
				t.Errorf("ValidatePassword() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidPassword) {
				t.Errorf("ValidatePassword() = %v, want ErrInvalidPassword", err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr error
	}{
		{"", nil},
		{"a@example.com", nil},
		{"first.last+tag@sub.example.org", nil},
		{"not-an-email", ErrInvalidEmail},
		{"Alice <a@example.com>", ErrInvalidEmail},
		{"a@", ErrInvalidEmail},
		{strings.Repeat("a", MaxEmailLen) + "@example.com", ErrFieldTooLong},
	}
	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.wantErr == nil && err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", tt.email, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr error
	}{
		{"https://example.com", nil},
		{"http://example.com/path?q=1", nil},
		{"HTTPS://example.com", ErrInvalidURL},
		{"ftp://example.com", ErrInvalidURL},
		{"example.com", ErrInvalidURL},
		{"https://", ErrInvalidURL},
		{"https://exa mple.com", ErrInvalidURL},
		{"javascript:alert(1)", ErrInvalidURL},
		{"", ErrInvalidURL},
		{"https://example.com/" + strings.Repeat("a", MaxURLLen), ErrFieldTooLong},
	}
	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if tt.wantErr == nil && err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", tt.url, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, err, tt.wantErr)
		}
	}

	if err := ValidateOptionalURL(""); err != nil {
		t.Errorf("ValidateOptionalURL(\"\") = %v, want nil", err)
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Blog"); err != nil {
		t.Errorf("ValidateTitle(Blog) = %v", err)
	}
	if err := ValidateTitle(""); !errors.Is(err, ErrInvalidTitle) {
		t.Errorf("ValidateTitle(\"\") = %v, want ErrInvalidTitle", err)
	}
	// Limits count characters, not bytes.
	if err := ValidateTitle(strings.Repeat("é", MaxTitleLen)); err != nil {
		t.Errorf("ValidateTitle(200 runes) = %v, want nil", err)
	}
	if err := ValidateTitle(strings.Repeat("a", MaxTitleLen+1)); !errors.Is(err, ErrFieldTooLong) {
		t.Errorf("ValidateTitle(201) = %v, want ErrFieldTooLong", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	s := func(v string) *string { return &v }

	if err := (ProfileUpdate{}).Validate(); err != nil {
		t.Errorf("empty ProfileUpdate = %v", err)
	}
	if err := (ProfileUpdate{Avatar: s("")}).Validate(); err != nil {
		t.Errorf("clearing avatar = %v, want nil", err)
	}
	if err := (ProfileUpdate{Avatar: s("not a url")}).Validate(); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("bad avatar = %v, want ErrInvalidURL", err)
	}
	if err := (ProfileUpdate{Bio: s(strings.Repeat("b", MaxBioLen+1))}).Validate(); !errors.Is(err, ErrFieldTooLong) {
		t.Errorf("long bio = %v, want ErrFieldTooLong", err)
	}

	if err := (LinkUpdate{Title: s("")}).Validate(); !errors.Is(err, ErrInvalidTitle) {
		t.Errorf("empty title = %v, want ErrInvalidTitle", err)
	}
	if err := (LinkUpdate{URL: s("nope")}).Validate(); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("bad url = %v, want ErrInvalidURL", err)
	}
	if err := (LinkUpdate{ImageURL: s("")}).Validate(); err != nil {
		t.Errorf("clearing image url = %v, want nil", err)
	}
}
