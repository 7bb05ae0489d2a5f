package auth

import "errors"

var (
	// ErrMissingSecret is returned by NewIssuer when no signing secret is configured.
	ErrMissingSecret = errors.New("token signing secret is not configured")

	// ErrMissingToken means the request carried no Authorization header.
	ErrMissingToken = errors.New("missing token")

	// ErrMalformedToken means the header or token could not be split or parsed.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidToken means the token parsed but failed signature, algorithm,
	// expiry, or claim checks.
	ErrInvalidToken = errors.New("token expired or invalid")

	// ErrMalformedHash means a stored password hash is not a bcrypt hash.
	ErrMalformedHash = errors.New("malformed password hash")
)
