package auth

import "errors"

// Error kinds returned by the Gateway. Match them with errors.Is.
var (
	ErrEmailInUse      = errors.New("email already in use")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrWeakPassword    = errors.New("weak password")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrUnknown         = errors.New("authentication failed")
)

var kinds = []error{
	ErrEmailInUse,
	ErrInvalidEmail,
	ErrWeakPassword,
	ErrUserNotFound,
	ErrWrongPassword,
	ErrTooManyAttempts,
	ErrUnknown,
}

var messages = map[error]string{
	ErrEmailInUse:      "Email is already registered",
	ErrInvalidEmail:    "Email format is invalid",
	ErrWeakPassword:    "Password is too weak (at least 6 characters)",
	ErrUserNotFound:    "Email is not registered",
	ErrWrongPassword:   "Wrong password",
	ErrTooManyAttempts: "Too many login attempts. Try again later",
	ErrUnknown:         "Authentication failed. Please try again",
}

// Kind returns the error kind err belongs to, ErrUnknown when it has none.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrUnknown
}

// Message returns a human-readable text for err suitable for a notification.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := messages[Kind(err)]; ok {
		return msg
	}
	return err.Error()
}
