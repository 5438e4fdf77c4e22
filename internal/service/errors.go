package service

// Kind classifies a caller-facing failure. The HTTP layer maps kinds to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindInvalidCredentials
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a failure whose Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches sentinels by identity and kind-only targets (empty Message) by kind,
// so errors.Is(err, ErrForbidden) holds for every forbidden failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Kind-only targets for errors.Is.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrInvalidCredentials = newError(KindInvalidCredentials, "Invalid password.")
)

var (
	ErrLoginFailed          = newError(KindInvalidCredentials, "Invalid email or password.")
	ErrPasswordRequired     = newError(KindUnauthenticated, "Please enter your password.")
	ErrOldPasswordRequired  = newError(KindUnauthenticated, "Please enter your old password.")
	ErrDeactivationPassword = newError(KindUnauthenticated, "Password required for deactivation.")

	ErrPasswordTooLong = newError(KindValidation, "Please enter a password that is 72 bytes or less.")
	ErrBlankName       = newError(KindValidation, "Please provide a name.")

	ErrEmailTaken = newError(KindConflict, "An account with that email already exists.")

	ErrUserNotFound  = newError(KindNotFound, "User not found.")
	ErrPlaceNotFound = newError(KindNotFound, "Place not found.")
	ErrCityNotFound  = newError(KindNotFound, "City not found.")

	ErrSelfReview      = newError(KindForbidden, "cannot review own place")
	ErrDuplicateReview = newError(KindForbidden, "duplicate review")
)
