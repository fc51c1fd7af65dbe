package auth

// Kind classifies a domain failure. The HTTP layer is the only place a
// Kind is mapped to a status code.
type Kind int

const (
	// KindValidation covers malformed or out-of-range input, including
	// uniqueness conflicts (the API reports those as 400, not 409).
	KindValidation Kind = iota
	// KindUnauthorized covers missing, invalid, or expired credentials.
	KindUnauthorized
	// KindForbidden covers authenticated but disallowed requests.
	KindForbidden
	// KindNotFound covers absent referenced entities.
	KindNotFound
	// KindDependency covers notification-dispatch failures and missing
	// collaborator configuration.
	KindDependency
)

// Error is a typed domain failure with a short human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func unauthorizedError(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func forbiddenError(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func notFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func dependencyError(msg string) *Error {
	return &Error{Kind: KindDependency, Message: msg}
}
