package services

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
	KindForbidden
	KindValidation
	KindTooLarge
)

// HTTPStatus maps the kind onto the status code the api answers with.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain failure reported to clients as error_type/error_message.
type Error struct {
	Kind    ErrorKind
	Type    string
	Message string

	// code separates sentinels that share a wire Type.
	code string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Type so that errors carrying a different message still
// compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Kind == t.Kind && e.code == t.code
}

var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Type: "AUTH_ERROR", Message: "api-key header is required", code: "missing_api_key"}
	ErrInvalidCredential = &Error{Kind: KindUnauthorized, Type: "AUTH_ERROR", Message: "invalid api-key", code: "unknown_api_key"}
	ErrIncorrectPassword = &Error{Kind: KindUnauthorized, Type: "INCORRECT_PASSWORD", Message: "incorrect password"}
	ErrAuthorNotFound    = &Error{Kind: KindNotFound, Type: "AUTHOR_NOT_EXIST", Message: "author does not exist"}
	ErrSelfFollow        = &Error{Kind: KindConflict, Type: "RECURSIVE_FOLLOW", Message: "an author cannot follow themselves"}
	ErrPostNotFound      = &Error{Kind: KindNotFound, Type: "TWEET_NOT_EXIST", Message: "tweet does not exist"}
	ErrNotOwner          = &Error{Kind: KindForbidden, Type: "TWEET_NOT_BELONGS_TO_AUTHOR", Message: "tweet does not belong to the author"}
	ErrDuplicateLike     = &Error{Kind: KindConflict, Type: "DOUBLE_LIKE_ERROR", Message: "tweet is already liked by the author"}
	ErrLikeNotFound      = &Error{Kind: KindNotFound, Type: "REMOVE_NOT_EXIST_LIKE", Message: "like does not exist"}
	ErrMediaImport       = &Error{Kind: KindValidation, Type: "MEDIA_IMPORT_ERROR", Message: "failed to import media"}
	ErrFileTooLarge      = &Error{Kind: KindTooLarge, Type: "FILE_TOO_LARGE", Message: "file exceeds the upload size limit"}
	ErrInvalidParameters = &Error{Kind: KindValidation, Type: "INCORRECT_PARAMETERS", Message: "incorrect parameters"}
	ErrInternal          = &Error{Kind: KindInternal, Type: "DB_QUERY_ERROR", Message: "internal error"}
)

// NewValidationError carries a caller-facing message with the
// INCORRECT_PARAMETERS type.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Type: ErrInvalidParameters.Type, Message: message}
}

// AsError extracts the domain error from err. Anything else is reported as
// ErrInternal with ok=false.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return ErrInternal, false
}
