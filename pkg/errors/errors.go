package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Category sentinels. Specific errors wrap one of these so callers can
// classify with errors.Is without matching exact messages.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")
)

var (
	ErrEmptyContent    = fmt.Errorf("%w: message content is empty", ErrValidation)
	ErrContentTooLong  = fmt.Errorf("%w: message content exceeds maximum length", ErrValidation)
	ErrMessageDeleted  = fmt.Errorf("%w: message has been deleted", ErrValidation)
	ErrMessageNotFound = fmt.Errorf("%w: message not found", ErrNotFound)
	ErrRoomNotFound    = fmt.Errorf("%w: room not found", ErrNotFound)
	ErrGroupNotFound   = fmt.Errorf("%w: group not found", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrValidation)
	ErrNotMember       = fmt.Errorf("%w: user is not a member of this scope", ErrForbidden)
	ErrUserMuted       = fmt.Errorf("%w: user is muted in this scope", ErrForbidden)
	ErrNotAuthor       = fmt.Errorf("%w: only the author can edit this message", ErrForbidden)
	ErrCannotDelete    = fmt.Errorf("%w: only the author or a moderator can delete this message", ErrForbidden)
	ErrInvalidToken    = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrTokenExpired    = fmt.Errorf("%w: token expired", ErrUnauthorized)
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
