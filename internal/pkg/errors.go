package pkg

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindDependency
)

// Error 业务错误：Kind 决定状态码，Code 用于 errors.Is 匹配
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同 Code 即视为同类错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Status 映射为 HTTP 状态码
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// With 返回带新消息的副本，Code 不变
func (e *Error) With(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: msg, Err: e.Err}
}

// Wrap 返回包裹底层错误的副本
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: e.Msg, Err: err}
}

var (
	ErrValidation         = &Error{Kind: KindValidation, Code: "Validation", Msg: "invalid params"}
	ErrMissingToken       = &Error{Kind: KindAuthentication, Code: "MissingToken", Msg: "not authorized, no token"}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Code: "InvalidToken", Msg: "not authorized, invalid or expired token"}
	ErrUserNotFound       = &Error{Kind: KindAuthentication, Code: "UserNotFound", Msg: "not authorized, user not found"}
	ErrTokenRevoked       = &Error{Kind: KindAuthentication, Code: "TokenRevoked", Msg: "not authorized, token has been revoked"}
	ErrTokenNotActive     = &Error{Kind: KindAuthentication, Code: "TokenNotActive", Msg: "token is no longer active for this session"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "InvalidCredentials", Msg: "invalid email or password"}
	ErrAccountBlocked     = &Error{Kind: KindAuthorization, Code: "AccountBlocked", Msg: "your account has been blocked, contact the administrator"}
	ErrForbidden          = &Error{Kind: KindAuthorization, Code: "Forbidden", Msg: "not authorized, admin only"}
	ErrNotFound           = &Error{Kind: KindNotFound, Code: "NotFound", Msg: "resource not found"}
	ErrAttendanceDisabled = &Error{Kind: KindValidation, Code: "AttendanceDisabled", Msg: "this event does not accept attendance"}
	ErrConflict           = &Error{Kind: KindConflict, Code: "Conflict", Msg: "resource already exists"}
	ErrDependency         = &Error{Kind: KindDependency, Code: "Dependency", Msg: "upstream service failed"}
	ErrInternal           = &Error{Kind: KindInternal, Code: "Internal", Msg: "internal server error"}
)

// AsError 非业务错误统一视为 Internal
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.Wrap(err)
}
