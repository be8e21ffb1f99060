package util

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类，决定 HTTP 状态码
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation_error"
	KindNotFound       ErrorKind = "not_found"
	KindAuthentication ErrorKind = "authentication_error"
	KindAuthorization  ErrorKind = "authorization_error"
	KindConflict       ErrorKind = "conflict"
	KindTransient      ErrorKind = "transient_storage_error"
)

// AppError carries a kind, a client-safe message and an optional cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同类且同消息的 AppError 视为相等，便于 errors.Is 匹配哨兵错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewTransientError(err error) *AppError {
	return &AppError{Kind: KindTransient, Message: "storage temporarily unavailable", Err: err}
}

// Wrap 给哨兵错误附加底层原因
func Wrap(sentinel *AppError, err error) *AppError {
	return &AppError{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or "" when none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

var (
	ErrUserNotFound        = &AppError{Kind: KindNotFound, Message: "user not found"}
	ErrUsernameTaken       = &AppError{Kind: KindConflict, Message: "username already taken"}
	ErrInvalidCredentials  = &AppError{Kind: KindAuthentication, Message: "Неверный логин или пароль"}
	ErrInvalidToken        = &AppError{Kind: KindAuthentication, Message: "invalid or expired token"}
	ErrPermissionDenied    = &AppError{Kind: KindAuthorization, Message: "permission denied"}
	ErrProtectedAccount    = &AppError{Kind: KindAuthorization, Message: "the bootstrap administrator cannot be deleted"}
	ErrSignupDisabled      = &AppError{Kind: KindAuthorization, Message: "self registration is disabled"}
	ErrWrongPassword       = &AppError{Kind: KindValidation, Message: "current password is incorrect"}
	ErrProgressNotFound    = &AppError{Kind: KindNotFound, Message: "progress not found"}
	ErrQuestionNotFound    = &AppError{Kind: KindNotFound, Message: "question not found"}
	ErrTranslationNotFound = &AppError{Kind: KindNotFound, Message: "translation not found"}
	ErrConflict            = &AppError{Kind: KindConflict, Message: "resource already exists"}
)
