package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
	// ErrCodeUnavailable - хранилище не ответило или отклонило запись; клиент должен перечитать состояние.
	ErrCodeUnavailable  ErrorCode = "STORE_UNAVAILABLE"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is(err, ErrSkillNotFound) работал и для обёрток.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation создаёт ошибку невалидного аргумента.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Unavailable оборачивает ошибку хранилища.
func Unavailable(err error) *AppError {
	return Wrap(err, ErrCodeUnavailable, "хранилище недоступно, повторите запрос")
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или ErrCodeInternal для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsUnavailable(err error) bool {
	return CodeOf(err) == ErrCodeUnavailable
}

var (
	ErrSkillNotFound      = New(ErrCodeNotFound, "навык не найден")
	ErrSkillAlreadyExists = New(ErrCodeConflict, "навык с таким названием уже есть в категории")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrInvalidToken       = New(ErrCodeUnauthorized, "токен невалиден")
)
