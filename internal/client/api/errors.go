package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Классы ошибок gateway. Проверяются через errors.Is.
var (
	// ErrUnauthorized токен отсутствует, истек или отклонен сервером (401/403)
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation сервер отклонил входные данные (400/422)
	ErrValidation = errors.New("validation failed")
	// ErrConflict ресурс уже существует, например email занят (409)
	ErrConflict = errors.New("conflict")
	// ErrNetworkUnavailable запрос не дошел до сервера
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrProvider OAuth провайдер неизвестен или не настроен
	ErrProvider = errors.New("oauth provider error")
	// ErrUnexpectedStatus любой другой неуспешный ответ (404, 5xx)
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// Error ошибка ответа сервера с исходным статусом и сообщением из detail.
type Error struct {
	Kind       error
	Op         string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// IsUnauthorized сокращение для errors.Is(err, ErrUnauthorized)
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// classifyStatus maps a non-2xx HTTP status to an error kind.
func classifyStatus(op string, status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest:
		if op == opOAuthAuthorizationURL {
			return ErrProvider
		}
		return ErrValidation
	case http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusConflict:
		return ErrConflict
	case http.StatusNotImplemented:
		if op == opOAuthAuthorizationURL {
			return ErrProvider
		}
	}
	return ErrUnexpectedStatus
}
