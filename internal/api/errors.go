package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the real and mock clients.  Handlers compare
// against them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrSessionFull        = errors.New("session is full")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error is a non-2xx answer from the backend.  Message is the text the
// backend meant for the user (or a client-side fallback) and is safe to
// render.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match a backend 404 and
// errors.Is(err, ErrInvalidCredentials) match a 401.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrInvalidCredentials:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// Message returns the user-facing text carried by err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrSessionFull):
		return "마감된 일정입니다. 다른 일정을 선택해주세요."
	case errors.Is(err, ErrInvalidCredentials):
		return "이메일 또는 비밀번호가 올바르지 않습니다."
	}
	return fallback
}
