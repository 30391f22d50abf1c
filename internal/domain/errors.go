package domain

import "errors"

// Ошибки доменного уровня. Слои выше сопоставляют их через errors.Is,
// поэтому конкретные сообщения оборачиваются поверх этих сентинелов.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
