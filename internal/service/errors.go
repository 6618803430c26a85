package service

import "errors"

// Сентинельные ошибки слоя сервисов. Хендлеры сопоставляют их
// с HTTP-статусами через errors.Is; всё остальное — 500.
var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrNoFiles            = errors.New("no files uploaded")
	ErrBadRequest         = errors.New("bad request")
)
