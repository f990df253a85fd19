package service

import "errors"

// Специфичные ошибки сервисов; общие сентинелы живут в internal/pkg/errors.
var (
	// ErrInvalidCredentials — неверная пара email/пароль при входе.
	// Не раскрываем, что именно не совпало.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
