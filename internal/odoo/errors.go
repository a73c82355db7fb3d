package odoo

import "errors"

var (
	// ErrSessionMissing возвращается до любого сетевого вызова, если
	// активная сессия отсутствует
	ErrSessionMissing = errors.New("no active session")

	// ErrInvalidCredentials — сервер ответил, но вход отклонен (result == 0)
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAcknowledged — write/unlink вернул подтверждение, отличное от 1
	ErrNotAcknowledged = errors.New("operation not acknowledged by server")

	// ErrDuplicateImageName — в debug-тексте ошибки найден маркер
	// нарушения уникальности имени
	ErrDuplicateImageName = errors.New("image name already exists")

	// ErrBadResponse — форма ответа не соответствует ожидаемой
	ErrBadResponse = errors.New("unexpected response shape")
)
