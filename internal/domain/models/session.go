package models

// Session хранит данные аутентифицированного подключения к Odoo.
// Пароль пересылается сервером заново при каждом вызове execute,
// отдельного токена протокол не выдает.
type Session struct {
	ServerURL string `json:"server_url"`
	Database  string `json:"database"`
	UserID    int    `json:"user_id"`
	Password  string `json:"-"`
}
