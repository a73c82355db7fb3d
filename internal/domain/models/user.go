package models

import "time"

// UserDetails возвращается Odoo после входа для обновления списка
// недавних сессий
type UserDetails struct {
	UserID    int    `json:"user_id"`
	UserName  string `json:"user_name"`
	ImageData string `json:"image_data"` // Аватар в base64
}

// RecentSession — запись о ранее выполненном входе, хранится не более 5,
// новые впереди
type RecentSession struct {
	ID           int       `json:"id"` // Идентификатор пользователя Odoo
	Username     string    `json:"username"`
	ServerURL    string    `json:"server_url"`
	Database     string    `json:"database"`
	DisplayName  string    `json:"display_name"`
	ProfileImage string    `json:"profile_image"` // base64
	LastLogin    time.Time `json:"last_login"`
}
