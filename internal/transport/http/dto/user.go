package dto

import (
	"time"

	"odoo_gallery/internal/domain/models"
)

type UserResponse struct {
	UserID    int    `json:"user_id"`
	UserName  string `json:"user_name"`
	ImageData string `json:"image_data,omitempty"` // Аватар в base64
}

type RecentSessionResponse struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	ServerURL   string    `json:"server_url"`
	Database    string    `json:"database"`
	DisplayName string    `json:"display_name"`
	LastLogin   time.Time `json:"last_login"`
}

func ToUserResponse(d models.UserDetails) UserResponse {
	return UserResponse{
		UserID:    d.UserID,
		UserName:  d.UserName,
		ImageData: d.ImageData,
	}
}

func ToRecentSessionResponses(sessions []models.RecentSession) []RecentSessionResponse {
	out := make([]RecentSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, RecentSessionResponse{
			ID:          s.ID,
			Username:    s.Username,
			ServerURL:   s.ServerURL,
			Database:    s.Database,
			DisplayName: s.DisplayName,
			LastLogin:   s.LastLogin,
		})
	}
	return out
}
