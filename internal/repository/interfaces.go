package repository

import (
	"context"
	"time"

	"odoo_gallery/internal/domain/models"
)

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

type RecentSessionRepository interface {
	SaveRecentSession(ctx context.Context, sess models.RecentSession) error
	RecentSessions(ctx context.Context) ([]models.RecentSession, error)
}

type JournalRepository interface {
	AppendEntry(ctx context.Context, entry models.JournalEntry) error
	RecentEntries(ctx context.Context, limit int) ([]models.JournalEntry, error)
}
