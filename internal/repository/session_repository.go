package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"odoo_gallery/internal/domain/models"
	redisapp "odoo_gallery/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

// Список хранится одним JSON-значением: записей не больше пяти, и весь
// список всегда переписывается целиком при входе
const recentSessionsKey = "recent_sessions"

const maxRecentSessions = 5

type RedisSessionRepo struct {
	Client *redisapp.Client
}

func NewRedisSessionRepo(client *redisapp.Client) *RedisSessionRepo {
	return &RedisSessionRepo{Client: client}
}

// SaveRecentSession вставляет запись в начало списка. Существующая запись
// с тем же идентификатором пользователя удаляется, хвост обрезается до
// пяти элементов.
func (r *RedisSessionRepo) SaveRecentSession(ctx context.Context, sess models.RecentSession) error {
	const op = "repository.RedisSessionRepo.SaveRecentSession"

	sessions, err := r.RecentSessions(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	filtered := make([]models.RecentSession, 0, len(sessions)+1)
	filtered = append(filtered, sess)
	for _, s := range sessions {
		if s.ID != sess.ID {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].LastLogin.After(filtered[j].LastLogin)
	})

	if len(filtered) > maxRecentSessions {
		filtered = filtered[:maxRecentSessions]
	}

	data, err := json.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, recentSessionsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RecentSessions возвращает сохраненные сессии, новые впереди.
func (r *RedisSessionRepo) RecentSessions(ctx context.Context) ([]models.RecentSession, error) {
	const op = "repository.RedisSessionRepo.RecentSessions"

	data, err := r.Client.Get(ctx, recentSessionsKey).Bytes()
	if err == redis.Nil {
		return []models.RecentSession{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sessions []models.RecentSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}
