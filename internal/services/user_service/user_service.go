package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"odoo_gallery/internal/domain/models"
	"odoo_gallery/internal/lib/logger/sl"
	"odoo_gallery/internal/odoo"

	gocache "github.com/patrickmn/go-cache"
)

const (
	detailsCacheTTL     = 5 * time.Minute
	detailsCacheCleanup = 10 * time.Minute
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.3 --all
type OdooGateway interface {
	Login(ctx context.Context, serverURL, database, username, password string) (int, error)
	FetchUserDetails(ctx context.Context) (models.UserDetails, error)
}

type SessionStore interface {
	Current() (models.Session, bool)
	Clear()
}

type RecentSessionProvider interface {
	SaveRecentSession(ctx context.Context, sess models.RecentSession) error
	RecentSessions(ctx context.Context) ([]models.RecentSession, error)
}

type UserService struct {
	log      *slog.Logger
	gateway  OdooGateway
	sessions SessionStore
	recent   RecentSessionProvider
	cache    *gocache.Cache
}

func NewUserService(log *slog.Logger, gateway OdooGateway, sessions SessionStore, recent RecentSessionProvider) *UserService {
	return &UserService{
		log:      log,
		gateway:  gateway,
		sessions: sessions,
		recent:   recent,
		cache:    gocache.New(detailsCacheTTL, detailsCacheCleanup),
	}
}

// Login выполняет вход в Odoo, после успеха подтягивает данные
// пользователя и обновляет список недавних сессий. Отказ этих двух шагов
// не отменяет вход.
func (s *UserService) Login(ctx context.Context, serverURL, database, username, password string) (models.UserDetails, error) {
	const op = "user.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("database", database),
		slog.String("username", username),
	)

	log.Info("attempting to login user")

	userID, err := s.gateway.Login(ctx, serverURL, database, username, password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return models.UserDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	details, err := s.gateway.FetchUserDetails(ctx)
	if err != nil {
		// суррогатная запись не кэшируется: следующий Details пойдет в Odoo
		log.Warn("failed to fetch user details", sl.Err(err))
		details = models.UserDetails{UserID: userID, UserName: username}
	} else {
		s.cache.Set(cacheKey(userID), details, gocache.DefaultExpiration)
	}

	if s.recent != nil {
		recent := models.RecentSession{
			ID:           userID,
			Username:     username,
			ServerURL:    serverURL,
			Database:     database,
			DisplayName:  details.UserName,
			ProfileImage: details.ImageData,
			LastLogin:    time.Now().UTC(),
		}
		if err := s.recent.SaveRecentSession(ctx, recent); err != nil {
			log.Warn("failed to save recent session", sl.Err(err))
		}
	}

	log.Info("user logged in successfully", slog.Int("user_id", userID))

	return details, nil
}

// Details возвращает имя и аватар текущего пользователя; ответ кэшируется.
// Галереи, в отличие от профиля, никогда не кэшируются.
func (s *UserService) Details(ctx context.Context) (models.UserDetails, error) {
	const op = "user.Details"

	sess, ok := s.sessions.Current()
	if !ok {
		return models.UserDetails{}, fmt.Errorf("%s: %w", op, odoo.ErrSessionMissing)
	}

	if cached, found := s.cache.Get(cacheKey(sess.UserID)); found {
		return cached.(models.UserDetails), nil
	}

	details, err := s.gateway.FetchUserDetails(ctx)
	if err != nil {
		s.log.Error("failed to fetch user details", slog.String("op", op), sl.Err(err))
		return models.UserDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Set(cacheKey(sess.UserID), details, gocache.DefaultExpiration)

	return details, nil
}

func (s *UserService) RecentSessions(ctx context.Context) ([]models.RecentSession, error) {
	const op = "user.RecentSessions"

	if s.recent == nil {
		return nil, nil
	}

	sessions, err := s.recent.RecentSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}

// Logout сбрасывает активную сессию и кэш профиля
func (s *UserService) Logout() {
	s.sessions.Clear()
	s.cache.Flush()
}

func cacheKey(userID int) string {
	return "user_details:" + strconv.Itoa(userID)
}
