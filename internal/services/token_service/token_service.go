package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"odoo_gallery/internal/domain/models"
	libjwt "odoo_gallery/internal/lib/jwt"
	"odoo_gallery/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
	ErrTokenNotInStorage  = errors.New("token not found in storage")
)

const (
	AccessTokenExpire  = 15 * time.Minute
	RefreshTokenExpire = 7 * 24 * time.Hour
)

type TokenService struct {
	repo   repository.TokenRepository
	secret string
}

func NewTokenService(repo repository.TokenRepository, secret string) *TokenService {
	return &TokenService{repo: repo, secret: secret}
}

func (s *TokenService) GenerateTokens(user models.UserDetails) (*models.TokenPair, error) {
	accessToken, err := libjwt.NewToken(user, s.secret, AccessTokenExpire)
	if err != nil {
		return nil, err
	}

	refreshToken, err := libjwt.NewToken(user, s.secret, RefreshTokenExpire)
	if err != nil {
		return nil, err
	}

	err = s.repo.SaveRefreshToken(context.Background(), strconv.Itoa(user.UserID), refreshToken, RefreshTokenExpire)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:       user.UserID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens меняет refresh-токен на новую пару. Старый токен
// удаляется из хранилища, повторное использование невозможно.
func (s *TokenService) RefreshTokens(refreshToken string) (*models.TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}
	userID := strconv.Itoa(int(uid))

	exists, err := s.repo.GetRefreshToken(context.Background(), userID, refreshToken)
	if err != nil || !exists {
		return nil, ErrTokenNotInStorage
	}

	if err := s.repo.DeleteRefreshToken(context.Background(), userID, refreshToken); err != nil {
		return nil, err
	}

	user := models.UserDetails{UserID: int(uid)}
	if name, ok := claims["name"].(string); ok {
		user.UserName = name
	}

	return s.GenerateTokens(user)
}

func (s *TokenService) RevokeAll(ctx context.Context, userID int) error {
	return s.repo.DeleteAllUserTokens(ctx, strconv.Itoa(userID))
}
