package jwt

import (
	"time"

	"odoo_gallery/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func NewToken(user models.UserDetails, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.UserID
	claims["name"] = user.UserName
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
