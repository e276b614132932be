package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/raffayuda/lesson-app/internals/configs"
)

// Umur token mengikuti kontrak lama: 7 hari, tanpa refresh token.
// Revoke tidak mungkin selain rotasi secret.
const AccessTokenTTL = 7 * 24 * time.Hour

// GenerateAccessToken membuat JWT HS256 dengan sub = user id.
func GenerateAccessToken(userID uuid.UUID) (string, error) {
	secret := configs.JWTSecret
	if secret == "" {
		return "", errors.New("JWT_SECRET belum diset")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken memverifikasi token dan mengembalikan user id-nya.
func ParseAccessToken(tokenString string) (uuid.UUID, error) {
	secret := configs.JWTSecret
	if secret == "" {
		return uuid.Nil, errors.New("JWT_SECRET belum diset")
	}

	claims := jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}); err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.Subject)
}
