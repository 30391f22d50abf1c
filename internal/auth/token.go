package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

// TokenTTL — срок жизни сессионного токена. Фиксируется при выпуске
// и не продлевается: по истечении требуется повторная аутентификация.
const TokenTTL = 7 * 24 * time.Hour

// Claims — структура утверждений: стандартные утверждения JWT
// плюс одно пользовательское UserID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken выпускает подписанный HS256-токен с идентификатором
// пользователя и сроком действия validityDuration от текущего момента.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken проверяет подпись и срок действия токена и возвращает
// идентификатор пользователя. Любая проблема (неверная подпись,
// искаженная полезная нагрузка, истекший срок) — domain.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", domain.ErrInvalidToken
	}

	return claims.UserID, nil
}
