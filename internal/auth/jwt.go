// internal/auth/jwt.go
package auth

import (
	"errors"
	"log/slog"
	"time"

	"bayup-finance/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token claims")

type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
		now:       time.Now,
	}
}

// Генерация токена для магазина
func (s *TokenService) GenerateToken(merchantID int64) (string, error) {
	expTime := s.now().Add(s.expiresIn)
	claims := jwt.MapClaims{
		"merchant_id": merchantID,
		"exp":         expTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err == nil {
		slog.Info("JWT generated", "merchant_id", merchantID, "expires_at", expTime.Format(time.DateTime))
	}
	return tokenStr, err
}

// ParseToken возвращает merchant_id из валидного токена.
func (s *TokenService) ParseToken(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if idFloat, ok := claims["merchant_id"].(float64); ok {
			merchantID := int64(idFloat)
			if merchantID <= 0 {
				return 0, errors.New("invalid merchant_id")
			}
			slog.Debug("JWT parsed successfully", "merchant_id", merchantID)
			return merchantID, nil
		}
	}
	return 0, ErrInvalidToken
}
