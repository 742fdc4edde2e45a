package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrEmptySecret возвращается, когда секрет подписи не задан.
var ErrEmptySecret = errors.New("token: empty secret")

// TokenManager проверяет access токены внешнего провайдера идентификации.
// Subject токена - идентификатор владельца портфолио.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenManager создаёт менеджер токенов. issuer и audience проверяются, только если заданы.
func NewTokenManager(secret, issuer, audience string) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

// ParseAccess проверяет подпись и срок действия токена и возвращает идентификатор владельца.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, error) {
	if len(m.secret) == 0 {
		return uuid.Nil, ErrEmptySecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token: invalid subject: %w", err)
	}

	return ownerID, nil
}

// IssueAccess выпускает токен для владельца. Используется в skillctl для локальной разработки.
func (m *TokenManager) IssueAccess(ownerID uuid.UUID, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrEmptySecret
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID.String(),
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
