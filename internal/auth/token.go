package auth

import (
	"fmt"
	"strconv"
	"time"

	"pizza-paradise/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access tokens from refresh tokens, so one can
// never be presented where the other is expected.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// TokenManager issues and verifies signed HS256 tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a token manager signing with the given secret.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue creates a signed token pair for the principal.
func (m *TokenManager) Issue(principal model.Principal) (access, refresh string, err error) {
	now := time.Now()

	access, err = m.sign(principal, KindAccess, now, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.sign(principal, KindRefresh, now, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *TokenManager) sign(principal model.Principal, kind TokenKind, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(principal.UserID, 10),
		"role": string(principal.Role),
		"kind": string(kind),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// AccessTTL reports how long issued access tokens live.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// Parse verifies a token of the expected kind and returns its principal.
func (m *TokenManager) Parse(raw string, kind TokenKind) (*model.Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, model.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	if got, _ := claims["kind"].(string); got != string(kind) {
		return nil, model.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, model.ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return nil, model.ErrInvalidToken
	}

	return &model.Principal{
		UserID: userID,
		Role:   model.Role(role),
	}, nil
}
