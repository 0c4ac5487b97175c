package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "AccessToken"
	TokenTypeRefresh = "RefreshToken"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenClaims is the claim shape shared by staff and guest tokens.
type TokenClaims struct {
	UserID    uint   `json:"userId"`
	Role      string `json:"role"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// TokenMaker signs and verifies session tokens. Access and refresh
// tokens use distinct secrets, and each carries a tokenType claim that
// must match the verifier's expectation: a refresh token presented where
// an access token is expected is rejected even if its signature checks
// out.
type TokenMaker struct {
	accessSecret  []byte
	refreshSecret []byte
}

func NewTokenMaker(accessSecret, refreshSecret string) *TokenMaker {
	return &TokenMaker{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

func (tm *TokenMaker) SignAccessToken(userID uint, role string, ttl time.Duration) (string, error) {
	return tm.sign(userID, role, TokenTypeAccess, tm.accessSecret, time.Now().Add(ttl))
}

func (tm *TokenMaker) SignRefreshToken(userID uint, role string, ttl time.Duration) (string, error) {
	return tm.sign(userID, role, TokenTypeRefresh, tm.refreshSecret, time.Now().Add(ttl))
}

// SignRefreshTokenWithExpiry issues a refresh token with an explicit
// expiry. Rotation uses it so the new token keeps the old one's horizon
// instead of extending the session forever.
func (tm *TokenMaker) SignRefreshTokenWithExpiry(userID uint, role string, expiresAt time.Time) (string, error) {
	return tm.sign(userID, role, TokenTypeRefresh, tm.refreshSecret, expiresAt)
}

func (tm *TokenMaker) sign(userID uint, role, tokenType string, secret []byte, expiresAt time.Time) (string, error) {
	claims := &TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (tm *TokenMaker) VerifyAccessToken(tokenString string) (*TokenClaims, error) {
	return tm.verify(tokenString, TokenTypeAccess, tm.accessSecret)
}

func (tm *TokenMaker) VerifyRefreshToken(tokenString string) (*TokenClaims, error) {
	return tm.verify(tokenString, TokenTypeRefresh, tm.refreshSecret)
}

func (tm *TokenMaker) verify(tokenString, wantType string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
