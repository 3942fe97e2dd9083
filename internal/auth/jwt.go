package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chimgan/sales/internal/utils"
)

// Claims are the custom claims of user and admin tokens. Admin tokens carry no user id.
type Claims struct {
	UserID  string `json:"user_id,omitempty"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// ID returns the user id of the token; admin tokens yield the zero id.
func (c *Claims) ID() (utils.SixID, error) {
	return utils.ParseSixID(c.UserID)
}

// GenerateJWT signs a token for a marketplace user.
func GenerateJWT(userID utils.SixID, secretKey string, ttl time.Duration) (string, error) {
	return sign(&Claims{UserID: userID.String()}, userID.String(), secretKey, ttl)
}

// GenerateAdminJWT signs a token for the panel administrator identified by email.
func GenerateAdminJWT(email, secretKey string, ttl time.Duration) (string, error) {
	return sign(&Claims{IsAdmin: true}, email, secretKey, ttl)
}

func sign(claims *Claims, subject, secretKey string, ttl time.Duration) (string, error) {
	if secretKey == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Subject:   subject,
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT verifies signature and expiry and returns the claims.
func ValidateJWT(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid JWT")
	}
	return claims, nil
}
