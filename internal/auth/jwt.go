package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/bizmanage/internal/models"
)

var (
	mu        sync.RWMutex
	jwtSecret []byte
	accessTTL = 15 * time.Minute
)

var (
	ErrMissingToken = errors.New("missing or invalid token")
	ErrInvalidToken = errors.New("invalid token")
)

// Configure sets the signing secret and access token lifetime. It must run before tokens are issued.
func Configure(secret string, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	jwtSecret = []byte(secret)
	if ttl > 0 {
		accessTTL = ttl
	}
}

func signingKey() ([]byte, time.Duration) {
	mu.RLock()
	defer mu.RUnlock()
	return jwtSecret, accessTTL
}

type Claims struct {
	UserID   int    `json:"sub"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func GenerateToken(user models.User) (string, error) {
	secret, ttl := signingKey()
	if len(secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenStr string) (*jwt.Token, error) {
	secret, _ := signingKey()
	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

// TokenClaims validates a "Bearer <jwt>" header value and extracts its claims.
func TokenClaims(authorization string) (Claims, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return Claims{}, ErrMissingToken
	}

	token, err := ParseToken(strings.TrimPrefix(authorization, "Bearer "))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	c := Claims{UserID: int(sub)}
	c.Username, _ = mc["username"].(string)
	c.Role, _ = mc["role"].(string)
	return c, nil
}
