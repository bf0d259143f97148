package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingToken = errors.New("missing token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// LocalsUserKey key ของ UserContext ใน fiber locals
const LocalsUserKey = "user"

// JWTClaims มีแค่ user id เป็น claim ของ application (+ exp/iat)
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type UserContext struct {
	ID        uuid.UUID
	Token     string
	ExpiresAt time.Time
}

// GenerateToken สร้าง HS256 token อายุ ttl
func GenerateToken(userID uuid.UUID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString, jwtSecret string) (*UserContext, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &UserContext{
		ID:        userID,
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ExtractTokenFromHeader รับ "Bearer <token>" คืน token หรือ "" ถ้า format ผิด
func ExtractTokenFromHeader(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func GetUserFromContext(c *fiber.Ctx) (*UserContext, error) {
	userCtx, ok := c.Locals(LocalsUserKey).(*UserContext)
	if !ok || userCtx == nil {
		return nil, errors.New("user not found in context")
	}
	return userCtx, nil
}
