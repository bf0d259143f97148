package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/ports"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

// TokenCookieName cookie ที่ login ตั้งไว้
const TokenCookieName = "token"

// Protected middleware validates JWT tokens and sets user context
// รับ token จาก Authorization header ก่อน ถ้าไม่มีใช้ cookie
// revoked เป็น nil ได้ (ไม่ได้ตั้งค่า Redis)
func Protected(jwtSecret string, revoked ports.TokenRevocationPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		token := requestToken(c)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization token")
		}

		userCtx, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.WarnContext(ctx, "Token validation failed", "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "Token has expired")
			case errors.Is(err, utils.ErrMissingToken):
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx, token)
			if err != nil {
				// Redis ล่ม ไม่ block user
				logger.WarnContext(ctx, "Token revocation check failed", "error", err)
			} else if isRevoked {
				return utils.UnauthorizedResponse(c, utils.ErrRevokedToken.Error())
			}
		}

		c.Locals(utils.LocalsUserKey, userCtx)
		c.SetUserContext(logger.ContextWithUserID(ctx, userCtx.ID.String()))

		return c.Next()
	}
}

// WebSocketAuth เหมือน Protected แต่รับ token จาก query ?token= ได้ด้วย
// (browser ตั้ง header ตอน upgrade ไม่ได้)
func WebSocketAuth(jwtSecret string, revoked ports.TokenRevocationPort) fiber.Handler {
	protected := Protected(jwtSecret, revoked)
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			if token := c.Query("token"); token != "" {
				c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
			}
		}
		return protected(c)
	}
}

// requestToken token จาก header หรือ cookie
func requestToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		return utils.ExtractTokenFromHeader(header)
	}
	return c.Cookies(TokenCookieName)
}

// RequestToken ให้ handler (logout) ใช้ดึง token แบบเดียวกับ middleware
func RequestToken(c *fiber.Ctx) string {
	return requestToken(c)
}
