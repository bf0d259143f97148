package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/dto"
	"todo-api/domain/services"
	"todo-api/interfaces/api/middleware"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type AuthHandler struct {
	userService  services.UserService
	tokenTTL     time.Duration
	secureCookie bool
}

func NewAuthHandler(userService services.UserService, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			return utils.BadRequestResponse(c, "User already exists")
		}
		return utils.InternalServerErrorResponse(c, err.Error())
	}

	return utils.CreatedResponse(c, &dto.RegisterResponse{
		Message: "User registered successfully",
		User:    *dto.UserToUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	token, user, err := h.userService.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.UnauthorizedResponse(c, "Invalid credentials")
		}
		return utils.InternalServerErrorResponse(c, err.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return utils.SuccessResponse(c, &dto.LoginResponse{
		Message: "Login successful",
		UserID:  user.ID.String(),
		Token:   token,
		User:    *dto.UserToUserResponse(user),
	})
}

// Logout ไม่ต้องมี token ก็ได้ ลบ cookie เสมอ
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()

	// revoke ไม่สำเร็จ (เช่น Redis ล่ม) ยัง logout ได้ cookie ถูกล้างเสมอ
	if err := h.userService.Logout(ctx, middleware.RequestToken(c)); err != nil {
		logger.WarnContext(ctx, "Logout without token revocation", "error", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return utils.SuccessResponse(c, &dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	profile, err := h.userService.GetProfile(ctx, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.InternalServerErrorResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(profile))
}
