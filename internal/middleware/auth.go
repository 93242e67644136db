package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/groupmod/backend/internal/auth"
	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/http/dto"
	"github.com/groupmod/backend/internal/rbac"
	"go.uber.org/zap"
)

const CtxOperatorID = "operator_id"

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid or expired token"})
		}

		c.Locals(CtxOperatorID, claims.OperatorID)
		return c.Next()
	}
}

func GetOperatorID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxOperatorID).(string)
	return id
}

// RequirePermission rejects operators whose role lacks perm.
func RequirePermission(cfg *config.Config, perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := rbac.RoleFor(GetOperatorID(c), cfg.AdminOperatorIDs)
		if !rbac.HasPermission(role, perm) {
			msg := "permission denied"
			if rbac.IsWriteOperation(perm) {
				msg = "admin access required"
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: msg})
		}
		return c.Next()
	}
}
