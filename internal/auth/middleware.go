package auth

import (
	"fmt"
	"strings"

	"floatflow-backend/internal/config"
	"floatflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const CtxActorKey = "actor"

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}
		if !models.ValidRole(claims.Role) {
			return fiber.NewError(fiber.StatusForbidden, "Unknown role in token")
		}

		c.Locals(CtxActorKey, models.Actor{
			ID:             claims.UserID,
			Role:           claims.Role,
			BranchLocation: claims.BranchLocation,
			FullName:       claims.FullName,
		})

		return c.Next()
	}
}

// ActorFromCtx pulls the authenticated principal set by JWTMiddleware.
func ActorFromCtx(c *fiber.Ctx) (models.Actor, error) {
	actor, ok := c.Locals(CtxActorKey).(models.Actor)
	if !ok {
		return models.Actor{}, fiber.NewError(fiber.StatusForbidden, "Actor information missing")
	}
	return actor, nil
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromCtx(c)
		if err != nil {
			return err
		}
		for _, r := range allowedRoles {
			if r == actor.Role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Insufficient privileges for this operation")
	}
}
