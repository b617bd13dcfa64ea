package middleware

import (
	"github.com/gofiber/fiber/v2"

	"academy/backend/access"
	"academy/backend/config"
	"academy/backend/utils"
)

const (
	localUserID       = "userId"
	localEntitlements = "entitlements"
)

// WithIdentity resolves the session token when one is present and
// stores the requester's id and entitlements in locals. Anonymous
// requests pass through untouched; read paths degrade to the free tier.
func WithIdentity(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session, err := utils.ExtractSession(c, cfg); err == nil {
			c.Locals(localUserID, session.UserID)
			c.Locals(localEntitlements, session.Entitlements)
		}
		return c.Next()
	}
}

// RequireAuth rejects requests without a valid session token.
func RequireAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := utils.ExtractSession(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "A valid session token is required")
		}
		c.Locals(localUserID, session.UserID)
		c.Locals(localEntitlements, session.Entitlements)
		return c.Next()
	}
}

// RequireUltra rejects requests from members without the ultra plan.
func RequireUltra(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := utils.ExtractSession(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "A valid session token is required")
		}
		if !session.Entitlements.Ultra {
			return utils.Forbidden(c, "Ultra membership required")
		}
		c.Locals(localUserID, session.UserID)
		c.Locals(localEntitlements, session.Entitlements)
		return c.Next()
	}
}

// RequireAdmin rejects requests from members without the admin role.
func RequireAdmin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := utils.ExtractSession(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "A valid session token is required")
		}
		if !session.Admin {
			return utils.Forbidden(c, "Admin access required")
		}
		c.Locals(localUserID, session.UserID)
		c.Locals(localEntitlements, session.Entitlements)
		return c.Next()
	}
}

// UserID returns the authenticated requester's id, or "" for anonymous
// callers.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localUserID).(string); ok {
		return id
	}
	return ""
}

// Entitlements returns the requester's held plans. Anonymous callers
// get the zero value, which grants free-tier access only.
func Entitlements(c *fiber.Ctx) access.Entitlements {
	if e, ok := c.Locals(localEntitlements).(access.Entitlements); ok {
		return e
	}
	return access.Entitlements{}
}
