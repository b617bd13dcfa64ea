package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"academy/backend/access"
	"academy/backend/config"
)

// Session captures what the identity provider asserts about the
// requester: who they are and which plans they hold. Nothing else from
// the provider is consumed.
type Session struct {
	UserID       string
	Entitlements access.Entitlements
	Admin        bool
}

// GenerateSessionToken mints a session token in the shape the identity
// provider issues. Used by tests and local tooling.
func GenerateSessionToken(userID string, plans []string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"plans":   plans,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SessionSecret))
}

// ExtractSession verifies the request's session token and returns the
// requester's identity and entitlements. Any verification failure is
// unauthorized; entitlements are never guessed from a bad token.
func ExtractSession(c *fiber.Ctx, cfg *config.Config) (*Session, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.SessionSecret), nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	session := &Session{UserID: userID}
	if plans, ok := claims["plans"].([]interface{}); ok {
		for _, p := range plans {
			switch p {
			case "pro":
				session.Entitlements.Pro = true
			case "ultra":
				session.Entitlements.Ultra = true
			case "admin":
				session.Admin = true
			}
		}
	}

	return session, nil
}
