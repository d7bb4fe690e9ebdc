package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/gema-lms-api/internal/utils"
)

var (
	errMissingToken = utils.Unauthorized("authentication required")
	errInvalidToken = utils.Unauthorized("invalid token")
)

// JWTProtected validates HMAC-signed tokens from the Authorization bearer header or,
// when absent, from the named cookie. The user id and role claims are stored in locals.
func JWTProtected(secret, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c, cookieName)
		if err != nil {
			return err
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return errInvalidToken
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return errInvalidToken
		}

		userID := extractUserIDFromClaims(claims)
		if userID == nil {
			return errInvalidToken
		}
		c.Locals("user_id", *userID)
		if role := extractUserRoleFromClaims(claims); role != "" {
			c.Locals("user_role", role)
		}

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, cookieName string) (string, error) {
	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authorization != "" {
		const bearer = "bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), bearer) {
			return "", utils.Unauthorized("invalid authorization header")
		}
		token := strings.TrimSpace(authorization[len(bearer):])
		if token == "" {
			return "", errInvalidToken
		}
		return token, nil
	}

	if cookieName != "" {
		if token := strings.TrimSpace(c.Cookies(cookieName)); token != "" {
			return token, nil
		}
	}

	return "", errMissingToken
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil && normalized > 0 {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func extractUserRoleFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"role", "roles"} {
		if value, ok := claims[key]; ok {
			if role := normalizeRole(value); role != "" {
				return role
			}
		}
	}
	return ""
}

func normalizeRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				if role := strings.ToLower(strings.TrimSpace(str)); role != "" {
					return role
				}
			}
		}
	}
	return ""
}
