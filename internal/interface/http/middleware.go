package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/finwiss-hub/finwiss-learning-hub/pkg/auth"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// Locals keys.
const (
	localUserID    = "userID"
	localUsername  = "username"
	localRequestID = "requestID"
)

// RequestID assigns a request ID, honoring an incoming X-Request-ID.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(localRequestID, id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		log.Info("request",
			logger.String("request_id", requestID(c)),
			logger.String("method", c.Method()),
			logger.String("path", c.Path()),
			logger.Int("status", status),
			logger.Latency(time.Since(start)),
		)
		return err
	}
}

// Auth verifies the bearer token and stores the user identity in locals.
func Auth(tokens *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return unauthorized(c, "missing authorization header")
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return unauthorized(c, "authorization header must use the Bearer scheme")
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localUsername, claims.Username)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localRequestID).(string); ok {
		return id
	}
	return ""
}

func currentUserID(c *fiber.Ctx) int64 {
	if id, ok := c.Locals(localUserID).(int64); ok {
		return id
	}
	return 0
}
