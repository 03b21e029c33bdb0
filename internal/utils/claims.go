package utils

import (
	"errors"

	"fraudconsole/internal/console"

	"github.com/gofiber/fiber/v2"
)

// SessionKey is the fiber.Locals key the session middleware stores under.
const SessionKey = "session"

// GetSession extracts the console session from the Fiber context.
func GetSession(c *fiber.Ctx) (*console.Session, error) {
	v := c.Locals(SessionKey)
	if v == nil {
		return nil, errors.New("session not found in context")
	}

	sess, ok := v.(*console.Session)
	if !ok {
		return nil, errors.New("invalid session type")
	}
	return sess, nil
}
