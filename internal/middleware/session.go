// Package middleware provides HTTP middleware components for the console.
package middleware

import (
	"time"

	"fraudconsole/internal/console"
	"fraudconsole/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SessionCookie names the cookie carrying the signed session id.
const SessionCookie = "console_session"

// SessionMiddleware binds each request to a console session.
// The cookie holds an HS256 token whose claims name the session id.
type SessionMiddleware struct {
	store  *console.Store
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionMiddleware(store *console.Store, secret []byte, ttl time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		store:  store,
		secret: secret,
		ttl:    ttl,
		secure: secure,
	}
}

// Fresh always starts a new session. It guards page loads, so reloading the
// page drops the history.
func (m *SessionMiddleware) Fresh(c *fiber.Ctx) error {
	sess := m.store.Create()
	if err := m.issue(c, sess); err != nil {
		return err
	}
	c.Locals(utils.SessionKey, sess)
	return c.Next()
}

// Resume reuses the session named by the cookie, or starts one when the
// cookie is missing, invalid or points at a swept session. A reused session
// gets a re-signed cookie so its expiry slides with activity, matching the
// store's idle sweep.
func (m *SessionMiddleware) Resume(c *fiber.Ctx) error {
	sess, ok := m.lookup(c)
	if !ok {
		sess = m.store.Create()
	}

	if err := m.issue(c, sess); err != nil {
		return err
	}
	c.Locals(utils.SessionKey, sess)
	return c.Next()
}

func (m *SessionMiddleware) lookup(c *fiber.Ctx) (*console.Session, bool) {
	raw := c.Cookies(SessionCookie)
	if raw == "" {
		return nil, false
	}

	claims, err := utils.ParseSessionToken(m.secret, raw)
	if err != nil {
		log.Debug().Err(err).Msg("rejected session cookie")
		return nil, false
	}
	return m.store.Get(claims.SessionID)
}

func (m *SessionMiddleware) issue(c *fiber.Ctx, sess *console.Session) error {
	token, err := utils.GenerateSessionToken(m.secret, sess.ID, m.ttl)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign session token")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to start session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}
