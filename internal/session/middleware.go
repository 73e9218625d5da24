package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"crimetracker/internal/model"
	"crimetracker/internal/repository"
)

// CookieName is the cookie carrying the session token. API clients may send
// the same token as a bearer Authorization header instead.
const CookieName = "session_token"

const (
	ctxUserKey  = "session.user"
	ctxTokenKey = "session.token"
)

// Middleware resolves the caller's identity from the incoming session
// reference and caches it on the request context. It never rejects a request:
// handlers decide between 401 and 403 themselves.
func Middleware(store Store, users repository.UserRepository, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return next(c)
			}
			c.Set(ctxTokenKey, token)

			ctx := c.Request().Context()
			sess, err := store.Get(ctx, token)
			if err != nil {
				return next(c)
			}

			user, err := users.FindByID(ctx, sess.UserID)
			if err != nil {
				return next(c)
			}

			// Sliding window: each authenticated request extends the session.
			_ = store.Touch(ctx, token, ttl)

			WithUser(c, user)
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

// WithUser caches the resolved caller on the request context.
func WithUser(c echo.Context, user *model.User) {
	c.Set(ctxUserKey, user)
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ctxUserKey).(*model.User)
	return user, ok && user != nil
}

// IsAuthenticated reports whether the request carries a valid session.
func IsAuthenticated(c echo.Context) bool {
	_, ok := CurrentUser(c)
	return ok
}

// Token returns the raw session reference from the request, valid or not.
func Token(c echo.Context) string {
	token, _ := c.Get(ctxTokenKey).(string)
	return token
}

// SetCookie attaches a session cookie to the response.
func SetCookie(c echo.Context, token string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
