package middleware // middleware provides shared request processing for the page handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/utils"
)

// SessionCookie is the name of the cookie holding the instructor session JWT.
const SessionCookie = "classhub_session"

// Context keys set by SessionAuth.
const (
	ctxInstructorID   = "instructor_id"
	ctxInstructorName = "instructor_name"
	ctxRole           = "role"
)

// SessionAuth returns an Echo middleware that validates the instructor
// session cookie and injects the instructor id, name and role into the
// request context.  Requests without a valid session are redirected to
// loginPath with the original path as the "next" parameter; the stale cookie
// is cleared.
func SessionAuth(secret, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				return redirectToLogin(c, loginPath)
			}
			claims, err := utils.ParseSessionToken(secret, ck.Value)
			if err != nil {
				c.Logger().Infof("session: rejected cookie: %v", err)
				ClearSession(c)
				return redirectToLogin(c, loginPath)
			}
			c.Set(ctxInstructorID, claims.InstructorID)
			c.Set(ctxInstructorName, claims.Name)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context, loginPath string) error {
	target := loginPath
	if p := c.Request().URL.RequestURI(); p != "" && p != "/" {
		target += "?next=" + url.QueryEscape(p)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// SetSession stores a freshly issued session token in the cookie.
func SetSession(c echo.Context, tok utils.SessionToken, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func ClearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
