package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
)

// CSRF protects the form POSTs with gorilla/csrf.  secure=false is for
// plain-HTTP development: requests are marked as plaintext so the origin
// check does not insist on https, and the token cookie is sent without the
// Secure flag.  The gateway callback must be registered outside the
// protected group since the gateway cannot present a token.
func CSRF(key []byte, secure bool) echo.MiddlewareFunc {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)
	return echo.WrapMiddleware(func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	})
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("요청이 만료되었습니다. 페이지를 새로고침한 뒤 다시 시도해주세요.\n"))
}
