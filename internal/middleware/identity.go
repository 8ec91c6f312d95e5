package middleware

// identity.go exposes the instructor identity stored by SessionAuth.  The
// rate limiter keys on it as well; requests without a session count as
// "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// InstructorID returns the authenticated instructor id, if any.
func InstructorID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ctxInstructorID).(int64)
	return id, ok && id > 0
}

// InstructorName returns the display name carried by the session.
func InstructorName(c echo.Context) string {
	name, _ := c.Get(ctxInstructorName).(string)
	return name
}

// userID returns a stable identifier for the caller: the instructor id when
// a session is present and "anon" otherwise.
func userID(c echo.Context) string {
	if id, ok := InstructorID(c); ok {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}
