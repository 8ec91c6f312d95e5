package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers GET /healthz with a plain "ok".  It checks neither the
// backend nor Redis; a running process is healthy.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
