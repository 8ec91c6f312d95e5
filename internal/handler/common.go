package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/api"
)

// Generic failure texts.
const (
	msgBackendError = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	msgNotFound     = "요청하신 페이지를 찾을 수 없습니다."
)

// seoul is the time zone sessions are scheduled in.
var seoul = loadSeoul()

func loadSeoul() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Printf("handler: load Asia/Seoul: %v; using fixed +09:00", err)
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// errorPage describes the generic error page.
type errorPage struct {
	Status    int
	Heading   string
	Message   string
	Link      string // escape link, "/" when empty
	LinkLabel string
	Retry     bool
	RetryURL  string
}

func renderError(c echo.Context, p errorPage) error {
	if p.Heading == "" {
		p.Heading = http.StatusText(p.Status)
	}
	return c.Render(p.Status, "error.html", echo.Map{
		"Title":     p.Heading,
		"Heading":   p.Heading,
		"Message":   p.Message,
		"Link":      p.Link,
		"LinkLabel": p.LinkLabel,
		"Retry":     p.Retry,
		"RetryURL":  p.RetryURL,
	})
}

// renderBackendError renders a not-found page for 404s and a retryable 502
// page for anything else.  notFound is the heading of the former.
func renderBackendError(c echo.Context, err error, notFound string) error {
	if errors.Is(err, api.ErrNotFound) {
		return renderError(c, errorPage{Status: http.StatusNotFound, Heading: notFound, Message: "주소를 다시 확인해주세요."})
	}
	c.Logger().Errorf("backend: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return renderError(c, errorPage{
		Status:   http.StatusBadGateway,
		Heading:  "오류가 발생했습니다",
		Message:  api.Message(err, msgBackendError),
		Retry:    c.Request().Method == http.MethodGet,
		RetryURL: c.Request().URL.RequestURI(),
	})
}

// clientError reports whether err is a 4xx answer from the backend, which
// is shown inline on the form that caused it.
func clientError(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

// ErrorHandler renders echo's own errors (unknown route, 403 from the role
// guard, 429 from the limiter, panics recovered as 500) as error pages.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := msgBackendError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		if status == http.StatusNotFound {
			msg = msgNotFound
		}
	}
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("http: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	if rerr := renderError(c, errorPage{Status: status, Message: msg}); rerr != nil {
		c.Logger().Errorf("http: render error page: %v", rerr)
		_ = c.String(status, msg)
	}
}
