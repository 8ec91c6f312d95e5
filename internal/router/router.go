package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/handler"
	"github.com/classhub/classhub-web/internal/middleware"
	"github.com/classhub/classhub-web/internal/utils"
)

const instructorLogin = "/instructor/login"

// RegisterRoutes registers the routes that live outside the CSRF-protected
// page group: the health check and the payment gateway callback, which is
// posted cross-site by the gateway and carries no token.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.POST("/api/payment/callback", handler.PaymentCallback)
}

// Pages returns the group every HTML page is registered on.  All its
// unsafe methods require a CSRF token.
func Pages(e *echo.Echo, csrf echo.MiddlewareFunc) *echo.Group {
	return e.Group("", csrf)
}

// RegisterClasses registers the public class pages, the enrollment flow and
// the payment pages.  cache fronts the class page only; limit guards the
// enrollment POST.
func RegisterClasses(g *echo.Group, c *handler.ClassHandler, p *handler.PaymentHandler, cache, limit echo.MiddlewareFunc) {
	g.GET("/", c.Home)
	g.GET("/class", c.Lookup)
	g.GET("/class/:classCode", c.Show, cache)
	g.GET("/class/:classCode/apply", c.ApplyForm)
	g.POST("/class/:classCode/reservations", c.Reserve, limit)

	g.GET("/payment", p.CheckoutPage)
	g.GET("/payment/result", p.Result)
}

// RegisterReservations registers reservation lookup, detail, cancellation
// and the QR attendance check.
func RegisterReservations(g *echo.Group, r *handler.ReservationHandler, limit echo.MiddlewareFunc) {
	g.GET("/reservations", r.SearchPage)
	g.POST("/reservations/search", r.Search, limit)
	g.GET("/reservations/:reservationCode", r.Detail)
	g.POST("/reservations/:reservationCode/cancel", r.Cancel, limit)
	g.GET("/attendance/:reservationCode", r.Attendance)
}

// RegisterInstructor registers the instructor pages.  Login and logout are
// open; the class pages require a valid session cookie with the
// INSTRUCTOR role and send everyone else to the login page.
func RegisterInstructor(g *echo.Group, i *handler.InstructorHandler, secret string, limit echo.MiddlewareFunc) {
	open := g.Group("/instructor")
	open.GET("/login", i.LoginPage)
	open.POST("/login", i.Login, limit)
	open.POST("/logout", i.Logout)

	auth := g.Group("/instructor",
		middleware.SessionAuth(secret, instructorLogin),
		middleware.RequireRole(utils.RoleInstructor),
	)
	auth.GET("/classes", i.ClassList)
	auth.GET("/class/:classCode", i.ClassDetail)
}
