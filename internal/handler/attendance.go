package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/api"
)

// Attendance handles GET /attendance/:reservationCode, the target of the
// QR code shown at the venue.  Opening it marks the reservation attended.
func (h *ReservationHandler) Attendance(c echo.Context) error {
	code := c.Param("reservationCode")
	status, success, msg := http.StatusOK, true, "출석 처리가 완료되었습니다."
	if err := h.Reservations.MarkAttendance(c.Request().Context(), code); err != nil {
		success = false
		msg = api.Message(err, "출석 처리에 실패했습니다.")
		switch {
		case errors.Is(err, api.ErrNotFound):
			status = http.StatusNotFound
		case clientError(err):
			status = http.StatusConflict
		default:
			c.Logger().Errorf("attendance: %s: %v", code, err)
			status = http.StatusBadGateway
		}
	}
	return c.Render(status, "attendance.html", echo.Map{
		"Title":           "출석 확인",
		"Success":         success,
		"Message":         msg,
		"ReservationCode": code,
	})
}
