package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/api"
	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/phone"
)

const (
	msgReservationNotFound = "예약 정보를 찾을 수 없습니다."
	msgCancelClosed        = "수업 시작 12시간 전까지만 취소할 수 있습니다."
	msgAlreadyCancelled    = "이미 취소된 예약입니다."
	msgCancelled           = "예약이 취소되었습니다."
	refundReason           = "고객 직접 예약 취소"
)

// ReservationHandler serves search, detail and cancellation of
// reservations for applicants.
type ReservationHandler struct {
	Reservations api.ReservationAPI
	Payments     api.PaymentAPI
	now          func() time.Time
}

// NewReservationHandler constructs a ReservationHandler and panics if any
// dependency is nil.
func NewReservationHandler(reservations api.ReservationAPI, payments api.PaymentAPI) *ReservationHandler {
	if reservations == nil || payments == nil {
		panic("nil api client passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Payments: payments, now: time.Now}
}

// searchForm is posted to /reservations/search.
type searchForm struct {
	Name     string `form:"name" validate:"required,max=50"`
	Phone    string `form:"phone" validate:"required,krphone"`
	Password string `form:"password" validate:"required,len=4,numeric"`
}

// SearchPage handles GET /reservations.
func (h *ReservationHandler) SearchPage(c echo.Context) error {
	return h.renderSearch(c, http.StatusOK, searchForm{}, map[string]string{}, "", false, nil)
}

func (h *ReservationHandler) renderSearch(c echo.Context, status int, form searchForm, errs map[string]string, formErr string, searched bool, results []model.ReservationDetail) error {
	form.Password = ""
	return c.Render(status, "reservations.html", echo.Map{
		"Title":     "예약 조회",
		"Form":      form,
		"Errors":    errs,
		"FormError": formErr,
		"Searched":  searched,
		"Results":   results,
	})
}

// Search handles POST /reservations/search.  The phone number is
// normalised before the lookup so any spelling of it matches.
func (h *ReservationHandler) Search(c echo.Context) error {
	var form searchForm
	if err := c.Bind(&form); err != nil {
		return h.renderSearch(c, http.StatusUnprocessableEntity, form, map[string]string{}, "입력값을 확인해주세요.", false, nil)
	}
	form.Name = strings.TrimSpace(form.Name)
	if err := c.Validate(&form); err != nil {
		return h.renderSearch(c, http.StatusUnprocessableEntity, form, fieldErrors(err), "", false, nil)
	}
	formatted, err := phone.Validate(form.Phone)
	if err != nil {
		return h.renderSearch(c, http.StatusUnprocessableEntity, form, map[string]string{"phone": err.Error()}, "", false, nil)
	}
	form.Phone = formatted

	results, err := h.Reservations.Search(c.Request().Context(), form.Name, formatted, form.Password)
	if err != nil {
		c.Logger().Errorf("reservation: search: %v", err)
		return h.renderSearch(c, http.StatusBadGateway, form, map[string]string{}, api.Message(err, "조회 중 오류가 발생했습니다."), false, nil)
	}
	return h.renderSearch(c, http.StatusOK, form, map[string]string{}, "", true, results)
}

// Detail handles GET /reservations/:reservationCode.
func (h *ReservationHandler) Detail(c echo.Context) error {
	detail, err := h.Reservations.GetByCode(c.Request().Context(), c.Param("reservationCode"))
	if err != nil {
		return renderBackendError(c, err, msgReservationNotFound)
	}
	notice := ""
	if c.QueryParam("cancelled") == "1" && detail.Cancelled() {
		notice = msgCancelled
	}
	return h.renderDetail(c, http.StatusOK, detail, notice, "")
}

func (h *ReservationHandler) renderDetail(c echo.Context, status int, detail *model.ReservationDetail, notice, formErr string) error {
	var pay *model.Payment
	if detail.ReservationID > 0 {
		p, err := h.Payments.GetByReservationID(c.Request().Context(), detail.ReservationID)
		if err == nil {
			pay = p
		} else if !errors.Is(err, api.ErrNotFound) {
			c.Logger().Warnf("reservation: payment of %s: %v", detail.ReservationCode, err)
		}
	}
	return c.Render(status, "reservation.html", echo.Map{
		"Title":       detail.ClassTitle,
		"Reservation": detail,
		"Payment":     pay,
		"CanCancel":   detail.CanCancel(h.now(), seoul),
		"Notice":      notice,
		"FormError":   formErr,
	})
}

// Cancel handles POST /reservations/:reservationCode/cancel.  Past the
// cutoff the request is refused.  A completed payment is refunded first on
// a best-effort basis; the reservation is cancelled either way.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	code := c.Param("reservationCode")
	detail, err := h.Reservations.GetByCode(ctx, code)
	if err != nil {
		return renderBackendError(c, err, msgReservationNotFound)
	}
	if detail.Cancelled() {
		return h.renderDetail(c, http.StatusConflict, detail, "", msgAlreadyCancelled)
	}
	if !detail.CanCancel(h.now(), seoul) {
		return h.renderDetail(c, http.StatusConflict, detail, "", msgCancelClosed)
	}

	h.refund(c, detail)

	if err := h.Reservations.Cancel(ctx, code); err != nil {
		if clientError(err) && !errors.Is(err, api.ErrNotFound) {
			return h.renderDetail(c, http.StatusConflict, detail, "", api.Message(err, "취소에 실패했습니다."))
		}
		return renderBackendError(c, err, msgReservationNotFound)
	}
	c.Logger().Infof("reservation: %s cancelled by applicant", code)
	return c.Redirect(http.StatusSeeOther, "/reservations/"+url.PathEscape(code)+"?cancelled=1")
}

// refund cancels the reservation's payment when it was completed.  Failures
// are logged and do not stop the cancellation.
func (h *ReservationHandler) refund(c echo.Context, detail *model.ReservationDetail) {
	ctx := c.Request().Context()
	pay, err := h.Payments.GetByReservationID(ctx, detail.ReservationID)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			c.Logger().Warnf("reservation: payment lookup for %s: %v", detail.ReservationCode, err)
		}
		return
	}
	if !pay.Refundable() {
		return
	}
	res, err := h.Payments.Cancel(ctx, model.CancelPaymentRequest{
		TID:    pay.TID,
		Amount: pay.Amount,
		Reason: refundReason,
	})
	if err != nil {
		c.Logger().Warnf("reservation: refund of %s (tid %s): %v", detail.ReservationCode, pay.TID, err)
		return
	}
	if !res.Success {
		c.Logger().Warnf("reservation: refund of %s rejected: %s %s", detail.ReservationCode, res.ResultCode, res.ResultMsg)
	}
}
