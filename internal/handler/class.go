package handler

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/api"
	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/phone"
)

const msgClassNotFound = "클래스를 찾을 수 없습니다."

// ClassHandler serves the public class pages and the enrollment form.
type ClassHandler struct {
	Classes      api.ClassAPI
	Reservations api.ReservationAPI
	Payments     api.PaymentAPI
}

// NewClassHandler constructs a ClassHandler and panics if any dependency is nil.
func NewClassHandler(classes api.ClassAPI, reservations api.ReservationAPI, payments api.PaymentAPI) *ClassHandler {
	if classes == nil || reservations == nil || payments == nil {
		panic("nil api client passed to NewClassHandler")
	}
	return &ClassHandler{Classes: classes, Reservations: reservations, Payments: payments}
}

// reservationForm is the enrollment form posted to /class/:classCode/reservations.
type reservationForm struct {
	SessionID     int64  `form:"sessionId" validate:"required,gt=0"`
	ApplicantName string `form:"applicantName" validate:"required,max=50"`
	PhoneNumber   string `form:"phoneNumber" validate:"required,krphone"`
	Password      string `form:"password" validate:"required,len=4,numeric"`
}

// Home handles GET /: the class code entry page.
func (h *ClassHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", echo.Map{"Title": ""})
}

// Lookup handles GET /class?code=…, the target of the home form.
func (h *ClassHandler) Lookup(c echo.Context) error {
	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Redirect(http.StatusSeeOther, "/class/"+url.PathEscape(code))
}

// loadClass fetches the class with its sessions sorted by start.  Sessions
// come from the class document when present and from the sessions endpoint
// otherwise; a failure there leaves the list empty.
func (h *ClassHandler) loadClass(c echo.Context, code string) (*model.Class, error) {
	ctx := c.Request().Context()
	cls, err := h.Classes.GetByClassCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(cls.Sessions) == 0 && cls.ID > 0 {
		sessions, err := h.Classes.GetSessionsByClassID(ctx, cls.ID)
		if err != nil {
			c.Logger().Warnf("class: sessions of class %d: %v", cls.ID, err)
		}
		cls.Sessions = sessions
	}
	sort.SliceStable(cls.Sessions, func(i, j int) bool {
		a, b := cls.Sessions[i], cls.Sessions[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.StartTime < b.StartTime
	})
	return cls, nil
}

// Show handles GET /class/:classCode.
func (h *ClassHandler) Show(c echo.Context) error {
	cls, err := h.loadClass(c, c.Param("classCode"))
	if err != nil {
		return renderBackendError(c, err, msgClassNotFound)
	}
	return c.Render(http.StatusOK, "class.html", echo.Map{
		"Title":    cls.Title(),
		"Class":    cls,
		"Sessions": cls.Sessions,
	})
}

// ApplyForm handles GET /class/:classCode/apply?sessionId=…
func (h *ClassHandler) ApplyForm(c echo.Context) error {
	cls, err := h.loadClass(c, c.Param("classCode"))
	if err != nil {
		return renderBackendError(c, err, msgClassNotFound)
	}
	form := reservationForm{}
	form.SessionID, _ = strconv.ParseInt(c.QueryParam("sessionId"), 10, 64)
	return h.renderApply(c, http.StatusOK, cls, form, map[string]string{}, "")
}

func (h *ClassHandler) renderApply(c echo.Context, status int, cls *model.Class, form reservationForm, errs map[string]string, formErr string) error {
	form.Password = ""
	return c.Render(status, "apply.html", echo.Map{
		"Title":     cls.Title(),
		"Class":     cls,
		"Sessions":  cls.Sessions,
		"Form":      form,
		"Errors":    errs,
		"FormError": formErr,
	})
}

// Reserve handles POST /class/:classCode/reservations.  It books the
// session, registers a PENDING payment for the session price and hands the
// browser to the checkout page.  A free session skips the payment and goes
// straight to the result page.
func (h *ClassHandler) Reserve(c echo.Context) error {
	ctx := c.Request().Context()
	cls, err := h.loadClass(c, c.Param("classCode"))
	if err != nil {
		return renderBackendError(c, err, msgClassNotFound)
	}

	var form reservationForm
	if err := c.Bind(&form); err != nil {
		return h.renderApply(c, http.StatusUnprocessableEntity, cls, form, map[string]string{}, "입력값을 확인해주세요.")
	}
	form.ApplicantName = strings.TrimSpace(form.ApplicantName)
	if err := c.Validate(&form); err != nil {
		return h.renderApply(c, http.StatusUnprocessableEntity, cls, form, fieldErrors(err), "")
	}
	session, ok := cls.SessionByID(form.SessionID)
	if !ok {
		return h.renderApply(c, http.StatusUnprocessableEntity, cls, form,
			map[string]string{"sessionId": "선택한 일정을 찾을 수 없습니다."}, "")
	}
	if !session.Bookable() {
		return h.renderApply(c, http.StatusConflict, cls, form, map[string]string{}, api.Message(api.ErrSessionFull, ""))
	}
	formatted, err := phone.Validate(form.PhoneNumber)
	if err != nil {
		return h.renderApply(c, http.StatusUnprocessableEntity, cls, form, map[string]string{"phoneNumber": err.Error()}, "")
	}
	form.PhoneNumber = formatted

	created, err := h.Reservations.Create(ctx, cls.ID, model.CreateReservationRequest{
		SessionID:     session.ID,
		ApplicantName: form.ApplicantName,
		PhoneNumber:   formatted,
		Password:      form.Password,
	})
	switch {
	case errors.Is(err, api.ErrSessionFull):
		return h.renderApply(c, http.StatusConflict, cls, form, map[string]string{}, api.Message(err, ""))
	case clientError(err):
		return h.renderApply(c, http.StatusUnprocessableEntity, cls, form, map[string]string{}, api.Message(err, "예약에 실패했습니다."))
	case err != nil:
		return renderBackendError(c, err, msgClassNotFound)
	}
	c.Logger().Infof("class: reservation %s created for session %d", created.ReservationCode, session.ID)

	if session.Price <= 0 {
		return c.Redirect(http.StatusSeeOther, "/payment/result?reservationCode="+url.QueryEscape(created.ReservationCode)+"&success=true")
	}

	detail, err := h.Reservations.GetByCode(ctx, created.ReservationCode)
	if err != nil {
		h.release(c, created.ReservationCode)
		return renderBackendError(c, err, "예약 정보를 찾을 수 없습니다.")
	}
	orderID := uuid.NewString()
	if _, err := h.Payments.Create(ctx, model.CreatePaymentRequest{
		ReservationID: detail.ReservationID,
		Amount:        session.Price,
		OrderID:       orderID,
		Method:        model.MethodCard,
	}); err != nil {
		h.release(c, created.ReservationCode)
		return renderBackendError(c, err, "예약 정보를 찾을 수 없습니다.")
	}

	q := url.Values{}
	q.Set("orderId", orderID)
	q.Set("amount", strconv.FormatInt(session.Price, 10))
	q.Set("goodsName", cls.Title())
	q.Set("buyerName", form.ApplicantName)
	q.Set("buyerTel", formatted)
	q.Set("reservationCode", created.ReservationCode)
	return c.Redirect(http.StatusSeeOther, "/payment?"+q.Encode())
}

// release cancels a reservation that can no longer reach checkout so its
// seat goes back to the session.  Failures are only logged.
func (h *ClassHandler) release(c echo.Context, code string) {
	if err := h.Reservations.Cancel(c.Request().Context(), code); err != nil {
		c.Logger().Errorf("class: release reservation %s: %v", code, err)
		return
	}
	c.Logger().Warnf("class: reservation %s cancelled, payment could not be registered", code)
}
