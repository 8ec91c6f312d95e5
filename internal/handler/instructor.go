package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/api"
	"github.com/classhub/classhub-web/internal/middleware"
	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/utils"
)

const instructorHome = "/instructor/classes"

// SessionConfig controls the instructor session cookie.
type SessionConfig struct {
	Secret string // HS256 signing secret
	TTLMin int    // token lifetime in minutes
	Secure bool   // set the Secure cookie flag
}

// InstructorHandler serves the instructor login and class overview pages.
type InstructorHandler struct {
	Instructors  api.InstructorAPI
	Classes      api.ClassAPI
	Reservations api.ReservationAPI
	Session      SessionConfig
}

// NewInstructorHandler constructs an InstructorHandler and panics if any
// dependency is nil or the secret is empty.
func NewInstructorHandler(instructors api.InstructorAPI, classes api.ClassAPI, reservations api.ReservationAPI, session SessionConfig) *InstructorHandler {
	if instructors == nil || classes == nil || reservations == nil {
		panic("nil api client passed to NewInstructorHandler")
	}
	if session.Secret == "" {
		panic("empty session secret passed to NewInstructorHandler")
	}
	return &InstructorHandler{Instructors: instructors, Classes: classes, Reservations: reservations, Session: session}
}

// loginForm is posted to /instructor/login.
type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// sessionView is one session of the instructor class page with its
// applicants.
type sessionView struct {
	Session      model.Session
	Reservations []model.SessionReservation
	Error        string
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return instructorHome
	}
	return next
}

// LoginPage handles GET /instructor/login.  A still valid session goes
// straight to the class list.
func (h *InstructorHandler) LoginPage(c echo.Context) error {
	if ck, err := c.Cookie(middleware.SessionCookie); err == nil {
		if _, err := utils.ParseSessionToken(h.Session.Secret, ck.Value); err == nil {
			return c.Redirect(http.StatusSeeOther, safeNext(c.QueryParam("next")))
		}
	}
	return h.renderLogin(c, http.StatusOK, "", c.QueryParam("next"), "")
}

func (h *InstructorHandler) renderLogin(c echo.Context, status int, email, next, formErr string) error {
	return c.Render(status, "instructor_login.html", echo.Map{
		"Title":     "강사 로그인",
		"Email":     email,
		"Next":      next,
		"FormError": formErr,
	})
}

// Login handles POST /instructor/login.
func (h *InstructorHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.renderLogin(c, http.StatusUnprocessableEntity, "", "", "입력값을 확인해주세요.")
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := c.Validate(&form); err != nil {
		msg := "이메일과 비밀번호를 입력해주세요."
		for _, m := range fieldErrors(err) {
			msg = m
			break
		}
		return h.renderLogin(c, http.StatusUnprocessableEntity, form.Email, form.Next, msg)
	}

	inst, err := h.Instructors.Login(c.Request().Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		return h.renderLogin(c, http.StatusUnauthorized, form.Email, form.Next, api.Message(api.ErrInvalidCredentials, ""))
	case err != nil:
		c.Logger().Errorf("instructor: login: %v", err)
		return h.renderLogin(c, http.StatusBadGateway, form.Email, form.Next, api.Message(err, "로그인 중 오류가 발생했습니다."))
	}

	tok, err := utils.NewSessionToken(h.Session.Secret, inst.ID, inst.Name, h.Session.TTLMin)
	if err != nil {
		return err
	}
	middleware.SetSession(c, tok, h.Session.Secure)
	c.Logger().Infof("instructor: %d signed in", inst.ID)
	return c.Redirect(http.StatusSeeOther, safeNext(form.Next))
}

// Logout handles POST /instructor/logout.
func (h *InstructorHandler) Logout(c echo.Context) error {
	middleware.ClearSession(c)
	return c.Redirect(http.StatusSeeOther, "/instructor/login")
}

// ClassList handles GET /instructor/classes.
func (h *InstructorHandler) ClassList(c echo.Context) error {
	id, ok := middleware.InstructorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "접근 권한이 없습니다.")
	}
	classes, err := h.Instructors.ListClasses(c.Request().Context(), id)
	if err != nil {
		return renderBackendError(c, err, "클래스 목록을 찾을 수 없습니다.")
	}
	return c.Render(http.StatusOK, "instructor_classes.html", echo.Map{
		"Title":   "내 클래스",
		"Name":    middleware.InstructorName(c),
		"Classes": classes,
	})
}

// ClassDetail handles GET /instructor/class/:classCode: the sessions of one
// of the instructor's classes with their applicants.  A session whose
// applicant list cannot be loaded shows the error in place.
func (h *InstructorHandler) ClassDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := middleware.InstructorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "접근 권한이 없습니다.")
	}
	cls, err := h.Classes.GetByClassCode(ctx, c.Param("classCode"))
	if err != nil {
		return renderBackendError(c, err, msgClassNotFound)
	}
	if cls.InstructorID != 0 && cls.InstructorID != id {
		return echo.NewHTTPError(http.StatusForbidden, "다른 강사의 클래스입니다.")
	}
	sessions := cls.Sessions
	if len(sessions) == 0 && cls.ID > 0 {
		if sessions, err = h.Classes.GetSessionsByClassID(ctx, cls.ID); err != nil {
			return renderBackendError(c, err, msgClassNotFound)
		}
	}

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		v := sessionView{Session: s}
		list, err := h.Reservations.ListBySession(ctx, s.ID)
		if err != nil {
			c.Logger().Warnf("instructor: reservations of session %d: %v", s.ID, err)
			v.Error = api.Message(err, "신청자 목록을 불러오지 못했습니다.")
		}
		v.Reservations = list
		views = append(views, v)
	}
	return c.Render(http.StatusOK, "instructor_class.html", echo.Map{
		"Title":    cls.Title(),
		"Class":    cls,
		"Sessions": views,
	})
}
