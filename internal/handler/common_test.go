package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/api"
)

func TestErrorHandlerRendersPages(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		msg    string
	}{
		"unknown route": {echo.ErrNotFound, http.StatusNotFound, msgNotFound},
		"rate limited":  {echo.NewHTTPError(http.StatusTooManyRequests, "요청이 너무 많습니다."), http.StatusTooManyRequests, "요청이 너무 많습니다."},
		"plain error":   {errors.New("boom"), http.StatusInternalServerError, msgBackendError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e, r := newTestEcho()
			c, rec := getContext(e, "/somewhere")
			ErrorHandler(tc.err, c)
			if rec.Code != tc.status || r.name != "error.html" {
				t.Fatalf("got %d %s", rec.Code, r.name)
			}
			if r.data["Message"] != tc.msg {
				t.Fatalf("message = %v", r.data["Message"])
			}
		})
	}
}

func TestRenderBackendError(t *testing.T) {
	e, r := newTestEcho()
	c, rec := getContext(e, "/class/X")
	_ = renderBackendError(c, &api.Error{Status: http.StatusNotFound, Message: "없음"}, msgClassNotFound)
	if rec.Code != http.StatusNotFound || r.data["Heading"] != msgClassNotFound {
		t.Fatalf("got %d %v", rec.Code, r.data["Heading"])
	}

	c, rec = getContext(e, "/class/X?x=1")
	_ = renderBackendError(c, &api.Error{Status: http.StatusServiceUnavailable, Message: "점검 중입니다."}, msgClassNotFound)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if r.data["Message"] != "점검 중입니다." || r.data["RetryURL"] != "/class/X?x=1" || r.data["Retry"] != true {
		t.Fatalf("data = %v", r.data)
	}
}

func TestClientError(t *testing.T) {
	if !clientError(&api.Error{Status: http.StatusConflict}) {
		t.Error("409 is a client error")
	}
	if clientError(&api.Error{Status: http.StatusBadGateway}) || clientError(errors.New("x")) {
		t.Error("5xx and transport errors are not client errors")
	}
}

func TestFieldErrorsUseFormNames(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&reservationForm{SessionID: 1, ApplicantName: "홍길동", PhoneNumber: "123", Password: "12345"})
	errs := fieldErrors(err)
	if len(errs) != 2 || errs["phoneNumber"] == "" || errs["password"] == "" {
		t.Fatalf("errors = %v", errs)
	}
	if fieldErrors(errors.New("other")) != nil {
		t.Fatal("non-validation error mapped to fields")
	}
}
