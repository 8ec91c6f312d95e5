package view

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/model"
)

func TestWon(t *testing.T) {
	tests := map[int64]string{
		0:        "0원",
		500:      "500원",
		60000:    "60,000원",
		1234567:  "1,234,567원",
		-1500:    "-1,500원",
		100000:   "100,000원",
		10000000: "10,000,000원",
	}
	for in, want := range tests {
		if got := Won(in); got != want {
			t.Errorf("Won(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDateAndTime(t *testing.T) {
	if got := Date("2026-12-15"); got != "2026년 12월 15일 (화)" {
		t.Errorf("Date = %q", got)
	}
	if got := Date("soon"); got != "soon" {
		t.Errorf("Date passthrough = %q", got)
	}
	if got := HHMM("14:00:00"); got != "14:00" {
		t.Errorf("HHMM = %q", got)
	}
	if got := HHMM("14:00"); got != "14:00" {
		t.Errorf("HHMM short = %q", got)
	}
}

func TestMarkdownEscapesHTML(t *testing.T) {
	got := string(Markdown("**달항아리** <script>alert(1)</script>"))
	if !strings.Contains(got, "<strong>달항아리</strong>") {
		t.Errorf("markdown not rendered: %s", got)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html passed through: %s", got)
	}
}

func render(t *testing.T, r *Renderer, name string, data echo.Map) string {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data, c); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func TestEveryPageRenders(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	class := &model.Class{
		ID: 1, ClassCode: "test", Name: "달항아리", Description: "**흙**", Location: "성수",
		ImageURLs: []string{"https://example.com/a.jpg"},
		Sessions: []model.Session{
			{ID: 1, Date: "2026-12-15", StartTime: "14:00:00", EndTime: "16:00:00", Capacity: 8, CurrentNum: 3, Status: model.SessionRecruiting, Price: 60000},
			{ID: 2, Date: "2026-12-16", StartTime: "10:00:00", EndTime: "12:00:00", Capacity: 8, CurrentNum: 8, Status: model.SessionFull, Price: 60000},
		},
	}
	detail := &model.ReservationDetail{
		ReservationCode: "ABC123", ClassTitle: "달항아리", ClassCode: "test", Date: "2026-12-15",
		StartTime: "14:00:00", EndTime: "16:00:00", ApplicantName: "홍길동", PhoneNumber: "01012345678",
		ReservationStatus: model.ReservationConfirmed,
	}
	pages := []struct {
		name string
		data echo.Map
		want string
	}{
		{"home.html", echo.Map{"Title": ""}, "클래스 보러가기"},
		{"class.html", echo.Map{"Title": "달항아리", "Class": class, "Sessions": class.Sessions}, "/class/test/apply?sessionId=1"},
		{"apply.html", echo.Map{"Title": "신청", "Class": class, "Sessions": class.Sessions,
			"Form": struct {
				SessionID                  int64
				ApplicantName, PhoneNumber string
			}{SessionID: 1}, "Errors": map[string]string{"phoneNumber": "올바른 전화번호를 입력해주세요."}}, "올바른 전화번호를 입력해주세요."},
		{"checkout.html", echo.Map{"Title": "결제", "Checkout": map[string]any{
			"ScriptURL": "https://pay.nicepay.co.kr/v1/js/", "ClientID": "S1_x", "OrderID": "o-1", "Amount": int64(60000),
			"GoodsName": "달항아리", "ReturnURL": "http://localhost:3000/api/payment/callback?reservationCode=ABC123",
			"BuyerName": "홍길동", "BuyerTel": "010-1234-5678"}}, `"o-1"`},
		{"payment_result.html", echo.Map{"Title": "결제 결과", "Result": map[string]any{"Success": true, "Reservation": detail, "Payment": &model.Payment{Amount: 60000}}, "ClassCode": "test"}, "010-1234-5678"},
		{"payment_result.html", echo.Map{"Title": "결제 결과", "Result": map[string]any{"Success": false, "Message": "Declined"}, "ClassCode": "test"}, `href="/class/test"`},
		{"reservations.html", echo.Map{"Title": "예약 조회", "Form": map[string]string{}, "Errors": map[string]string{}, "Searched": true, "Results": []model.ReservationDetail{*detail}}, "/reservations/ABC123"},
		{"reservation.html", echo.Map{"Title": "예약 상세", "Reservation": detail, "CanCancel": true}, "/reservations/ABC123/cancel"},
		{"attendance.html", echo.Map{"Title": "출석", "Success": true, "Message": "출석 처리가 완료되었습니다.", "ReservationCode": "ABC123"}, "출석 완료"},
		{"instructor_login.html", echo.Map{"Title": "강사 로그인", "Email": "", "Next": ""}, "강사 로그인"},
		{"instructor_classes.html", echo.Map{"Title": "내 클래스", "Name": "김강사", "Classes": []model.ClassSummary{{Name: "달항아리", ClassCode: "test"}}}, "/instructor/class/test"},
		{"instructor_class.html", echo.Map{"Title": "달항아리", "Class": class, "Sessions": []map[string]any{
			{"Session": class.Sessions[0], "Reservations": []model.SessionReservation{{ApplicantName: "홍길동", PhoneNumber: "01012345678", Status: model.ReservationReserved}}, "Error": ""},
		}}, "홍길동 · 010-1234-5678"},
		{"error.html", echo.Map{"Title": "오류", "Heading": "클래스를 찾을 수 없습니다.", "Message": "코드를 확인해주세요."}, `href="/"`},
	}
	for _, p := range pages {
		t.Run(p.name, func(t *testing.T) {
			out := render(t, r, p.name, p.data)
			if !strings.Contains(out, p.want) {
				t.Fatalf("%s output lacks %q:\n%s", p.name, p.want, out)
			}
		})
	}
}

func TestUnknownPage(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if err := r.Render(&bytes.Buffer{}, "nope.html", nil, c); err == nil {
		t.Fatal("unknown page rendered")
	}
}
