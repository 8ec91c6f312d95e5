package api

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/store"
)

func newTestBackend(t *testing.T) *mockBackend {
	t.Helper()
	m := newMockBackend(store.NewMemory(), bcrypt.MinCost)
	m.now = func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }
	return m
}

func book(t *testing.T, c Clients, sessionID int64, name, phone, password string) string {
	t.Helper()
	res, err := c.Reservations.Create(context.Background(), 1, model.CreateReservationRequest{
		SessionID:     sessionID,
		ApplicantName: name,
		PhoneNumber:   phone,
		Password:      password,
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return res.ReservationCode
}

func sessionByID(t *testing.T, c Clients, id int64) model.Session {
	t.Helper()
	s, err := c.Classes.GetSessionByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get session %d: %v", id, err)
	}
	return *s
}

func TestMockCreateReservationTakesSeat(t *testing.T) {
	c := newTestBackend(t).clients()
	code := book(t, c, 1, "홍길동", "010-1234-5678", "")
	if len(code) != 8 {
		t.Fatalf("reservation code %q, want 8 characters", code)
	}
	if got := sessionByID(t, c, 1).CurrentNum; got != 4 {
		t.Fatalf("currentNum = %d, want 4", got)
	}
	detail, err := c.Reservations.GetByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if detail.ReservationStatus != model.ReservationReserved || detail.ClassCode != "test" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestMockFullSessionRejects(t *testing.T) {
	c := newTestBackend(t).clients()
	_, err := c.Reservations.Create(context.Background(), 1, model.CreateReservationRequest{
		SessionID: 2, ApplicantName: "a", PhoneNumber: "010-1111-2222",
	})
	if !errors.Is(err, ErrSessionFull) {
		t.Fatalf("err = %v, want ErrSessionFull", err)
	}
}

func TestMockSessionBecomesFullAtCapacity(t *testing.T) {
	c := newTestBackend(t).clients()
	// session 3 starts at 5/8
	for i := 0; i < 3; i++ {
		book(t, c, 3, "a", "010-1111-2222", "")
	}
	s := sessionByID(t, c, 3)
	if s.CurrentNum != s.Capacity || s.Status != model.SessionFull {
		t.Fatalf("session = %+v, want FULL at capacity", s)
	}
	_, err := c.Reservations.Create(context.Background(), 1, model.CreateReservationRequest{SessionID: 3})
	if !errors.Is(err, ErrSessionFull) {
		t.Fatalf("err = %v, want ErrSessionFull", err)
	}
}

func TestMockCancelReleasesSeatOnce(t *testing.T) {
	c := newTestBackend(t).clients()
	code := book(t, c, 1, "a", "010-1111-2222", "")
	ctx := context.Background()
	if err := c.Reservations.Cancel(ctx, code); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := c.Reservations.Cancel(ctx, code); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if got := sessionByID(t, c, 1).CurrentNum; got != 3 {
		t.Fatalf("currentNum = %d, want 3", got)
	}
	detail, _ := c.Reservations.GetByCode(ctx, code)
	if !detail.Cancelled() {
		t.Fatalf("status = %s, want CANCELLED", detail.ReservationStatus)
	}
	if err := c.Reservations.MarkAttendance(ctx, code); err == nil {
		t.Fatal("attendance on a cancelled reservation succeeded")
	}
}

func TestMockCancelUnknown(t *testing.T) {
	c := newTestBackend(t).clients()
	if err := c.Reservations.Cancel(context.Background(), "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMockSearchChecksPassword(t *testing.T) {
	c := newTestBackend(t).clients()
	book(t, c, 1, "홍길동", "010-1234-5678", "1234")
	book(t, c, 3, "홍길동", "010-1234-5678", "1234")
	ctx := context.Background()

	got, err := c.Reservations.Search(ctx, "홍길동", "010-1234-5678", "1234")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("found %d reservations, want 2", len(got))
	}
	if got[0].ReservationID < got[1].ReservationID {
		t.Fatalf("results not newest first: %d, %d", got[0].ReservationID, got[1].ReservationID)
	}
	got, _ = c.Reservations.Search(ctx, "홍길동", "010-1234-5678", "0000")
	if len(got) != 0 {
		t.Fatalf("wrong password found %d reservations", len(got))
	}
	got, _ = c.Reservations.Search(ctx, "김철수", "010-1234-5678", "1234")
	if len(got) != 0 {
		t.Fatalf("other name found %d reservations", len(got))
	}
}

func createPayment(t *testing.T, c Clients, code, orderID string) {
	t.Helper()
	detail, err := c.Reservations.GetByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	_, err = c.Payments.Create(context.Background(), model.CreatePaymentRequest{
		ReservationID: detail.ReservationID, Amount: 60000, OrderID: orderID,
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
}

func TestMockApproveSuccessConfirms(t *testing.T) {
	c := newTestBackend(t).clients()
	ctx := context.Background()
	code := book(t, c, 1, "a", "010-1111-2222", "")
	createPayment(t, c, code, "order-1")

	params := url.Values{"resultCode": {"0000"}, "orderId": {"order-1"}, "tid": {"T1"}, "payMethod": {"card"}}
	approval, err := c.Payments.Approve(ctx, params)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approval.Success || approval.Payment.Status != model.PaymentCompleted || approval.Payment.Method != "CARD" {
		t.Fatalf("unexpected approval %+v", approval)
	}
	detail, _ := c.Reservations.GetByCode(ctx, code)
	if detail.ReservationStatus != model.ReservationConfirmed {
		t.Fatalf("reservation status = %s, want CONFIRMED", detail.ReservationStatus)
	}
	pay, err := c.Payments.GetByTID(ctx, "T1")
	if err != nil || pay.OrderID != "order-1" {
		t.Fatalf("get by tid = %+v, %v", pay, err)
	}

	again, err := c.Payments.Approve(ctx, params)
	if err != nil || !again.Success {
		t.Fatalf("repeated approve = %+v, %v", again, err)
	}
}

func TestMockApproveFailureCancelsReservation(t *testing.T) {
	c := newTestBackend(t).clients()
	ctx := context.Background()
	code := book(t, c, 1, "a", "010-1111-2222", "")
	createPayment(t, c, code, "order-2")

	approval, err := c.Payments.Approve(ctx, url.Values{"ResultCode": {"3011"}, "Moid": {"order-2"}, "resultMsg": {"카드 한도 초과"}})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approval.Success || approval.ResultMsg != "카드 한도 초과" {
		t.Fatalf("unexpected approval %+v", approval)
	}
	detail, _ := c.Reservations.GetByCode(ctx, code)
	if !detail.Cancelled() {
		t.Fatalf("reservation status = %s, want CANCELLED", detail.ReservationStatus)
	}
	if got := sessionByID(t, c, 1).CurrentNum; got != 3 {
		t.Fatalf("currentNum = %d, want 3", got)
	}
}

func TestMockApproveUnknownOrder(t *testing.T) {
	c := newTestBackend(t).clients()
	_, err := c.Payments.Approve(context.Background(), url.Values{"resultCode": {"0000"}, "orderId": {"missing"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMockPaymentDuplicateOrder(t *testing.T) {
	c := newTestBackend(t).clients()
	code := book(t, c, 1, "a", "010-1111-2222", "")
	createPayment(t, c, code, "dup")
	detail, _ := c.Reservations.GetByCode(context.Background(), code)
	_, err := c.Payments.Create(context.Background(), model.CreatePaymentRequest{
		ReservationID: detail.ReservationID, Amount: 1, OrderID: "dup",
	})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != 409 {
		t.Fatalf("err = %v, want 409", err)
	}
}

func TestMockPaymentCancel(t *testing.T) {
	c := newTestBackend(t).clients()
	ctx := context.Background()
	code := book(t, c, 1, "a", "010-1111-2222", "")
	createPayment(t, c, code, "order-3")

	req := model.CancelPaymentRequest{TID: "T3", Amount: 60000, Reason: "고객 직접 예약 취소"}
	if _, err := c.Payments.Cancel(ctx, req); err == nil {
		t.Fatal("cancel before approval succeeded")
	}
	if _, err := c.Payments.Approve(ctx, url.Values{"resultCode": {"0000"}, "orderId": {"order-3"}, "tid": {"T3"}}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	res, err := c.Payments.Cancel(ctx, req)
	if err != nil || !res.Success {
		t.Fatalf("cancel = %+v, %v", res, err)
	}
	detail, _ := c.Reservations.GetByCode(ctx, code)
	pay, err := c.Payments.GetByReservationID(ctx, detail.ReservationID)
	if err != nil {
		t.Fatalf("get by reservation: %v", err)
	}
	if pay.Status != model.PaymentCancelled || pay.CancelledAt == "" {
		t.Fatalf("payment = %+v, want CANCELLED", pay)
	}
	var apiErr *Error
	if _, err := c.Payments.Cancel(ctx, req); !errors.As(err, &apiErr) || apiErr.Status != 409 {
		t.Fatalf("second cancel err = %v, want 409", err)
	}
}

func TestMockInstructorLogin(t *testing.T) {
	c := newTestBackend(t).clients()
	ctx := context.Background()
	inst, err := c.Instructors.Login(ctx, "hobby@gmail.com", "classhub1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if inst.ID != 1 {
		t.Fatalf("instructor id = %d", inst.ID)
	}
	if _, err := c.Instructors.Login(ctx, "hobby@gmail.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	classes, err := c.Instructors.ListClasses(ctx, inst.ID)
	if err != nil || len(classes) != 1 || classes[0].ClassCode != "test" {
		t.Fatalf("classes = %+v, %v", classes, err)
	}
}

func TestMockStatePersistsInStore(t *testing.T) {
	kv := store.NewMemory()
	first := newMockBackend(kv, bcrypt.MinCost).clients()
	code := book(t, first, 1, "a", "010-1111-2222", "")

	second := newMockBackend(kv, bcrypt.MinCost).clients()
	if _, err := second.Reservations.GetByCode(context.Background(), code); err != nil {
		t.Fatalf("reservation not visible through a new backend: %v", err)
	}
	if got := sessionByID(t, second, 1).CurrentNum; got != 4 {
		t.Fatalf("currentNum = %d, want 4", got)
	}
}

func TestMockReservationReadsShowCurrentOccupancy(t *testing.T) {
	c := newTestBackend(t).clients()
	first := book(t, c, 3, "홍길동", "010-1234-5678", "1234")
	book(t, c, 3, "김철수", "010-2222-3333", "")
	book(t, c, 3, "이영희", "010-4444-5555", "")

	detail, err := c.Reservations.GetByCode(context.Background(), first)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if detail.CurrentNum != 8 || detail.Capacity != 8 || detail.SessionStatus != model.SessionFull {
		t.Fatalf("detail occupancy %d/%d %s, want 8/8 FULL", detail.CurrentNum, detail.Capacity, detail.SessionStatus)
	}

	if err := c.Reservations.Cancel(context.Background(), first); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	found, err := c.Reservations.Search(context.Background(), "홍길동", "010-1234-5678", "1234")
	if err != nil || len(found) != 1 {
		t.Fatalf("search = %v, %v", found, err)
	}
	if found[0].CurrentNum != 7 || found[0].SessionStatus != model.SessionRecruiting {
		t.Fatalf("search occupancy %d %s, want 7 RECRUITING", found[0].CurrentNum, found[0].SessionStatus)
	}
}
