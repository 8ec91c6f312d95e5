package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/classhub/classhub-web/internal/api"
	"github.com/classhub/classhub-web/internal/api/apitest"
	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/queue"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.PaymentResultEvent
	err    error
}

func (p *recordingPublisher) PublishPaymentResult(_ context.Context, ev queue.PaymentResultEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestReconciler() (*Reconciler, *apitest.Clients, *recordingPublisher) {
	fakes := apitest.New()
	pub := &recordingPublisher{}
	return NewReconciler(fakes.Reservations, fakes.Payments, pub), fakes, pub
}

func reservation(code string) func(context.Context, string) (*model.ReservationDetail, error) {
	return func(_ context.Context, got string) (*model.ReservationDetail, error) {
		if got != code {
			return nil, api.ErrNotFound
		}
		return &model.ReservationDetail{ReservationCode: code, ClassCode: "test", ClassTitle: "도예"}, nil
	}
}

func TestReconcileMissingReservationCode(t *testing.T) {
	r, fakes, pub := newTestReconciler()
	res := r.Reconcile(context.Background(), url.Values{"resultCode": {"0000"}, "orderId": {"O1"}, "success": {"true"}})
	if res.Success || res.Message != MsgMissingReservation {
		t.Fatalf("result = %+v", res)
	}
	if n := fakes.Total(); n != 0 {
		t.Fatalf("%d backend calls, want 0", n)
	}
	if len(pub.events) != 0 {
		t.Fatalf("published %d events, want 0", len(pub.events))
	}
}

func TestReconcileRedirectSuccess(t *testing.T) {
	r, fakes, pub := newTestReconciler()
	fakes.Reservations.GetByCodeFunc = reservation("ABC123")
	res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, "success": {"true"}})
	if !res.Success || res.Reservation == nil || res.Reservation.ClassCode != "test" {
		t.Fatalf("result = %+v", res)
	}
	if fakes.Payments.Total() != 0 {
		t.Fatal("payment api called for success=true")
	}
	if len(pub.events) != 1 || !pub.events[0].Success || pub.events[0].ClassCode != "test" {
		t.Fatalf("events = %+v", pub.events)
	}
}

func TestReconcileRedirectSuccessFetchError(t *testing.T) {
	r, fakes, _ := newTestReconciler()
	fakes.Reservations.GetByCodeFunc = func(context.Context, string) (*model.ReservationDetail, error) {
		return nil, errors.New("connection refused")
	}
	res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, "success": {"true"}})
	if res.Success || res.Message != MsgProcessingError {
		t.Fatalf("result = %+v", res)
	}
}

func TestReconcileRedirectFailure(t *testing.T) {
	r, fakes, _ := newTestReconciler()
	fakes.Reservations.GetByCodeFunc = reservation("ABC123")
	res := r.Reconcile(context.Background(), url.Values{
		"success": {"false"}, "reservationCode": {"ABC123"}, "resultMsg": {"Declined"},
	})
	if res.Success || res.Message != "Declined" {
		t.Fatalf("result = %+v", res)
	}
	if fakes.Reservations.Count("GetByCode") != 1 {
		t.Fatal("reservation fetch not attempted")
	}
	if res.Reservation == nil {
		t.Fatal("reservation missing from failure result")
	}
}

func TestReconcileRedirectFailureDefaults(t *testing.T) {
	r, fakes, _ := newTestReconciler()
	res := r.Reconcile(context.Background(), url.Values{"success": {"false"}, "reservationCode": {"ABC123"}})
	if res.Success || res.Message != MsgPaymentFailed {
		t.Fatalf("result = %+v", res)
	}
	// the fetch fails but is only best-effort
	if fakes.Reservations.Count("GetByCode") != 1 || res.Reservation != nil {
		t.Fatalf("result = %+v", res)
	}
}

func TestReconcileApprove(t *testing.T) {
	r, fakes, pub := newTestReconciler()
	fakes.Reservations.GetByCodeFunc = reservation("ABC123")
	var forwarded url.Values
	fakes.Payments.ApproveFunc = func(_ context.Context, params url.Values) (*model.PaymentApproval, error) {
		forwarded = params
		return &model.PaymentApproval{Success: true, ResultCode: "0000",
			Payment: &model.Payment{OrderID: "O1", TID: "T1", Amount: 60000, Status: model.PaymentCompleted}}, nil
	}
	params := url.Values{"reservationCode": {"ABC123"}, "ResultCode": {"0000"}, "orderId": {"O1"}, "tid": {"T1"}}
	res := r.Reconcile(context.Background(), params)
	if !res.Success || res.Branch != BranchApprove || res.Reservation == nil {
		t.Fatalf("result = %+v", res)
	}
	if forwarded.Encode() != params.Encode() {
		t.Fatalf("approve got %v, want every parameter %v", forwarded, params)
	}
	if fakes.Payments.Count("GetByOrderID") != 0 {
		t.Fatal("order lookup ran after approval")
	}
	if ev := pub.events[0]; ev.Amount != 60000 || ev.TID != "T1" || ev.ResultCode != "0000" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestReconcileApproveRejected(t *testing.T) {
	tests := []struct {
		name     string
		approval model.PaymentApproval
		params   url.Values
		want     string
	}{
		{"backend message", model.PaymentApproval{ResultMsg: "잔액 부족"}, url.Values{}, "잔액 부족"},
		{"query message", model.PaymentApproval{}, url.Values{"resultMsg": {"한도 초과"}}, "한도 초과"},
		{"default", model.PaymentApproval{}, url.Values{}, MsgApprovalFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fakes, _ := newTestReconciler()
			fakes.Payments.ApproveFunc = func(context.Context, url.Values) (*model.PaymentApproval, error) {
				a := tt.approval
				return &a, nil
			}
			tt.params.Set("reservationCode", "ABC123")
			tt.params.Set("resultCode", "3011")
			res := r.Reconcile(context.Background(), tt.params)
			if res.Success || res.Message != tt.want {
				t.Fatalf("result = %+v, want message %q", res, tt.want)
			}
		})
	}
}

func TestReconcileApproveError(t *testing.T) {
	r, fakes, _ := newTestReconciler()
	fakes.Payments.ApproveFunc = func(context.Context, url.Values) (*model.PaymentApproval, error) {
		return nil, &api.Error{Status: 400, Message: "결제 금액 불일치"}
	}
	res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, "resultCode": {"0000"}})
	if res.Success || res.Message != "결제 금액 불일치" {
		t.Fatalf("result = %+v", res)
	}
}

func TestReconcileOrderLookup(t *testing.T) {
	for _, key := range []string{"orderId", "moid", "Moid"} {
		t.Run(key, func(t *testing.T) {
			r, fakes, _ := newTestReconciler()
			fakes.Reservations.GetByCodeFunc = reservation("ABC123")
			fakes.Payments.GetByOrderIDFunc = func(_ context.Context, orderID string) (*model.Payment, error) {
				if orderID != "ORDER1" {
					t.Fatalf("order id = %q", orderID)
				}
				return &model.Payment{OrderID: orderID, Status: model.PaymentCompleted}, nil
			}
			res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, key: {"ORDER1"}})
			if !res.Success || res.Branch != BranchOrderLookup {
				t.Fatalf("result = %+v", res)
			}
			if fakes.Reservations.Count("GetByCode") != 1 || fakes.Payments.Count("Approve") != 0 {
				t.Fatal("unexpected backend calls")
			}
		})
	}
}

func TestReconcileOrderNotCompleted(t *testing.T) {
	r, fakes, _ := newTestReconciler()
	fakes.Payments.GetByOrderIDFunc = func(_ context.Context, orderID string) (*model.Payment, error) {
		return &model.Payment{OrderID: orderID, Status: model.PaymentPending}, nil
	}
	res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, "orderId": {"ORDER1"}})
	if res.Success || res.Message != MsgNotCompleted {
		t.Fatalf("result = %+v", res)
	}
}

func TestReconcileOrderLookupError(t *testing.T) {
	r, _, _ := newTestReconciler()
	res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, "orderId": {"ORDER1"}})
	if res.Success || res.Message != MsgProcessingError {
		t.Fatalf("result = %+v", res)
	}
}

func TestReconcileNoPaymentInfo(t *testing.T) {
	r, fakes, pub := newTestReconciler()
	res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}})
	if res.Success || res.Message != MsgNoPaymentInfo {
		t.Fatalf("result = %+v", res)
	}
	if n := fakes.Total(); n != 0 {
		t.Fatalf("%d backend calls, want 0", n)
	}
	if len(pub.events) != 1 || pub.events[0].Branch != BranchNoInfo {
		t.Fatalf("events = %+v", pub.events)
	}
}

func TestReconcileIgnoresPublishError(t *testing.T) {
	r, fakes, pub := newTestReconciler()
	pub.err = errors.New("broker down")
	fakes.Reservations.GetByCodeFunc = reservation("ABC123")
	res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, "success": {"true"}})
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
}

func TestReconcileSummaryFetchFailureKeepsPaymentOutcome(t *testing.T) {
	completed := &model.Payment{OrderID: "O1", TID: "T1", Amount: 60000, Status: model.PaymentCompleted}
	tests := []struct {
		name   string
		params url.Values
		setup  func(*apitest.Clients)
		branch string
	}{
		{
			name:   "approve",
			params: url.Values{"reservationCode": {"ABC123"}, "resultCode": {"0000"}, "orderId": {"O1"}},
			setup: func(f *apitest.Clients) {
				f.Payments.ApproveFunc = func(context.Context, url.Values) (*model.PaymentApproval, error) {
					return &model.PaymentApproval{Success: true, ResultCode: "0000", Payment: completed}, nil
				}
			},
			branch: BranchApprove,
		},
		{
			name:   "order lookup",
			params: url.Values{"reservationCode": {"ABC123"}, "orderId": {"O1"}},
			setup: func(f *apitest.Clients) {
				f.Payments.GetByOrderIDFunc = func(context.Context, string) (*model.Payment, error) { return completed, nil }
			},
			branch: BranchOrderLookup,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fakes, _ := newTestReconciler()
			fakes.Reservations.GetByCodeFunc = func(context.Context, string) (*model.ReservationDetail, error) {
				return nil, errors.New("backend down")
			}
			tt.setup(fakes)
			res := r.Reconcile(context.Background(), tt.params)
			if !res.Success || res.Branch != tt.branch || res.Reservation != nil || res.Payment == nil {
				t.Fatalf("result = %+v", res)
			}
		})
	}

	r, fakes, _ := newTestReconciler()
	fakes.Reservations.GetByCodeFunc = func(context.Context, string) (*model.ReservationDetail, error) {
		return nil, errors.New("backend down")
	}
	if res := r.Reconcile(context.Background(), url.Values{"reservationCode": {"ABC123"}, "success": {"true"}}); res.Success {
		t.Fatalf("redirect success with failed fetch = %+v", res)
	}
}
