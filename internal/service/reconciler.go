// Package service holds the page-independent flows: reconciling a payment
// result and publishing its outcome.
package service

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/classhub/classhub-web/internal/api"
	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/queue"
)

// Failure messages shown on the result page.
const (
	MsgMissingReservation = "예약 정보가 누락되었습니다."
	MsgPaymentFailed      = "결제 처리에 실패했습니다."
	MsgApprovalFailed     = "결제 승인에 실패했습니다."
	MsgNotCompleted       = "결제가 완료되지 않았습니다."
	MsgNoPaymentInfo      = "결제 정보가 존재하지 않습니다."
	MsgProcessingError    = "처리 중 오류가 발생했습니다."
)

// Branches reported in PaymentResult.Branch and the published event.
const (
	BranchMissingCode = "missing_reservation"
	BranchRedirectOK  = "redirect_success"
	BranchRedirectNG  = "redirect_failure"
	BranchApprove     = "approve"
	BranchOrderLookup = "order_lookup"
	BranchNoInfo      = "no_payment_info"
)

// PaymentResult is the reconciled outcome rendered by the result page.
// Reservation is set whenever it could be fetched, on failures too, so the
// page can link back to the class.
type PaymentResult struct {
	Success     bool
	Message     string
	Branch      string
	Reservation *model.ReservationDetail
	Payment     *model.Payment
}

// Reconciler turns the parameters the browser arrives with on the result
// page into one definitive outcome.  It makes a single pass with no retry.
type Reconciler struct {
	reservations api.ReservationAPI
	payments     api.PaymentAPI
	events       EventPublisher
	now          func() time.Time
}

// NewReconciler wires the reconciler.  events may be nil.
func NewReconciler(reservations api.ReservationAPI, payments api.PaymentAPI, events EventPublisher) *Reconciler {
	if reservations == nil || payments == nil {
		panic("nil api client passed to NewReconciler")
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &Reconciler{reservations: reservations, payments: payments, events: events, now: time.Now}
}

// Reconcile evaluates the branches in priority order:
//
//  0. no reservationCode: failure, nothing is called
//  1. success=true: success, reservation fetched
//  2. success=false: failure with resultMsg, reservation fetched best-effort
//  3. resultCode/ResultCode: backend approval with every parameter
//  4. orderId/moid/Moid: payment looked up by order, COMPLETED is success
//  5. otherwise: failure, nothing is called
//
// A backend error in branches 1, 3 and 4 becomes a failure carrying the
// error's user message.  In branch 1 the reservation fetch is the only
// backend call, so a failed fetch fails the result.  In branches 3 and 4 the
// payment call decides the outcome; the reservation fetch that follows is
// best-effort and a failure only drops the summary.  Except for branch 0 the
// outcome is published.
func (r *Reconciler) Reconcile(ctx context.Context, params url.Values) PaymentResult {
	code := params.Get("reservationCode")
	if code == "" {
		return PaymentResult{Message: MsgMissingReservation, Branch: BranchMissingCode}
	}
	res := r.reconcile(ctx, code, params)
	r.publish(ctx, code, params, res)
	return res
}

func (r *Reconciler) reconcile(ctx context.Context, code string, params url.Values) PaymentResult {
	switch params.Get("success") {
	case "true":
		detail, err := r.reservations.GetByCode(ctx, code)
		if err != nil {
			return failure(BranchRedirectOK, err, nil)
		}
		return PaymentResult{Success: true, Branch: BranchRedirectOK, Reservation: detail}
	case "false":
		msg := params.Get("resultMsg")
		if msg == "" {
			msg = MsgPaymentFailed
		}
		return PaymentResult{Message: msg, Branch: BranchRedirectNG, Reservation: r.lookup(ctx, code)}
	}

	if firstOf(params, "resultCode", "ResultCode") != "" {
		approval, err := r.payments.Approve(ctx, params)
		if err != nil {
			return failure(BranchApprove, err, r.lookup(ctx, code))
		}
		if !approval.Success {
			msg := approval.ResultMsg
			if msg == "" {
				msg = params.Get("resultMsg")
			}
			if msg == "" {
				msg = MsgApprovalFailed
			}
			return PaymentResult{Message: msg, Branch: BranchApprove, Payment: approval.Payment, Reservation: r.lookup(ctx, code)}
		}
		return PaymentResult{Success: true, Branch: BranchApprove, Payment: approval.Payment, Reservation: r.lookup(ctx, code)}
	}

	if orderID := firstOf(params, "orderId", "moid", "Moid"); orderID != "" {
		pay, err := r.payments.GetByOrderID(ctx, orderID)
		if err != nil {
			return failure(BranchOrderLookup, err, nil)
		}
		if pay.Status != model.PaymentCompleted {
			return PaymentResult{Message: MsgNotCompleted, Branch: BranchOrderLookup, Payment: pay, Reservation: r.lookup(ctx, code)}
		}
		return PaymentResult{Success: true, Branch: BranchOrderLookup, Payment: pay, Reservation: r.lookup(ctx, code)}
	}

	return PaymentResult{Message: MsgNoPaymentInfo, Branch: BranchNoInfo}
}

// lookup fetches the reservation for display; failures only cost the page
// its summary.
func (r *Reconciler) lookup(ctx context.Context, code string) *model.ReservationDetail {
	detail, err := r.reservations.GetByCode(ctx, code)
	if err != nil {
		log.Printf("payment-result: reservation %s lookup failed: %v", code, err)
		return nil
	}
	return detail
}

func failure(branch string, err error, detail *model.ReservationDetail) PaymentResult {
	return PaymentResult{Message: api.Message(err, MsgProcessingError), Branch: branch, Reservation: detail}
}

func (r *Reconciler) publish(ctx context.Context, code string, params url.Values, res PaymentResult) {
	ev := queue.PaymentResultEvent{
		ReservationCode: code,
		OrderID:         firstOf(params, "orderId", "moid", "Moid"),
		TID:             firstOf(params, "tid", "Tid", "TID"),
		ResultCode:      firstOf(params, "resultCode", "ResultCode"),
		Success:         res.Success,
		Message:         res.Message,
		Branch:          res.Branch,
		OccurredAt:      r.now().UTC().Format(time.RFC3339),
	}
	if res.Reservation != nil {
		ev.ClassCode = res.Reservation.ClassCode
	}
	if p := res.Payment; p != nil {
		ev.Amount = p.Amount
		if ev.OrderID == "" {
			ev.OrderID = p.OrderID
		}
		if ev.TID == "" {
			ev.TID = p.TID
		}
	}
	if err := r.events.PublishPaymentResult(context.WithoutCancel(ctx), ev); err != nil {
		log.Printf("payment-result: publish event for %s: %v", code, err)
	}
}

func firstOf(params url.Values, keys ...string) string {
	for _, k := range keys {
		if v := params.Get(k); v != "" {
			return v
		}
	}
	return ""
}
