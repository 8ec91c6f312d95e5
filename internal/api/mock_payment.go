package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classhub/classhub-web/internal/model"
)

// cancelSuccessCode is the gateway result code of a successful refund.
const cancelSuccessCode = "2001"

type mockPayments struct{ m *mockBackend }

// firstParam returns the first non-empty value among keys.
func firstParam(params url.Values, keys ...string) string {
	for _, k := range keys {
		if v := params.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func (p *mockPayments) Create(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error) {
	if req.OrderID == "" || req.Amount <= 0 {
		return nil, &Error{Status: http.StatusBadRequest, Message: "결제 정보가 올바르지 않습니다."}
	}
	m := p.m
	m.mu.Lock()
	defer m.mu.Unlock()

	reservations, err := m.reservations(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := findReservationByID(reservations, req.ReservationID); !ok {
		return nil, notFound("예약 정보를 찾을 수 없습니다.")
	}
	all, err := m.payments(ctx)
	if err != nil {
		return nil, err
	}
	if _, dup := all[req.OrderID]; dup {
		return nil, &Error{Status: http.StatusConflict, Message: "이미 등록된 주문번호입니다."}
	}
	method := req.Method
	if method == "" {
		method = model.MethodCard
	}
	pay := model.Payment{
		ID:            int64(len(all) + 1),
		ReservationID: req.ReservationID,
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Status:        model.PaymentPending,
		Method:        method,
		CreatedAt:     m.now().UTC().Format(time.RFC3339),
	}
	all[pay.OrderID] = pay
	if err := m.save(ctx, keyPayments, all); err != nil {
		return nil, err
	}
	return &pay, nil
}

// Approve settles a pending payment from the gateway parameters.  Result
// code 0000 completes the payment and confirms the reservation; any other
// code fails the payment and cancels the reservation.  Approving an already
// completed payment again reports success without changes.
func (p *mockPayments) Approve(ctx context.Context, params url.Values) (*model.PaymentApproval, error) {
	orderID := firstParam(params, "orderId", "moid", "Moid")
	resultCode := firstParam(params, "resultCode", "ResultCode")
	m := p.m
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.payments(ctx)
	if err != nil {
		return nil, err
	}
	pay, ok := all[orderID]
	if !ok {
		return nil, notFound("결제 정보를 찾을 수 없습니다.")
	}
	if pay.Status == model.PaymentCompleted {
		return &model.PaymentApproval{Success: true, ResultCode: pay.ResultCode, ResultMsg: pay.ResultMsg, Payment: &pay}, nil
	}
	if pay.Status != model.PaymentPending {
		return &model.PaymentApproval{Success: false, ResultCode: pay.ResultCode, ResultMsg: "이미 처리된 결제입니다.", Payment: &pay}, nil
	}

	reservations, err := m.reservations(ctx)
	if err != nil {
		return nil, err
	}
	res, hasRes := findReservationByID(reservations, pay.ReservationID)

	pay.ResultCode = resultCode
	if resultCode == model.GatewaySuccessCode {
		pay.Status = model.PaymentCompleted
		pay.TID = firstParam(params, "tid", "Tid", "TID")
		if pay.TID == "" {
			pay.TID = "MOCK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
		}
		if pm := firstParam(params, "payMethod", "PayMethod"); pm != "" {
			pay.Method = strings.ToUpper(pm)
		}
		pay.CardCode = params.Get("cardCode")
		pay.CardName = params.Get("cardName")
		pay.CardNum = params.Get("cardNum")
		pay.ResultMsg = firstParam(params, "resultMsg", "ResultMsg")
		if pay.ResultMsg == "" {
			pay.ResultMsg = "정상 처리되었습니다."
		}
		pay.ApprovedAt = m.now().UTC().Format(time.RFC3339)
		if hasRes && !res.Detail.Cancelled() {
			res.Detail.ReservationStatus = model.ReservationConfirmed
			reservations[res.Detail.ReservationCode] = res
			if err := m.save(ctx, keyReservations, reservations); err != nil {
				return nil, err
			}
		}
	} else {
		pay.Status = model.PaymentFailed
		pay.ResultMsg = firstParam(params, "resultMsg", "ResultMsg")
		if pay.ResultMsg == "" {
			pay.ResultMsg = "결제가 거절되었습니다."
		}
		if hasRes {
			if err := m.cancelLocked(ctx, res.Detail.ReservationCode); err != nil {
				return nil, err
			}
		}
	}
	all[orderID] = pay
	if err := m.save(ctx, keyPayments, all); err != nil {
		return nil, err
	}
	return &model.PaymentApproval{
		Success:    pay.Status == model.PaymentCompleted,
		ResultCode: pay.ResultCode,
		ResultMsg:  pay.ResultMsg,
		Payment:    &pay,
	}, nil
}

func (p *mockPayments) GetByTID(ctx context.Context, tid string) (*model.Payment, error) {
	return p.find(ctx, func(pay model.Payment) bool { return tid != "" && pay.TID == tid })
}

func (p *mockPayments) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	return p.find(ctx, func(pay model.Payment) bool { return pay.OrderID == orderID })
}

// GetByReservationID returns the latest payment attempt of the reservation.
func (p *mockPayments) GetByReservationID(ctx context.Context, reservationID int64) (*model.Payment, error) {
	return p.find(ctx, func(pay model.Payment) bool { return pay.ReservationID == reservationID })
}

func (p *mockPayments) find(ctx context.Context, match func(model.Payment) bool) (*model.Payment, error) {
	p.m.mu.Lock()
	all, err := p.m.payments(ctx)
	p.m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var best *model.Payment
	for _, pay := range all {
		if !match(pay) {
			continue
		}
		if best == nil || pay.ID > best.ID {
			pay := pay
			best = &pay
		}
	}
	if best == nil {
		return nil, notFound("결제 정보를 찾을 수 없습니다.")
	}
	return best, nil
}

// Cancel refunds a completed payment in full.
func (p *mockPayments) Cancel(ctx context.Context, req model.CancelPaymentRequest) (*model.PaymentApproval, error) {
	m := p.m
	m.mu.Lock()
	defer m.mu.Unlock()
	all, err := m.payments(ctx)
	if err != nil {
		return nil, err
	}
	for orderID, pay := range all {
		if req.TID == "" || pay.TID != req.TID {
			continue
		}
		if !pay.Refundable() {
			return nil, &Error{Status: http.StatusConflict, Message: "취소할 수 없는 결제입니다."}
		}
		if req.Amount > pay.Amount {
			return nil, &Error{Status: http.StatusBadRequest, Message: "취소 금액이 결제 금액을 초과합니다."}
		}
		pay.Status = model.PaymentCancelled
		pay.ResultCode = cancelSuccessCode
		pay.ResultMsg = "취소 성공"
		pay.CancelledAt = m.now().UTC().Format(time.RFC3339)
		all[orderID] = pay
		if err := m.save(ctx, keyPayments, all); err != nil {
			return nil, err
		}
		return &model.PaymentApproval{Success: true, ResultCode: pay.ResultCode, ResultMsg: pay.ResultMsg, Payment: &pay}, nil
	}
	return nil, notFound("결제 정보를 찾을 수 없습니다.")
}

func findReservationByID(all map[string]mockReservation, id int64) (mockReservation, bool) {
	for _, r := range all {
		if r.Detail.ReservationID == id {
			return r, true
		}
	}
	return mockReservation{}, false
}
