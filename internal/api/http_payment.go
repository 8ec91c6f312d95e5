package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/classhub/classhub-web/internal/model"
)

type httpPayments struct{ b *backend }

func (p *httpPayments) Create(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error) {
	var out model.Payment
	if err := p.b.call(ctx, http.MethodPost, "/api/payments", nil, req, &out,
		"결제 생성에 실패했습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve forwards the gateway parameters as the query string.
func (p *httpPayments) Approve(ctx context.Context, params url.Values) (*model.PaymentApproval, error) {
	var out model.PaymentApproval
	if err := p.b.call(ctx, http.MethodGet, "/api/payments/approve", params, nil, &out,
		"결제 승인 처리에 실패했습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *httpPayments) GetByTID(ctx context.Context, tid string) (*model.Payment, error) {
	return p.get(ctx, "/api/payments/tid/"+seg(tid))
}

func (p *httpPayments) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	return p.get(ctx, "/api/payments/order/"+seg(orderID))
}

func (p *httpPayments) GetByReservationID(ctx context.Context, reservationID int64) (*model.Payment, error) {
	return p.get(ctx, fmt.Sprintf("/api/payments/reservation/%d", reservationID))
}

func (p *httpPayments) get(ctx context.Context, path string) (*model.Payment, error) {
	var out model.Payment
	if err := p.b.call(ctx, http.MethodGet, path, nil, nil, &out,
		"결제 정보를 찾을 수 없습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *httpPayments) Cancel(ctx context.Context, req model.CancelPaymentRequest) (*model.PaymentApproval, error) {
	var out model.PaymentApproval
	if err := p.b.call(ctx, http.MethodPost, "/api/payments/cancel", nil, req, &out,
		"결제 취소에 실패했습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}
