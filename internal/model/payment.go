package model

// Payment states.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentCancelled = "CANCELLED"
	PaymentFailed    = "FAILED"
)

// Payment methods understood by the backend.
const (
	MethodCard      = "CARD"
	MethodVBank     = "VBANK"
	MethodBank      = "BANK"
	MethodCellphone = "CELLPHONE"
	MethodNaverPay  = "NAVERPAY"
	MethodKakaoPay  = "KAKAOPAY"
	MethodPayco     = "PAYCO"
	MethodSSGPay    = "SSGPAY"
)

// GatewaySuccessCode is the gateway result code for an authorized payment.
const GatewaySuccessCode = "0000"

// Payment mirrors the backend payment record.  OrderID is generated by this
// server before redirecting to the gateway; TID is assigned by the gateway
// and is empty until authorization.
type Payment struct {
	ID            int64  `json:"id"`
	ReservationID int64  `json:"reservationId"`
	TID           string `json:"tid,omitempty"`
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Method        string `json:"method,omitempty"`
	CardCode      string `json:"cardCode,omitempty"`
	CardName      string `json:"cardName,omitempty"`
	CardNum       string `json:"cardNum,omitempty"`
	ResultCode    string `json:"resultCode,omitempty"`
	ResultMsg     string `json:"resultMsg,omitempty"`
	ApprovedAt    string `json:"approvedAt,omitempty"`
	CancelledAt   string `json:"cancelledAt,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// Refundable reports whether a cancel request can be sent for the payment.
func (p *Payment) Refundable() bool {
	return p != nil && p.TID != "" && p.Status == PaymentCompleted
}

// CreatePaymentRequest registers a payment attempt before the gateway opens.
type CreatePaymentRequest struct {
	ReservationID int64  `json:"reservationId,omitempty"`
	Amount        int64  `json:"amount"`
	OrderID       string `json:"orderId"`
	Method        string `json:"method,omitempty"`
}

// CancelPaymentRequest asks the backend to refund a completed payment.
type CancelPaymentRequest struct {
	TID    string `json:"tid"`
	Amount int64  `json:"amount,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// PaymentApproval is the backend's answer to approve and cancel calls.
type PaymentApproval struct {
	Success    bool     `json:"success"`
	ResultCode string   `json:"resultCode"`
	ResultMsg  string   `json:"resultMsg"`
	Payment    *Payment `json:"payment,omitempty"`
}
