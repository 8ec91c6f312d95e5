// Package queue defines the payment event payload exchanged over the message
// broker and the consumer that writes it to the payment log.
package queue

// PaymentResultEvent is published once per payment result page view.  It
// carries enough to audit the outcome without querying the backend.
type PaymentResultEvent struct {
	ReservationCode string `json:"reservation_code"`
	ClassCode       string `json:"class_code,omitempty"`
	OrderID         string `json:"order_id,omitempty"`
	TID             string `json:"tid,omitempty"`
	ResultCode      string `json:"result_code,omitempty"`
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	Branch          string `json:"branch"`
	Amount          int64  `json:"amount,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}
