// Package api holds the clients for the external class/reservation/payment
// backend.  Each capability is an interface with two implementations: the
// HTTP client talking to the real backend and an in-process mock persisted
// through a store.KV.  Which one is used is decided once, at startup, by
// New.
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/store"
)

// ClassAPI looks up classes and their sessions.
type ClassAPI interface {
	GetByClassCode(ctx context.Context, classCode string) (*model.Class, error)
	GetSessionsByClassID(ctx context.Context, classID int64) ([]model.Session, error)
	GetSessionByID(ctx context.Context, sessionID int64) (*model.Session, error)
}

// ReservationAPI books, finds and cancels reservations.
type ReservationAPI interface {
	Create(ctx context.Context, classID int64, req model.CreateReservationRequest) (*model.CreateReservationResponse, error)
	Search(ctx context.Context, name, phone, password string) ([]model.ReservationDetail, error)
	GetByCode(ctx context.Context, reservationCode string) (*model.ReservationDetail, error)
	Cancel(ctx context.Context, reservationCode string) error
	MarkAttendance(ctx context.Context, reservationCode string) error
	ListBySession(ctx context.Context, sessionID int64) ([]model.SessionReservation, error)
}

// PaymentAPI registers, approves, looks up and refunds payments.  Approve
// receives the gateway's redirect parameters untouched.
type PaymentAPI interface {
	Create(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error)
	Approve(ctx context.Context, params url.Values) (*model.PaymentApproval, error)
	GetByTID(ctx context.Context, tid string) (*model.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	GetByReservationID(ctx context.Context, reservationID int64) (*model.Payment, error)
	Cancel(ctx context.Context, req model.CancelPaymentRequest) (*model.PaymentApproval, error)
}

// InstructorAPI authenticates instructors and lists their classes.
type InstructorAPI interface {
	Login(ctx context.Context, email, password string) (*model.Instructor, error)
	ListClasses(ctx context.Context, instructorID int64) ([]model.ClassSummary, error)
}

// Clients bundles one implementation of every capability.
type Clients struct {
	Classes      ClassAPI
	Reservations ReservationAPI
	Payments     PaymentAPI
	Instructors  InstructorAPI
}

// Options selects and parameterises the implementation returned by New.
type Options struct {
	UseMock    bool
	BackendURL string       // real backend base URL, without trailing slash
	HTTPClient *http.Client // nil means http.DefaultClient
	Store      store.KV     // mock persistence; required when UseMock
	BcryptCost int          // mock password hashing cost
}

// New returns the mock clients when opts.UseMock is set and the HTTP
// clients otherwise.
func New(opts Options) Clients {
	if opts.UseMock {
		return NewMockClients(opts.Store, opts.BcryptCost)
	}
	return NewHTTPClients(opts.BackendURL, opts.HTTPClient)
}
