// Package apitest provides hand-written fakes of the api interfaces.  Every
// method delegates to an optional func field and counts its calls; an unset
// func returns api.ErrNotFound.
package apitest

import (
	"context"
	"net/url"
	"sync"

	"github.com/classhub/classhub-web/internal/api"
	"github.com/classhub/classhub-web/internal/model"
)

// Calls counts invocations per method name.
type Calls struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *Calls) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = map[string]int{}
	}
	c.n[name]++
}

// Count returns how often name was called.
func (c *Calls) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[name]
}

// Total returns the number of calls to any method.
func (c *Calls) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, v := range c.n {
		total += v
	}
	return total
}

type MockClassAPI struct {
	Calls
	GetByClassCodeFunc       func(ctx context.Context, classCode string) (*model.Class, error)
	GetSessionsByClassIDFunc func(ctx context.Context, classID int64) ([]model.Session, error)
	GetSessionByIDFunc       func(ctx context.Context, sessionID int64) (*model.Session, error)
}

func (m *MockClassAPI) GetByClassCode(ctx context.Context, classCode string) (*model.Class, error) {
	m.add("GetByClassCode")
	if m.GetByClassCodeFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.GetByClassCodeFunc(ctx, classCode)
}

func (m *MockClassAPI) GetSessionsByClassID(ctx context.Context, classID int64) ([]model.Session, error) {
	m.add("GetSessionsByClassID")
	if m.GetSessionsByClassIDFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.GetSessionsByClassIDFunc(ctx, classID)
}

func (m *MockClassAPI) GetSessionByID(ctx context.Context, sessionID int64) (*model.Session, error) {
	m.add("GetSessionByID")
	if m.GetSessionByIDFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.GetSessionByIDFunc(ctx, sessionID)
}

type MockReservationAPI struct {
	Calls
	CreateFunc         func(ctx context.Context, classID int64, req model.CreateReservationRequest) (*model.CreateReservationResponse, error)
	SearchFunc         func(ctx context.Context, name, phone, password string) ([]model.ReservationDetail, error)
	GetByCodeFunc      func(ctx context.Context, reservationCode string) (*model.ReservationDetail, error)
	CancelFunc         func(ctx context.Context, reservationCode string) error
	MarkAttendanceFunc func(ctx context.Context, reservationCode string) error
	ListBySessionFunc  func(ctx context.Context, sessionID int64) ([]model.SessionReservation, error)
}

func (m *MockReservationAPI) Create(ctx context.Context, classID int64, req model.CreateReservationRequest) (*model.CreateReservationResponse, error) {
	m.add("Create")
	if m.CreateFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.CreateFunc(ctx, classID, req)
}

func (m *MockReservationAPI) Search(ctx context.Context, name, phone, password string) ([]model.ReservationDetail, error) {
	m.add("Search")
	if m.SearchFunc == nil {
		return []model.ReservationDetail{}, nil
	}
	return m.SearchFunc(ctx, name, phone, password)
}

func (m *MockReservationAPI) GetByCode(ctx context.Context, reservationCode string) (*model.ReservationDetail, error) {
	m.add("GetByCode")
	if m.GetByCodeFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.GetByCodeFunc(ctx, reservationCode)
}

func (m *MockReservationAPI) Cancel(ctx context.Context, reservationCode string) error {
	m.add("Cancel")
	if m.CancelFunc == nil {
		return api.ErrNotFound
	}
	return m.CancelFunc(ctx, reservationCode)
}

func (m *MockReservationAPI) MarkAttendance(ctx context.Context, reservationCode string) error {
	m.add("MarkAttendance")
	if m.MarkAttendanceFunc == nil {
		return api.ErrNotFound
	}
	return m.MarkAttendanceFunc(ctx, reservationCode)
}

func (m *MockReservationAPI) ListBySession(ctx context.Context, sessionID int64) ([]model.SessionReservation, error) {
	m.add("ListBySession")
	if m.ListBySessionFunc == nil {
		return []model.SessionReservation{}, nil
	}
	return m.ListBySessionFunc(ctx, sessionID)
}

type MockPaymentAPI struct {
	Calls
	CreateFunc             func(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error)
	ApproveFunc            func(ctx context.Context, params url.Values) (*model.PaymentApproval, error)
	GetByTIDFunc           func(ctx context.Context, tid string) (*model.Payment, error)
	GetByOrderIDFunc       func(ctx context.Context, orderID string) (*model.Payment, error)
	GetByReservationIDFunc func(ctx context.Context, reservationID int64) (*model.Payment, error)
	CancelFunc             func(ctx context.Context, req model.CancelPaymentRequest) (*model.PaymentApproval, error)
}

func (m *MockPaymentAPI) Create(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error) {
	m.add("Create")
	if m.CreateFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.CreateFunc(ctx, req)
}

func (m *MockPaymentAPI) Approve(ctx context.Context, params url.Values) (*model.PaymentApproval, error) {
	m.add("Approve")
	if m.ApproveFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.ApproveFunc(ctx, params)
}

func (m *MockPaymentAPI) GetByTID(ctx context.Context, tid string) (*model.Payment, error) {
	m.add("GetByTID")
	if m.GetByTIDFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.GetByTIDFunc(ctx, tid)
}

func (m *MockPaymentAPI) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	m.add("GetByOrderID")
	if m.GetByOrderIDFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.GetByOrderIDFunc(ctx, orderID)
}

func (m *MockPaymentAPI) GetByReservationID(ctx context.Context, reservationID int64) (*model.Payment, error) {
	m.add("GetByReservationID")
	if m.GetByReservationIDFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.GetByReservationIDFunc(ctx, reservationID)
}

func (m *MockPaymentAPI) Cancel(ctx context.Context, req model.CancelPaymentRequest) (*model.PaymentApproval, error) {
	m.add("Cancel")
	if m.CancelFunc == nil {
		return nil, api.ErrNotFound
	}
	return m.CancelFunc(ctx, req)
}

type MockInstructorAPI struct {
	Calls
	LoginFunc       func(ctx context.Context, email, password string) (*model.Instructor, error)
	ListClassesFunc func(ctx context.Context, instructorID int64) ([]model.ClassSummary, error)
}

func (m *MockInstructorAPI) Login(ctx context.Context, email, password string) (*model.Instructor, error) {
	m.add("Login")
	if m.LoginFunc == nil {
		return nil, api.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockInstructorAPI) ListClasses(ctx context.Context, instructorID int64) ([]model.ClassSummary, error) {
	m.add("ListClasses")
	if m.ListClassesFunc == nil {
		return []model.ClassSummary{}, nil
	}
	return m.ListClassesFunc(ctx, instructorID)
}

// Clients bundles one fake per capability.
type Clients struct {
	Classes      *MockClassAPI
	Reservations *MockReservationAPI
	Payments     *MockPaymentAPI
	Instructors  *MockInstructorAPI
}

// New returns fresh fakes with no behaviour configured.
func New() *Clients {
	return &Clients{
		Classes:      &MockClassAPI{},
		Reservations: &MockReservationAPI{},
		Payments:     &MockPaymentAPI{},
		Instructors:  &MockInstructorAPI{},
	}
}

// API returns the fakes as api.Clients.
func (c *Clients) API() api.Clients {
	return api.Clients{
		Classes:      c.Classes,
		Reservations: c.Reservations,
		Payments:     c.Payments,
		Instructors:  c.Instructors,
	}
}

// Total returns the number of calls made to any fake.
func (c *Clients) Total() int {
	return c.Classes.Total() + c.Reservations.Total() + c.Payments.Total() + c.Instructors.Total()
}
