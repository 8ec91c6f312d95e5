package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/classhub/classhub-web/internal/model"
	"github.com/classhub/classhub-web/internal/store"
)

// Store keys of the mock backend.
const (
	keyReservations = "classhub_mock_reservations"
	keySessions     = "classhub_mock_sessions"
	keyPayments     = "classhub_mock_payments"
)

// mockBackend is the shared state behind the mock clients.  Every mutation
// is a read-modify-write of one JSON document, serialised by mu within the
// process.
type mockBackend struct {
	mu       sync.Mutex
	kv       store.KV
	cost     int
	classes  map[string]model.Class
	instHash []byte
	now      func() time.Time
	newCode  func() string
}

// mockReservation is the stored form of a reservation.
type mockReservation struct {
	Detail       model.ReservationDetail `json:"detail"`
	ClassID      int64                   `json:"classId"`
	PasswordHash string                  `json:"passwordHash,omitempty"`
}

// NewMockClients returns clients backed by demo data and kv.  cost is the
// bcrypt cost used for reservation passwords; out-of-range values fall back
// to bcrypt.DefaultCost.
func NewMockClients(kv store.KV, cost int) Clients {
	return newMockBackend(kv, cost).clients()
}

func newMockBackend(kv store.KV, cost int) *mockBackend {
	if kv == nil {
		kv = store.NewMemory()
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoInstructorPassword), cost)
	if err != nil {
		log.Printf("mock-backend: hash demo password: %v", err)
	}
	return &mockBackend{
		kv:       kv,
		cost:     cost,
		classes:  demoClasses(),
		instHash: hash,
		now:      time.Now,
		newCode:  newReservationCode,
	}
}

func (m *mockBackend) clients() Clients {
	return Clients{
		Classes:      &mockClasses{m},
		Reservations: &mockReservations{m},
		Payments:     &mockPayments{m},
		Instructors:  &mockInstructors{m},
	}
}

// newReservationCode derives an 8 character shareable code from a random UUID.
func newReservationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// load decodes the document stored under key into out.  A missing key
// leaves out untouched.
func (m *mockBackend) load(ctx context.Context, key string, out any) error {
	raw, err := m.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mock store get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("mock store decode %s: %w", key, err)
	}
	return nil
}

func (m *mockBackend) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := m.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("mock store set %s: %w", key, err)
	}
	return nil
}

func (m *mockBackend) reservations(ctx context.Context) (map[string]mockReservation, error) {
	out := map[string]mockReservation{}
	if err := m.load(ctx, keyReservations, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *mockBackend) payments(ctx context.Context) (map[string]model.Payment, error) {
	out := map[string]model.Payment{}
	if err := m.load(ctx, keyPayments, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// sessions returns the occupancy overlay keyed by session id.
func (m *mockBackend) sessions(ctx context.Context) (map[int64]model.Session, error) {
	out := map[int64]model.Session{}
	if err := m.load(ctx, keySessions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// classByID finds a demo class by backend id.
func (m *mockBackend) classByID(id int64) (model.Class, bool) {
	for _, c := range m.classes {
		if c.ID == id {
			return c, true
		}
	}
	return model.Class{}, false
}

// withOccupancy returns the class sessions with the stored occupancy applied.
func withOccupancy(c model.Class, overlay map[int64]model.Session) []model.Session {
	out := make([]model.Session, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		if o, ok := overlay[s.ID]; ok {
			s.CurrentNum = o.CurrentNum
			s.Status = o.Status
		}
		out = append(out, s)
	}
	return out
}

// adjustOccupancy moves CurrentNum by delta and keeps Status consistent with
// it: FULL exactly at capacity, RECRUITING below.  Closed sessions stay
// closed.
func adjustOccupancy(s model.Session, delta int) model.Session {
	s.CurrentNum += delta
	if s.CurrentNum < 0 {
		s.CurrentNum = 0
	}
	if s.CurrentNum > s.Capacity {
		s.CurrentNum = s.Capacity
	}
	if s.Status == model.SessionClosed {
		return s
	}
	if s.CurrentNum >= s.Capacity {
		s.Status = model.SessionFull
	} else {
		s.Status = model.SessionRecruiting
	}
	return s
}

// releaseSeat gives the session seat of a cancelled reservation back.
func (m *mockBackend) releaseSeat(ctx context.Context, r mockReservation) error {
	c, ok := m.classByID(r.ClassID)
	if !ok {
		return nil
	}
	overlay, err := m.sessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range withOccupancy(c, overlay) {
		if s.ID == r.Detail.SessionID {
			overlay[s.ID] = adjustOccupancy(s, -1)
			return m.save(ctx, keySessions, overlay)
		}
	}
	return nil
}

func notFound(msg string) error {
	return &Error{Status: 404, Message: msg}
}
