package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/classhub/classhub-web/internal/model"
)

type mockReservations struct{ m *mockBackend }

// Create books one seat of the session.  It fails with ErrSessionFull when
// the session is full or closed; the occupancy never exceeds capacity.
func (r *mockReservations) Create(ctx context.Context, classID int64, req model.CreateReservationRequest) (*model.CreateReservationResponse, error) {
	m := r.m
	cls, ok := m.classByID(classID)
	if !ok {
		return nil, notFound("클래스를 찾을 수 없습니다.")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	overlay, err := m.sessions(ctx)
	if err != nil {
		return nil, err
	}
	var session *model.Session
	for _, s := range withOccupancy(cls, overlay) {
		if s.ID == req.SessionID {
			s := s
			session = &s
			break
		}
	}
	if session == nil {
		return nil, notFound("세션을 찾을 수 없습니다.")
	}
	if !session.Bookable() {
		return nil, ErrSessionFull
	}

	var hash string
	if req.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(req.Password), m.cost)
		if err != nil {
			return nil, err
		}
		hash = string(b)
	}

	all, err := m.reservations(ctx)
	if err != nil {
		return nil, err
	}
	code := m.newCode()
	for _, exists := all[code]; exists; _, exists = all[code] {
		code = m.newCode()
	}
	var nextID int64 = 1
	for _, res := range all {
		if res.Detail.ReservationID >= nextID {
			nextID = res.Detail.ReservationID + 1
		}
	}
	booked := adjustOccupancy(*session, 1)
	all[code] = mockReservation{
		ClassID:      cls.ID,
		PasswordHash: hash,
		Detail: model.ReservationDetail{
			ReservationID:     nextID,
			ReservationCode:   code,
			ClassTitle:        cls.Name,
			ClassCode:         cls.ClassCode,
			ClassImageURL:     firstOf(cls.ImageURLs),
			ClassLocation:     cls.Location,
			SessionID:         booked.ID,
			Date:              booked.Date,
			StartTime:         booked.StartTime,
			EndTime:           booked.EndTime,
			ApplicantName:     req.ApplicantName,
			PhoneNumber:       req.PhoneNumber,
			Capacity:          booked.Capacity,
			CurrentNum:        booked.CurrentNum,
			SessionStatus:     booked.Status,
			ReservationStatus: model.ReservationReserved,
			CreatedAt:         m.now().UTC().Format(time.RFC3339),
		},
	}
	if err := m.save(ctx, keyReservations, all); err != nil {
		return nil, err
	}
	overlay[booked.ID] = booked
	if err := m.save(ctx, keySessions, overlay); err != nil {
		return nil, err
	}
	return &model.CreateReservationResponse{ReservationCode: code, ClassCode: cls.ClassCode}, nil
}

// Search matches name and phone exactly.  Reservations created with a
// password only match when the same password is supplied.
func (r *mockReservations) Search(ctx context.Context, name, phone, password string) ([]model.ReservationDetail, error) {
	r.m.mu.Lock()
	all, overlay, err := r.m.reservationsWithSessions(ctx)
	r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []model.ReservationDetail{}
	for _, res := range all {
		if res.Detail.ApplicantName != name || res.Detail.PhoneNumber != phone {
			continue
		}
		if res.PasswordHash != "" &&
			bcrypt.CompareHashAndPassword([]byte(res.PasswordHash), []byte(password)) != nil {
			continue
		}
		out = append(out, r.m.withCurrentSession(res, overlay))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationID > out[j].ReservationID })
	return out, nil
}

func (r *mockReservations) GetByCode(ctx context.Context, reservationCode string) (*model.ReservationDetail, error) {
	r.m.mu.Lock()
	all, overlay, err := r.m.reservationsWithSessions(ctx)
	r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	res, ok := all[reservationCode]
	if !ok {
		return nil, notFound("예약 정보를 찾을 수 없습니다.")
	}
	detail := r.m.withCurrentSession(res, overlay)
	return &detail, nil
}

// reservationsWithSessions loads the reservations and the session occupancy
// overlay together.  Callers hold m.mu.
func (m *mockBackend) reservationsWithSessions(ctx context.Context) (map[string]mockReservation, map[int64]model.Session, error) {
	all, err := m.reservations(ctx)
	if err != nil {
		return nil, nil, err
	}
	overlay, err := m.sessions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return all, overlay, nil
}

// withCurrentSession returns the stored detail with the session occupancy
// as it is now rather than as it was at booking time.
func (m *mockBackend) withCurrentSession(res mockReservation, overlay map[int64]model.Session) model.ReservationDetail {
	d := res.Detail
	cls, ok := m.classByID(res.ClassID)
	if !ok {
		return d
	}
	for _, s := range withOccupancy(cls, overlay) {
		if s.ID == d.SessionID {
			d.Capacity = s.Capacity
			d.CurrentNum = s.CurrentNum
			d.SessionStatus = s.Status
			break
		}
	}
	return d
}

// Cancel marks the reservation CANCELLED and releases its seat.  Cancelling
// twice is a no-op.
func (r *mockReservations) Cancel(ctx context.Context, reservationCode string) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelLocked(ctx, reservationCode)
}

func (m *mockBackend) cancelLocked(ctx context.Context, reservationCode string) error {
	all, err := m.reservations(ctx)
	if err != nil {
		return err
	}
	res, ok := all[reservationCode]
	if !ok {
		return notFound("예약 정보를 찾을 수 없습니다.")
	}
	if res.Detail.Cancelled() {
		return nil
	}
	res.Detail.ReservationStatus = model.ReservationCancelled
	all[reservationCode] = res
	if err := m.save(ctx, keyReservations, all); err != nil {
		return err
	}
	return m.releaseSeat(ctx, res)
}

func (r *mockReservations) MarkAttendance(ctx context.Context, reservationCode string) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	all, err := m.reservations(ctx)
	if err != nil {
		return err
	}
	res, ok := all[reservationCode]
	if !ok {
		return notFound("예약 정보를 찾을 수 없습니다.")
	}
	if res.Detail.Cancelled() {
		return &Error{Status: http.StatusConflict, Message: "취소된 예약은 출석 처리할 수 없습니다."}
	}
	res.Detail.Attended = true
	all[reservationCode] = res
	return m.save(ctx, keyReservations, all)
}

func (r *mockReservations) ListBySession(ctx context.Context, sessionID int64) ([]model.SessionReservation, error) {
	r.m.mu.Lock()
	all, err := r.m.reservations(ctx)
	r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []model.SessionReservation{}
	for _, res := range all {
		if res.Detail.SessionID != sessionID {
			continue
		}
		out = append(out, model.SessionReservation{
			ReservationID: res.Detail.ReservationID,
			ApplicantName: res.Detail.ApplicantName,
			PhoneNumber:   res.Detail.PhoneNumber,
			AppliedAt:     res.Detail.CreatedAt,
			Status:        res.Detail.ReservationStatus,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationID < out[j].ReservationID })
	return out, nil
}

func firstOf(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
