package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/classhub/classhub-web/internal/model"
)

type httpReservations struct{ b *backend }

func (r *httpReservations) Create(ctx context.Context, classID int64, req model.CreateReservationRequest) (*model.CreateReservationResponse, error) {
	q := url.Values{"onedayClassId": {strconv.FormatInt(classID, 10)}}
	var out model.CreateReservationResponse
	if err := r.b.call(ctx, http.MethodPost, "/api/reservations", q, req, &out,
		"예약에 실패했습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search returns an empty list, not an error, when the backend rejects the
// lookup (unknown applicant or wrong password); only server-side failures
// are reported.
func (r *httpReservations) Search(ctx context.Context, name, phone, password string) ([]model.ReservationDetail, error) {
	q := url.Values{"name": {name}, "phone": {phone}, "password": {password}}
	var out []model.ReservationDetail
	err := r.b.call(ctx, http.MethodGet, "/api/reservations/search", q, nil, &out,
		"조회 중 오류가 발생했습니다.")
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return []model.ReservationDetail{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *httpReservations) GetByCode(ctx context.Context, reservationCode string) (*model.ReservationDetail, error) {
	var out model.ReservationDetail
	if err := r.b.call(ctx, http.MethodGet, "/api/reservations/"+seg(reservationCode), nil, nil, &out,
		"예약 정보를 찾을 수 없습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpReservations) Cancel(ctx context.Context, reservationCode string) error {
	return r.b.call(ctx, http.MethodDelete, "/api/reservations/"+seg(reservationCode), nil, nil, nil,
		"취소에 실패했습니다.")
}

func (r *httpReservations) MarkAttendance(ctx context.Context, reservationCode string) error {
	return r.b.call(ctx, http.MethodPatch, "/api/reservations/"+seg(reservationCode)+"/attendance", nil, nil, nil,
		"출석 처리에 실패했습니다.")
}

func (r *httpReservations) ListBySession(ctx context.Context, sessionID int64) ([]model.SessionReservation, error) {
	var out []model.SessionReservation
	if err := r.b.call(ctx, http.MethodGet, fmt.Sprintf("/api/reservations/session/%d", sessionID), nil, nil, &out,
		"세션별 예약 목록을 가져올 수 없습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
