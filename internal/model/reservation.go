package model

import "time"

// Reservation states as reported by the backend.
const (
	ReservationPending   = "PENDING"
	ReservationReserved  = "RESERVED"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// CancelCutoff is how long before a session starts a reservation can still
// be cancelled by the applicant.
const CancelCutoff = 12 * time.Hour

// ReservationDetail is the backend's reservation view: the booking joined
// with its class and session.  Search results share the same shape.
type ReservationDetail struct {
	ReservationID     int64  `json:"reservationId"`
	ReservationCode   string `json:"reservationCode"`
	ClassTitle        string `json:"classTitle"`
	ClassCode         string `json:"classCode"`
	ClassImageURL     string `json:"classImageUrl,omitempty"`
	ClassLocation     string `json:"classLocation"`
	SessionID         int64  `json:"sessionId,omitempty"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	ApplicantName     string `json:"applicantName"`
	PhoneNumber       string `json:"phoneNumber"`
	Capacity          int    `json:"capacity"`
	CurrentNum        int    `json:"currentNum"`
	SessionStatus     string `json:"sessionStatus"`
	ReservationStatus string `json:"reservationStatus"`
	Attended          bool   `json:"attended,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

// Cancelled reports whether the reservation is no longer active.
func (r *ReservationDetail) Cancelled() bool {
	return r.ReservationStatus == ReservationCancelled
}

// SessionStart parses Date and StartTime in loc.  Seconds are optional.
func (r *ReservationDetail) SessionStart(loc *time.Location) (time.Time, error) {
	layout := "2006-01-02 15:04:05"
	if len(r.StartTime) == len("15:04") {
		layout = "2006-01-02 15:04"
	}
	return time.ParseInLocation(layout, r.Date+" "+r.StartTime, loc)
}

// CanCancel reports whether now is still before the cancellation cutoff.
// A reservation whose session time cannot be parsed is not cancellable.
func (r *ReservationDetail) CanCancel(now time.Time, loc *time.Location) bool {
	if r.Cancelled() {
		return false
	}
	start, err := r.SessionStart(loc)
	if err != nil {
		return false
	}
	return now.Before(start.Add(-CancelCutoff))
}

// CreateReservationRequest is posted to the backend to book a session.
type CreateReservationRequest struct {
	SessionID     int64  `json:"sessionId"`
	ApplicantName string `json:"applicantName"`
	PhoneNumber   string `json:"phoneNumber"`
	Password      string `json:"password,omitempty"`
}

// CreateReservationResponse identifies the reservation just created.
type CreateReservationResponse struct {
	ReservationCode string `json:"reservationCode"`
	ClassCode       string `json:"classCode"`
}

// SessionReservation is a reservation as listed to the instructor.
type SessionReservation struct {
	ReservationID int64  `json:"reservationId"`
	StudentID     int64  `json:"studentId"`
	ApplicantName string `json:"applicantName"`
	PhoneNumber   string `json:"phoneNumber"`
	AppliedAt     string `json:"appliedAt"`
	Status        string `json:"status"`
}
