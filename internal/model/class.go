package model

// Session recruitment states.
const (
	SessionRecruiting = "RECRUITING"
	SessionFull       = "FULL"
	SessionClosed     = "CLOSED"
)

// Class is a one-day class as returned by the backend's share-code lookup.
// Optional text fields are plain strings; an empty value means the backend
// did not send it.  Description may contain markdown.
//
// Fields:
//
//	ID          – backend identifier, used for session and reservation calls.
//	ClassCode   – public share code used in URLs.
//	Name        – display title.
//	ImageURLs   – cover images, first one is the hero image.
//	Sessions    – scheduled occurrences; may be empty when the backend
//	              serves them from the dedicated sessions endpoint.
type Class struct {
	ID                  int64     `json:"id"`
	ClassCode           string    `json:"classCode,omitempty"`
	Name                string    `json:"name,omitempty"`
	ImageURLs           []string  `json:"imageUrls,omitempty"`
	Description         string    `json:"description,omitempty"`
	Location            string    `json:"location,omitempty"`
	LocationDescription string    `json:"locationDescription,omitempty"`
	Preparation         string    `json:"preparation,omitempty"`
	ParkingInfo         string    `json:"parkingInfo,omitempty"`
	Guidelines          string    `json:"guidelines,omitempty"`
	Policy              string    `json:"policy,omitempty"`
	InstructorID        int64     `json:"instructorId,omitempty"`
	InstructorName      string    `json:"instructorName,omitempty"`
	Sessions            []Session `json:"sessions,omitempty"`
}

// Session is one scheduled occurrence of a class.  Date is YYYY-MM-DD and
// the times are HH:MM:SS, both in the class's local time zone.
// CurrentNum never exceeds Capacity and Status is FULL exactly when the two
// are equal (unless the instructor closed the session).
type Session struct {
	ID         int64  `json:"id"`
	Date       string `json:"date,omitempty"`
	StartTime  string `json:"startTime,omitempty"`
	EndTime    string `json:"endTime,omitempty"`
	Capacity   int    `json:"capacity"`
	CurrentNum int    `json:"currentNum"`
	Status     string `json:"status,omitempty"`
	Price      int64  `json:"price"`
}

// Bookable reports whether the session still accepts reservations.
func (s Session) Bookable() bool {
	return s.Status != SessionFull && s.Status != SessionClosed && s.CurrentNum < s.Capacity
}

// Remaining returns how many seats are left.
func (s Session) Remaining() int {
	if s.CurrentNum >= s.Capacity {
		return 0
	}
	return s.Capacity - s.CurrentNum
}

// SessionByID finds a session of the class.
func (c *Class) SessionByID(id int64) (Session, bool) {
	for _, s := range c.Sessions {
		if s.ID == id {
			return s, true
		}
	}
	return Session{}, false
}

// Title returns the class name, falling back to a generic label.
func (c *Class) Title() string {
	if c.Name != "" {
		return c.Name
	}
	return "클래스"
}
