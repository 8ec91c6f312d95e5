package model

// Instructor is the authenticated instructor returned by the backend login.
type Instructor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClassSummary is one row of the instructor's class list.
type ClassSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ClassCode    string `json:"classCode"`
	SessionCount int    `json:"sessionCount"`
	LinkShare    string `json:"linkShareStatus,omitempty"`
}
