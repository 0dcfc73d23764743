package domain

import "time"

// BootcampEnrollment is the active relationship between one user and one
// bootcamp. The (BootcampID, UserID) pair is unique while it exists.
type BootcampEnrollment struct {
	ID         int64     `json:"id" db:"id"`
	BootcampID int64     `json:"bootcamp_id" db:"bootcamp_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"`
}
