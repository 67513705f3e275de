package attendance

import "time"

// Attendance is one gym check-in. Rows are never updated.
type Attendance struct {
	ID          int       `db:"id" json:"id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	CheckInTime time.Time `db:"check_in_time" json:"check_in_time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
