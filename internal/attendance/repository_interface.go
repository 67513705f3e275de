package attendance

import (
	"context"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/period"
)

type Repository interface {
	// CheckIn records a check-in at the given time unless the member already
	// has limit check-ins inside day. A nil limit means unlimited.
	CheckIn(ctx context.Context, memberID int, at time.Time, day period.Window, limit *int) (*Attendance, error)
	ListByMember(ctx context.Context, memberID, limit int) ([]Attendance, error)
}
