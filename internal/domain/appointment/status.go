package appointment

import "github.com/BruksfildServices01/barber-agenda/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

type Origin string

const (
	OriginPublic   Origin = "public"
	OriginInternal Origin = "internal"
)

// ===============================
// Validations
// ===============================

// CanCancel: a única transição permitida é scheduled -> cancelled
func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
