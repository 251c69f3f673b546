package slot

import "github.com/BruksfildServices01/salon-scheduler/internal/httperr"

// ===============================
// Slot Status
// ===============================

type Status string

const (
	StatusAvailable   Status = "available"
	StatusBooked      Status = "booked"
	StatusBlocked     Status = "blocked"
	StatusBreak       Status = "break"
	StatusUnavailable Status = "unavailable"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusBlocked, StatusBreak, StatusUnavailable:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", httperr.Validation("invalid_status", s)
	}
	return st, nil
}

// ===============================
// Slot Type
// ===============================

type Type string

const (
	TypeRegular     Type = "regular"
	TypeBreak       Type = "break"
	TypeBuffer      Type = "buffer"
	TypeMaintenance Type = "maintenance"
	TypeEmergency   Type = "emergency"
)

// ===============================
// Transitions
// ===============================

// CanBlock: AVAILABLE → BLOCKED.
func CanBlock(current Status) error {
	if current != StatusAvailable {
		return httperr.InvalidTransition("slot_not_available", "cannot block a "+string(current)+" slot")
	}
	return nil
}

// CanUnblock: BLOCKED → AVAILABLE.
func CanUnblock(current Status) error {
	if current != StatusBlocked {
		return httperr.InvalidTransition("slot_not_blocked", "cannot unblock a "+string(current)+" slot")
	}
	return nil
}

// CanBook: AVAILABLE → BOOKED.
func CanBook(current Status) error {
	if current != StatusAvailable {
		return httperr.InvalidTransition("slot_not_available", "cannot book a "+string(current)+" slot")
	}
	return nil
}

// CanRelease: BOOKED → AVAILABLE.
func CanRelease(current Status) error {
	if current != StatusBooked {
		return httperr.InvalidTransition("slot_not_booked", "cannot release a "+string(current)+" slot")
	}
	return nil
}

// CanReleaseSeat: a group slot gives a seat back while available or booked.
func CanReleaseSeat(current Status) error {
	if current != StatusAvailable && current != StatusBooked {
		return httperr.InvalidTransition("slot_not_booked", "cannot release a seat on a "+string(current)+" slot")
	}
	return nil
}

// Occupied statuses block a regeneration that does not overwrite.
func Occupied(s Status) bool {
	return s == StatusAvailable || s == StatusBooked || s == StatusBlocked
}
