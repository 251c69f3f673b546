package models

import "time"

// TimeSlot is one generated, individually addressable interval.
// StartAt/EndAt are stored in UTC; SlotDate/StartTime/EndTime keep the
// wall-clock reading in the schedule's timezone.
type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID   uint  `gorm:"not null;uniqueIndex:idx_slot_owner_start,priority:1;index:idx_slot_business_date,priority:1" json:"business_id"`
	SpecialistID *uint `gorm:"uniqueIndex:idx_slot_owner_start,priority:2" json:"specialist_id"`
	ScheduleID   *uint `gorm:"index" json:"schedule_id"`

	SlotDate  string    `gorm:"size:10;not null;index:idx_slot_business_date,priority:2" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	StartAt   time.Time `gorm:"not null;uniqueIndex:idx_slot_owner_start,priority:3" json:"start_at"`
	EndAt     time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;not null;index" json:"status"`
	Type   string `gorm:"size:20;not null" json:"type"`

	DurationMinutes int `gorm:"not null" json:"duration_minutes"`

	AppointmentID *uint `gorm:"index" json:"appointment_id"`
	ServiceID     *uint `json:"service_id"`

	BlockReason string     `gorm:"size:255" json:"block_reason,omitempty"`
	Notes       string     `gorm:"size:255" json:"notes,omitempty"`
	BlockedBy   *uint      `json:"blocked_by,omitempty"`
	BlockedAt   *time.Time `json:"blocked_at,omitempty"`

	MaxCapacity     int `gorm:"not null;default:1" json:"max_capacity"`
	CurrentCapacity int `gorm:"not null;default:0" json:"current_capacity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TimeSlot) TableName() string { return "time_slots" }

// IsBound reports whether an appointment holds the slot.
func (s *TimeSlot) IsBound() bool {
	return s.AppointmentID != nil || s.CurrentCapacity > 0
}

func (s *TimeSlot) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && s.EndAt.After(start)
}
