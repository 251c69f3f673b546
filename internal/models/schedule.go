package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
)

const (
	ScheduleKindBusinessDefault   = "business_default"
	ScheduleKindSpecialistCustom  = "specialist_custom"
	ScheduleKindTemporaryOverride = "temporary_override"
)

// Shift is one contiguous work interval of a day, optionally with a break.
type Shift struct {
	Start      clock.TimeOfDay  `json:"start"`
	End        clock.TimeOfDay  `json:"end"`
	BreakStart *clock.TimeOfDay `json:"break_start,omitempty"`
	BreakEnd   *clock.TimeOfDay `json:"break_end,omitempty"`
}

func (s Shift) HasBreak() bool {
	return s.BreakStart != nil && s.BreakEnd != nil
}

type DayPlan struct {
	Enabled bool    `json:"enabled"`
	Shifts  []Shift `json:"shifts"`
}

// WeeklyPattern must carry an entry for each of the seven weekdays.
type WeeklyPattern map[clock.Weekday]DayPlan

// ScheduleException replaces the weekly pattern on a single date.
type ScheduleException struct {
	Date   clock.Date `json:"date"`
	Closed bool       `json:"closed"`
	Shifts []Shift    `json:"shifts,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

type ScheduleDefinition struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID   uint  `gorm:"not null;index:idx_schedule_scope" json:"business_id"`
	SpecialistID *uint `gorm:"index:idx_schedule_scope" json:"specialist_id"`
	LocationID   *uint `json:"location_id"`

	Name string `gorm:"size:100" json:"name"`
	Kind string `gorm:"size:32;not null" json:"kind"`

	WeeklyPattern datatypes.JSONType[WeeklyPattern]       `json:"weekly_pattern"`
	Exceptions    datatypes.JSONType[[]ScheduleException] `json:"exceptions"`

	SlotDurationMinutes int    `gorm:"not null" json:"slot_duration_minutes"`
	BufferMinutes       int    `gorm:"not null" json:"buffer_minutes"`
	Timezone            string `gorm:"size:64;not null" json:"timezone"`
	// SlotCapacity is the number of seats on each generated slot; 0 reads as 1.
	SlotCapacity int `gorm:"not null;default:1" json:"slot_capacity"`

	EffectiveFrom *datatypes.Date `json:"effective_from"`
	EffectiveTo   *datatypes.Date `json:"effective_to"`

	IsDefault bool `gorm:"not null" json:"is_default"`
	Priority  int  `gorm:"not null" json:"priority"`
	IsActive  bool `gorm:"not null" json:"is_active"`

	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ScheduleDefinition) TableName() string { return "schedule_definitions" }

func (s *ScheduleDefinition) Capacity() int {
	if s.SlotCapacity < 1 {
		return 1
	}
	return s.SlotCapacity
}

func (s *ScheduleDefinition) Pattern() WeeklyPattern {
	return s.WeeklyPattern.Data()
}

func (s *ScheduleDefinition) ExceptionList() []ScheduleException {
	return s.Exceptions.Data()
}

// EffectiveWindow returns the optional bounds as calendar dates.
func (s *ScheduleDefinition) EffectiveWindow() (from, to *clock.Date) {
	if s.EffectiveFrom != nil {
		d := clock.DateOf(time.Time(*s.EffectiveFrom))
		from = &d
	}
	if s.EffectiveTo != nil {
		d := clock.DateOf(time.Time(*s.EffectiveTo))
		to = &d
	}
	return from, to
}

// Covers reports whether d falls within the effective window.
func (s *ScheduleDefinition) Covers(d clock.Date) bool {
	from, to := s.EffectiveWindow()
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// SameScope reports whether both schedules produce slots for the same owner.
func (s *ScheduleDefinition) SameScope(o *ScheduleDefinition) bool {
	if s.BusinessID != o.BusinessID {
		return false
	}
	if s.SpecialistID == nil || o.SpecialistID == nil {
		return s.SpecialistID == nil && o.SpecialistID == nil
	}
	return *s.SpecialistID == *o.SpecialistID
}

func DateValue(d clock.Date) *datatypes.Date {
	v := datatypes.Date(d.Time())
	return &v
}
