package dto

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type SlotDTO struct {
	ID              uint      `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Status          string    `json:"status"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	SpecialistID    *uint     `json:"specialist_id"`
	ScheduleID      *uint     `json:"schedule_id,omitempty"`
	AppointmentID   *uint     `json:"appointment_id,omitempty"`
	BlockReason     string    `json:"block_reason,omitempty"`
	MaxCapacity     int       `json:"max_capacity"`
	CurrentCapacity int       `json:"current_capacity"`
}

func SlotFromModel(m *models.TimeSlot) SlotDTO {
	return SlotDTO{
		ID:              m.ID,
		Date:            m.SlotDate,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		StartAt:         m.StartAt,
		EndAt:           m.EndAt,
		Status:          m.Status,
		Type:            m.Type,
		DurationMinutes: m.DurationMinutes,
		SpecialistID:    m.SpecialistID,
		ScheduleID:      m.ScheduleID,
		AppointmentID:   m.AppointmentID,
		BlockReason:     m.BlockReason,
		MaxCapacity:     m.MaxCapacity,
		CurrentCapacity: m.CurrentCapacity,
	}
}

func SlotsFromModels(in []models.TimeSlot) []SlotDTO {
	out := make([]SlotDTO, len(in))
	for i := range in {
		out[i] = SlotFromModel(&in[i])
	}
	return out
}

// ======================================================
// Grouped availability
// ======================================================

// SpecialistAvailability is one specialist's day; a nil SpecialistID is the
// business-wide calendar.
type SpecialistAvailability struct {
	SpecialistID   *uint     `json:"specialist_id"`
	AvailableSlots []SlotDTO `json:"available_slots"`
	BookedSlots    []SlotDTO `json:"booked_slots"`
	BlockedSlots   []SlotDTO `json:"blocked_slots"`
	BreakSlots     []SlotDTO `json:"break_slots"`
}

func (s *SpecialistAvailability) add(d SlotDTO) {
	switch slot.Status(d.Status) {
	case slot.StatusAvailable:
		s.AvailableSlots = append(s.AvailableSlots, d)
	case slot.StatusBooked:
		s.BookedSlots = append(s.BookedSlots, d)
	case slot.StatusBreak:
		s.BreakSlots = append(s.BreakSlots, d)
	default:
		s.BlockedSlots = append(s.BlockedSlots, d)
	}
}

func (s *SpecialistAvailability) empty() bool {
	return len(s.AvailableSlots)+len(s.BookedSlots)+len(s.BlockedSlots)+len(s.BreakSlots) == 0
}

type DayAvailability struct {
	Date        string                   `json:"date"`
	Specialists []SpecialistAvailability `json:"specialists"`
}

func specialistKey(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

// GroupAvailability groups slots by date, then by specialist. Slots keep
// their input order inside each bucket.
func GroupAvailability(slots []models.TimeSlot) []DayAvailability {
	type dayIndex struct {
		day   *DayAvailability
		index map[uint]int
	}
	days := make(map[string]*dayIndex)

	for i := range slots {
		s := &slots[i]
		di, ok := days[s.SlotDate]
		if !ok {
			di = &dayIndex{day: &DayAvailability{Date: s.SlotDate}, index: map[uint]int{}}
			days[s.SlotDate] = di
		}

		key := specialistKey(s.SpecialistID)
		pos, ok := di.index[key]
		if !ok {
			di.day.Specialists = append(di.day.Specialists, SpecialistAvailability{SpecialistID: s.SpecialistID})
			pos = len(di.day.Specialists) - 1
			di.index[key] = pos
		}
		di.day.Specialists[pos].add(SlotFromModel(s))
	}

	out := make([]DayAvailability, 0, len(days))
	for _, di := range days {
		sort.Slice(di.day.Specialists, func(a, b int) bool {
			return specialistKey(di.day.Specialists[a].SpecialistID) < specialistKey(di.day.Specialists[b].SpecialistID)
		})
		out = append(out, *di.day)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out
}

// FilterPeriod keeps only slots that start inside p. Buckets left empty are
// dropped. It runs over an already built result, so it composes with the
// store-side filters.
func FilterPeriod(days []DayAvailability, p validators.Period) []DayAvailability {
	if p == validators.PeriodAny {
		return days
	}

	keep := func(in []SlotDTO) []SlotDTO {
		var out []SlotDTO
		for _, s := range in {
			t, err := clock.ParseTimeOfDay(s.StartTime)
			if err == nil && p.Contains(t) {
				out = append(out, s)
			}
		}
		return out
	}

	var out []DayAvailability
	for _, d := range days {
		var specialists []SpecialistAvailability
		for _, s := range d.Specialists {
			f := SpecialistAvailability{
				SpecialistID:   s.SpecialistID,
				AvailableSlots: keep(s.AvailableSlots),
				BookedSlots:    keep(s.BookedSlots),
				BlockedSlots:   keep(s.BlockedSlots),
				BreakSlots:     keep(s.BreakSlots),
			}
			if !f.empty() {
				specialists = append(specialists, f)
			}
		}
		if len(specialists) > 0 {
			out = append(out, DayAvailability{Date: d.Date, Specialists: specialists})
		}
	}
	return out
}
