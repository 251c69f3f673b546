package slot

import (
	"fmt"
	"sort"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case "":
		return GroupByDay, nil
	case GroupByDay, GroupByWeek, GroupByMonth:
		return g, nil
	}
	return "", httperr.Validation("invalid_group_by", s)
}

// Counts tallies slots by status. Unavailable slots are counted as blocked
// so that Available+Booked+Blocked+Break always equals Total.
type Counts struct {
	Total     int `json:"total_slots"`
	Available int `json:"available_slots"`
	Booked    int `json:"booked_slots"`
	Blocked   int `json:"blocked_slots"`
	Break     int `json:"break_slots"`

	TotalMinutes  int `json:"-"`
	BookedMinutes int `json:"-"`
}

func (c *Counts) Add(s *models.TimeSlot) {
	c.Total++
	c.TotalMinutes += s.DurationMinutes

	switch Status(s.Status) {
	case StatusAvailable:
		c.Available++
	case StatusBooked:
		c.Booked++
		c.BookedMinutes += s.DurationMinutes
	case StatusBreak:
		c.Break++
	default:
		c.Blocked++
	}
}

func (c Counts) UtilizationRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Booked) / float64(c.Total)
}

func (c Counts) AvailabilityRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Available) / float64(c.Total)
}

func (c Counts) TotalHours() float64  { return float64(c.TotalMinutes) / 60 }
func (c Counts) BookedHours() float64 { return float64(c.BookedMinutes) / 60 }

type Bucket struct {
	Period string
	Start  clock.Date
	End    clock.Date
	Counts
}

// PeriodOf returns the bucket key and calendar bounds holding d.
// Weeks are ISO weeks starting on Monday.
func PeriodOf(d clock.Date, g GroupBy) (string, clock.Date, clock.Date) {
	switch g {
	case GroupByWeek:
		offset := (int(d.Weekday()) + 6) % 7
		start := d.AddDays(-offset)
		year, week := start.Time().ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), start, start.AddDays(6)
	case GroupByMonth:
		start := clock.NewDate(d.Year, d.Month, 1)
		end := clock.DateOf(start.Time().AddDate(0, 1, -1))
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month)), start, end
	default:
		return d.String(), d, d
	}
}

// Aggregate buckets slots by period, ordered by period start.
func Aggregate(slots []models.TimeSlot, g GroupBy) ([]Bucket, error) {
	index := make(map[string]*Bucket)

	for i := range slots {
		d, err := clock.ParseDate(slots[i].SlotDate)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", slots[i].ID, err)
		}
		key, start, end := PeriodOf(d, g)
		b, ok := index[key]
		if !ok {
			b = &Bucket{Period: key, Start: start, End: end}
			index[key] = b
		}
		b.Add(&slots[i])
	}

	out := make([]Bucket, 0, len(index))
	for _, b := range index {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// SpecialistCounts tallies slots per specialist; the business-wide calendar
// is keyed by 0.
func SpecialistCounts(slots []models.TimeSlot) map[uint]*Counts {
	out := make(map[uint]*Counts)
	for i := range slots {
		var key uint
		if slots[i].SpecialistID != nil {
			key = *slots[i].SpecialistID
		}
		c, ok := out[key]
		if !ok {
			c = &Counts{}
			out[key] = c
		}
		c.Add(&slots[i])
	}
	return out
}
