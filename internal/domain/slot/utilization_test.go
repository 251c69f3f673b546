package slot

import (
	"math/rand"
	"testing"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func slotOn(date string, status Status, minutes int) models.TimeSlot {
	return models.TimeSlot{SlotDate: date, Status: string(status), DurationMinutes: minutes}
}

func TestAggregateByDay(t *testing.T) {
	slots := []models.TimeSlot{
		slotOn("2025-03-04", StatusBooked, 30),
		slotOn("2025-03-03", StatusAvailable, 30),
		slotOn("2025-03-03", StatusBooked, 30),
		slotOn("2025-03-03", StatusBreak, 30),
		slotOn("2025-03-03", StatusBlocked, 30),
	}

	buckets, err := Aggregate(slots, GroupByDay)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	first := buckets[0]
	if first.Period != "2025-03-03" {
		t.Fatalf("buckets not ordered: %s", first.Period)
	}
	if first.Total != 4 || first.Available != 1 || first.Booked != 1 || first.Break != 1 || first.Blocked != 1 {
		t.Fatalf("unexpected counts %+v", first.Counts)
	}
	if first.UtilizationRate() != 0.25 || first.AvailabilityRate() != 0.25 {
		t.Fatalf("unexpected rates %v / %v", first.UtilizationRate(), first.AvailabilityRate())
	}
}

func TestAggregateByWeekAndMonth(t *testing.T) {
	slots := []models.TimeSlot{
		slotOn("2025-03-02", StatusBooked, 30), // sunday, ISO week 9
		slotOn("2025-03-03", StatusBooked, 30), // monday, ISO week 10
		slotOn("2025-03-09", StatusAvailable, 30),
		slotOn("2025-04-01", StatusAvailable, 30),
	}

	weeks, err := Aggregate(slots, GroupByWeek)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(weeks) != 3 {
		t.Fatalf("expected 3 weeks, got %d", len(weeks))
	}
	if weeks[0].Period != "2025-W09" || weeks[1].Period != "2025-W10" {
		t.Fatalf("unexpected weeks %s %s", weeks[0].Period, weeks[1].Period)
	}
	if weeks[1].Start != clock.NewDate(2025, time.March, 3) || weeks[1].Total != 2 {
		t.Fatalf("unexpected week bucket %+v", weeks[1])
	}

	months, _ := Aggregate(slots, GroupByMonth)
	if len(months) != 2 || months[0].Period != "2025-03" || months[0].Total != 3 {
		t.Fatalf("unexpected months %+v", months)
	}
	if months[0].End != clock.NewDate(2025, time.March, 31) {
		t.Fatalf("unexpected month end %v", months[0].End)
	}
}

func TestEmptyBucketRatesAreZero(t *testing.T) {
	var c Counts
	if c.UtilizationRate() != 0 || c.AvailabilityRate() != 0 {
		t.Fatalf("expected zero rates for empty counts")
	}
}

func TestCountsPartitionTotal(t *testing.T) {
	statuses := []Status{StatusAvailable, StatusBooked, StatusBlocked, StatusBreak, StatusUnavailable}
	r := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		var slots []models.TimeSlot
		n := r.Intn(40)
		for i := 0; i < n; i++ {
			day := clock.NewDate(2025, time.January, 1).AddDays(r.Intn(60))
			slots = append(slots, slotOn(day.String(), statuses[r.Intn(len(statuses))], 15))
		}

		for _, g := range []GroupBy{GroupByDay, GroupByWeek, GroupByMonth} {
			buckets, err := Aggregate(slots, g)
			if err != nil {
				t.Fatalf("aggregate: %v", err)
			}
			total := 0
			for _, b := range buckets {
				if b.Available+b.Booked+b.Blocked+b.Break != b.Total {
					t.Fatalf("partition broken in %s: %+v", b.Period, b.Counts)
				}
				total += b.Total
			}
			if total != n {
				t.Fatalf("lost slots: %d of %d", total, n)
			}
		}
	}
}
