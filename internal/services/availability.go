package services

import (
	"fmt"
	"time"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
)

// IsOpen reports whether the truck is open at pickupTime's hour and minute on
// pickupDate's calendar day. Windows are inclusive at both ends. A window that
// closes before it opens never matches, and an empty schedule is closed.
func IsOpen(schedule []models.ScheduleEntry, pickupDate, pickupTime time.Time) bool {
	day := models.Weekday(pickupDate.Weekday())
	candidate := models.NewTimeOfDay(pickupTime.Hour(), pickupTime.Minute()).On(pickupDate)

	for _, entry := range schedule {
		if entry.Day != day || entry.EndTime < entry.StartTime {
			continue
		}
		open := entry.StartTime.On(candidate)
		close := entry.EndTime.On(candidate)
		if !candidate.Before(open) && !candidate.After(close) {
			return true
		}
	}
	return false
}

// IsOpenAt is IsOpen for a single instant.
func IsOpenAt(schedule []models.ScheduleEntry, t time.Time) bool {
	return IsOpen(schedule, t, t)
}

// ValidateScheduleEntries checks a weekly schedule before it is stored.
func ValidateScheduleEntries(entries []models.ScheduleEntry) error {
	seen := make(map[models.Weekday]bool, len(entries))
	for _, entry := range entries {
		if !entry.Day.Valid() {
			return fmt.Errorf("%w: day %d is out of range", common.ErrInvalidSchedule, int(entry.Day))
		}
		if !entry.StartTime.Valid() || !entry.EndTime.Valid() {
			return fmt.Errorf("%w: %s has a time outside the day", common.ErrInvalidSchedule, entry.Day)
		}
		if entry.EndTime <= entry.StartTime {
			return fmt.Errorf("%w: %s closes at %s before opening at %s", common.ErrInvalidSchedule,
				entry.Day, entry.EndTime, entry.StartTime)
		}
		if seen[entry.Day] {
			return fmt.Errorf("%w: %s is listed more than once", common.ErrInvalidSchedule, entry.Day)
		}
		seen[entry.Day] = true
	}
	return nil
}
