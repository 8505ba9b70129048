// Package schedule derives the offerable pickup time slots from a donor's
// daily availability window.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SlotInterval is the spacing between consecutive pickup slots, in minutes.
const SlotInterval = 30

var (
	ErrInvalidTime    = errors.New("time must be HH:MM")
	ErrInvertedWindow = errors.New("availability window ends before it starts")
)

// GenerateSlots returns every offerable pickup time between from and to,
// inclusive, stepping SlotInterval minutes from from. The grid is anchored
// at from: an unaligned start such as 09:05 yields 09:05, 09:35, 10:05 and
// never snaps back to the wall clock. No slot past to is emitted.
func GenerateSlots(from, to string) ([]string, error) {
	start, err := parseTimeOfDay(from)
	if err != nil {
		return nil, err
	}
	end, err := parseTimeOfDay(to)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, ErrInvertedWindow
	}
	slots := make([]string, 0, (end-start)/SlotInterval+1)
	for cur := start; cur <= end; cur += SlotInterval {
		slots = append(slots, formatTimeOfDay(cur))
	}
	return slots, nil
}

// ValidateWindow reports whether from/to form a usable availability window.
func ValidateWindow(from, to string) error {
	_, err := GenerateSlots(from, to)
	return err
}

// parseTimeOfDay converts HH:MM to minutes since midnight.
func parseTimeOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hour*60 + minute, nil
}

func formatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
