package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// minutesPerDay bounds every clock value handled by the detector.
const minutesPerDay = 24 * 60

// Interval is a half-open time window [Start, End) within a single day,
// both bounds expressed as minutes from midnight.  The half-open
// semantics make back-to-back bookings non-overlapping: a window ending
// at 10:00 and one starting at 10:00 share no instant.
type Interval struct {
	Start int // inclusive, minutes from midnight
	End   int // exclusive, minutes from midnight
}

// Overlaps reports whether two half-open intervals share any instant.
// [a,b) and [c,d) overlap iff a < d && c < b.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && o.Start < iv.End
}

// HasConflict scans the confirmed windows already on the ledger for a
// room/day and reports whether the candidate overlaps any of them.
// Callers must filter the input to status=CONFIRMED entries; pending and
// cancelled entries never block admission.  Zero-length candidates are
// invalid input and must be rejected by validation before reaching the
// detector.
func HasConflict(existing []Interval, candidate Interval) bool {
	for _, iv := range existing {
		if iv.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// ParseClock converts a wall-clock string in HH:MM form into minutes
// from midnight.  It accepts 00:00 through 23:59.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight back into HH:MM form.
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
