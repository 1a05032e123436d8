package booking

import "testing"

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical windows", Interval{540, 600}, Interval{540, 600}, true},
		{"partial overlap right", Interval{540, 660}, Interval{600, 720}, true},
		{"partial overlap left", Interval{600, 720}, Interval{540, 660}, true},
		{"contained window", Interval{540, 720}, Interval{600, 660}, true},
		{"containing window", Interval{600, 660}, Interval{540, 720}, true},
		{"back to back after", Interval{540, 600}, Interval{600, 660}, false},
		{"back to back before", Interval{600, 660}, Interval{540, 600}, false},
		{"disjoint", Interval{540, 600}, Interval{720, 780}, false},
		{"one minute overlap", Interval{540, 601}, Interval{600, 660}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// Overlap is symmetric.
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Interval{{540, 600}, {720, 780}}

	if HasConflict(existing, Interval{600, 720}) {
		t.Fatal("window wedged exactly between two bookings must not conflict")
	}
	if !HasConflict(existing, Interval{590, 610}) {
		t.Fatal("window crossing an existing booking must conflict")
	}
	if HasConflict(nil, Interval{540, 600}) {
		t.Fatal("empty ledger must never conflict")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"23:59", 1439, false},
		{" 09:30 ", 570, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"9", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	for _, tc := range []struct {
		in   int
		want string
	}{{0, "00:00"}, {480, "08:00"}, {570, "09:30"}, {1439, "23:59"}} {
		if got := FormatClock(tc.in); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
