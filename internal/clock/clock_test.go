package clock

import (
	"testing"
	"time"
)

func at(s string, loc *time.Location) Func {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestParseInputDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"25.12.2026", "2026-12-25", false},
		{"1.2.2026", "2026-02-01", false},
		{" 01.01.2099 ", "2099-01-01", false},
		{"29.02.2028", "2028-02-29", false},
		{"31.02.2025", "", true},
		{"29.02.2027", "", true},
		{"32.01.2026", "", true},
		{"01.13.2026", "", true},
		{"01.01.26", "", true},
		{"01.01.20266", "", true},
		{"2026-01-01", "", true},
		{"tomorrow", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInputDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %s", got.Format(DateLayout))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format(DateLayout) != tt.want {
				t.Errorf("got %s, want %s", got.Format(DateLayout), tt.want)
			}
		})
	}
}

func TestParseStoredDate_BothForms(t *testing.T) {
	for _, in := range []string{"2026-03-08", "08.03.2026"} {
		got, err := ParseStoredDate(in)
		if err != nil {
			t.Fatalf("ParseStoredDate(%q): %v", in, err)
		}
		if got.Format(DateLayout) != "2026-03-08" {
			t.Errorf("ParseStoredDate(%q) = %s", in, got.Format(DateLayout))
		}
	}
	if _, err := ParseStoredDate("2026-02-30"); err == nil {
		t.Error("expected error for invalid ISO date")
	}
	if _, err := ParseStoredDate("garbage"); err == nil {
		t.Error("expected error for garbage")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"9:30", "09:30", false},
		{"23:59", "23:59", false},
		{"00:00", "00:00", false},
		{" 14:00 ", "14:00", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"12:5", "", true},
		{"12.30", "", true},
		{"12:30:00", "", true},
		{"noon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToday_UsesClockLocation(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*3600)
	// 2026-06-14 20:00 UTC is already the 15th in Tokyo.
	utc := time.Date(2026, 6, 14, 20, 0, 0, 0, time.UTC)
	f := Func(func() time.Time { return utc.In(tokyo) })

	today := Today(f)
	if today.Format(DateLayout) != "2026-06-15" {
		t.Errorf("Today = %s, want 2026-06-15", today.Format(DateLayout))
	}
	if TimeOfDay(f.Now()) != "05:00" {
		t.Errorf("TimeOfDay = %s, want 05:00", TimeOfDay(f.Now()))
	}
}

func TestLocal_NowInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	c := New(loc)
	if c.Now().Location() != loc {
		t.Errorf("Now() location = %v, want %v", c.Now().Location(), loc)
	}
	if c.Location() != loc {
		t.Errorf("Location() = %v, want %v", c.Location(), loc)
	}
	if New(nil).Location() != time.Local {
		t.Error("New(nil) should fall back to time.Local")
	}
}

func TestDaysUntil(t *testing.T) {
	c := at("2025-06-15 23:30", time.UTC)
	tests := []struct {
		date string
		want int
	}{
		{"2025-06-15", 0},
		{"2025-06-16", 1},
		{"2025-06-14", -1},
		{"2026-06-15", 365},
		{"15.07.2025", 30},
		{"2400-06-15", 136966},
		{"01.01.9999", 2912278},
		{"1700-06-15", -118704},
	}
	for _, tt := range tests {
		got, err := DaysUntil(c, tt.date)
		if err != nil {
			t.Fatalf("DaysUntil(%q): %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("DaysUntil(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
	if _, err := DaysUntil(c, "not a date"); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestDaysBetween_AcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts 2026-03-08 in New York; the local day is 23 hours long.
	from := time.Date(2026, 3, 7, 12, 0, 0, 0, ny)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(from, to); got != 2 {
		t.Errorf("DaysBetween = %d, want 2", got)
	}
}

func TestDateOf_KeepsLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	got := DateOf(time.Date(2025, time.June, 15, 23, 59, 0, 0, tokyo))
	want := time.Date(2025, time.June, 15, 0, 0, 0, 0, tokyo)
	if !got.Equal(want) || got.Location() != tokyo {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDaysBetween_FarFuture(t *testing.T) {
	from := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	to, err := ParseInputDate("01.01.9999")
	if err != nil {
		t.Fatalf("ParseInputDate: %v", err)
	}
	if got := DaysBetween(from, to); got != 2911787 {
		t.Errorf("DaysBetween = %d, want 2911787", got)
	}
	if got := DaysBetween(to, from); got != -2911787 {
		t.Errorf("DaysBetween reversed = %d, want -2911787", got)
	}
}
