package calendar

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/habitpulse/habitpulse/internal/models"
)

// zellerWeekday computes the day of week (0 = Sunday) with Zeller's
// congruence, independently of the time package.
func zellerWeekday(year, month, day int) int {
	// month is 1-based; January and February count as months 13 and 14
	// of the previous year.
	if month < 3 {
		month += 12
		year--
	}
	k := year % 100
	j := year / 100
	h := (day + 13*(month+1)/5 + k + k/4 + j/4 + 5*j) % 7
	// h: 0 = Saturday; shift so 0 = Sunday.
	return (h + 6) % 7
}

// gridColumns parses a rendered grid (without completions, so every cell is
// ASCII) and returns day -> weekday column.
func gridColumns(t *testing.T, grid string) map[int]int {
	t.Helper()
	lines := strings.Split(strings.TrimRight(grid, "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("grid has %d lines, want at least 3:\n%s", len(lines), grid)
	}
	cols := make(map[int]int)
	for _, line := range lines[2:] {
		for i := 0; i+2 <= len(line); i += 3 {
			chunk := strings.TrimSpace(line[i : i+2])
			if chunk == "" {
				continue
			}
			var day int
			if _, err := fmt.Sscanf(chunk, "%d", &day); err != nil {
				t.Fatalf("unexpected cell %q in line %q", chunk, line)
			}
			cols[day] = i / 3
		}
	}
	return cols
}

func TestRenderPlacesDaysUnderCorrectWeekday(t *testing.T) {
	months := []Month{
		{2026, 0}, {2026, 1}, {2025, 11}, {2024, 1}, // leap February
		{2100, 1}, // century non-leap
		{2000, 1}, // 400-rule leap
		{2026, 5}, {1999, 8}, {2031, 6},
	}
	for _, m := range months {
		stats := Render(nil, m, models.LocaleEN)
		cols := gridColumns(t, stats.Grid)
		if len(cols) != m.Days() {
			t.Errorf("%d-%02d: grid has %d days, want %d", m.Year, m.M+1, len(cols), m.Days())
		}
		for day := 1; day <= m.Days(); day++ {
			want := zellerWeekday(m.Year, m.M+1, day)
			if got, ok := cols[day]; !ok || got != want {
				t.Errorf("%d-%02d-%02d: column %d, want %d", m.Year, m.M+1, day, got, want)
			}
		}
	}
}

func TestRenderGridRowCount(t *testing.T) {
	cases := []struct {
		m    Month
		rows int
	}{
		{Month{2026, 1}, 4}, // Feb 2026 starts Sunday, 28 days: exactly 4 weeks
		{Month{2026, 7}, 6}, // Aug 2026 starts Saturday, 31 days: 6 rows
		{Month{2026, 0}, 5}, // Jan 2026 starts Thursday, 31 days: 5 rows
	}
	for _, c := range cases {
		stats := Render(nil, c.m, models.LocaleEN)
		lines := strings.Split(strings.TrimRight(stats.Grid, "\n"), "\n")
		weeks := len(lines) - 2 // header + day names
		if weeks != c.rows {
			t.Errorf("%d-%02d: %d week rows, want %d\n%s", c.m.Year, c.m.M+1, weeks, c.rows, stats.Grid)
		}
	}
}

func TestRenderMarksLoggedDays(t *testing.T) {
	m := Month{2026, 0}
	completions := []time.Time{
		time.Date(2026, time.January, 5, 14, 30, 0, 0, time.UTC), // time of day is irrelevant
		time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC),
	}
	stats := Render(completions, m, models.LocaleEN)
	if got := strings.Count(stats.Grid, "✅"); got != 2 {
		t.Errorf("marker count = %d, want 2\n%s", got, stats.Grid)
	}
	if strings.Contains(stats.Grid, "05 ") {
		t.Errorf("day 05 should be replaced by marker\n%s", stats.Grid)
	}
	if !strings.Contains(stats.Grid, "06 ") {
		t.Errorf("day 06 should render as number\n%s", stats.Grid)
	}
}

func TestRenderCounts(t *testing.T) {
	m := Month{2026, 0}
	completions := []time.Time{
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),    // same year, other month
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), // other year
	}
	stats := Render(completions, m, models.LocaleEN)
	if stats.MonthCount != 2 {
		t.Errorf("MonthCount = %d, want 2", stats.MonthCount)
	}
	if stats.YearCount != 3 {
		t.Errorf("YearCount = %d, want 3", stats.YearCount)
	}

	empty := Render(nil, m, models.LocaleEN)
	if empty.MonthCount != 0 || empty.YearCount != 0 {
		t.Errorf("empty set counts = (%d, %d), want (0, 0)", empty.MonthCount, empty.YearCount)
	}
}

func TestRenderLocaleHeader(t *testing.T) {
	stats := Render(nil, Month{2026, 0}, models.LocaleUK)
	if !strings.Contains(stats.Grid, "Січ 2026") {
		t.Errorf("expected Ukrainian month header, got:\n%s", stats.Grid)
	}
	if !strings.Contains(stats.Grid, "Нд Пн") {
		t.Errorf("expected Ukrainian day names, got:\n%s", stats.Grid)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		m    Month
		want int
	}{
		{Month{2026, 0}, 31},
		{Month{2026, 1}, 28},
		{Month{2024, 1}, 29}, // divisible by 4
		{Month{2000, 1}, 29}, // divisible by 400
		{Month{2100, 1}, 28}, // divisible by 100 but not 400
		{Month{2026, 3}, 30},
		{Month{2026, 11}, 31},
	}
	for _, c := range cases {
		if got := c.m.Days(); got != c.want {
			t.Errorf("Days(%d-%02d) = %d, want %d", c.m.Year, c.m.M+1, got, c.want)
		}
	}
}

func TestMonthPrevNextRollover(t *testing.T) {
	jan := Month{2026, 0}
	if got := jan.Prev(); got != (Month{2025, 11}) {
		t.Errorf("Prev(Jan 2026) = %v, want Dec 2025", got)
	}
	dec := Month{2025, 11}
	if got := dec.Next(); got != (Month{2026, 0}) {
		t.Errorf("Next(Dec 2025) = %v, want Jan 2026", got)
	}
	if got := (Month{2026, 5}).Next(); got != (Month{2026, 6}) {
		t.Errorf("Next(Jun 2026) = %v, want Jul 2026", got)
	}
}

func TestParseDay(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"01.02.2026", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), false},
		{"1.2.2026", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), false},
		{"31.12.2025", time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), false},
		{"29.02.2024", time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), false},
		{"30.02.2026", time.Time{}, true}, // impossible date, not clamped
		{"29.02.2026", time.Time{}, true}, // non-leap year
		{"31.04.2026", time.Time{}, true}, // 30-day month
		{"2026-02-01", time.Time{}, true}, // wrong format
		{"abc", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, c := range cases {
		got, err := ParseDay(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDay(%q) = %v, want error", c.in, got)
			} else if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("ParseDay(%q) error = %v, want ErrInvalidInput", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDay(%q) unexpected error: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseDay(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDayStartAndSameDay(t *testing.T) {
	late := time.Date(2026, time.March, 4, 23, 59, 59, 999, time.UTC)
	early := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	if !DayStart(late).Equal(early) {
		t.Errorf("DayStart = %v, want %v", DayStart(late), early)
	}
	if !SameDay(late, early) {
		t.Error("expected SameDay for timestamps within one UTC day")
	}
	next := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	if SameDay(late, next) {
		t.Error("midnight belongs to the next day")
	}
}

func TestFormatDayRoundTrip(t *testing.T) {
	d := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	s := FormatDay(d)
	if s != "01.02.2026" {
		t.Errorf("FormatDay = %q, want 01.02.2026", s)
	}
	back, err := ParseDay(s)
	if err != nil {
		t.Fatalf("ParseDay(%q) error: %v", s, err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
