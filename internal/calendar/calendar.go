// Package calendar centralizes day-boundary and month arithmetic for
// Habit Pulse.
//
// The day boundary is UTC midnight everywhere: a completion belongs to the
// calendar day spanning 00:00:00.000 inclusive to the next day's midnight
// exclusive, regardless of user locale. Months are zero-based (January = 0)
// throughout; conversion to time.Month happens only inside this package.
package calendar

import (
	"fmt"
	"regexp"
	"time"

	"github.com/habitpulse/habitpulse/internal/models"
)

// dayPattern matches a day.month.year date with zero-padding tolerance.
var dayPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)

// DayStart truncates a timestamp to its UTC day boundary.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}

// ParseDay parses a DD.MM.YYYY date into the UTC day-start timestamp.
// The parsed components must round-trip exactly: impossible dates such as
// 30.02 are rejected rather than clamped.
func ParseDay(s string) (time.Time, error) {
	m := dayPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: date %q does not match DD.MM.YYYY", models.ErrInvalidInput, s)
	}
	var day, month, year int
	fmt.Sscanf(m[1], "%d", &day)
	fmt.Sscanf(m[2], "%d", &month)
	fmt.Sscanf(m[3], "%d", &year)

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q is not a real calendar date", models.ErrInvalidInput, s)
	}
	return t, nil
}

// FormatDay renders a timestamp as a zero-padded DD.MM.YYYY date in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format("02.01.2006")
}

// Month identifies one calendar month. M is zero-based (January = 0).
type Month struct {
	Year int
	M    int
}

// MonthOf returns the month containing the given timestamp, in UTC.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), M: int(u.Month()) - 1}
}

// First returns the UTC timestamp of the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, time.Month(m.M+1), 1, 0, 0, 0, 0, time.UTC)
}

// Prev returns the preceding calendar month, rolling over year boundaries.
func (m Month) Prev() Month {
	return MonthOf(m.First().AddDate(0, -1, 0))
}

// Next returns the following calendar month, rolling over year boundaries.
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// Days returns the number of days in the month. Leap years fall out of
// time.Date normalization: day zero of the following month is the last day
// of this one.
func (m Month) Days() int {
	return time.Date(m.Year, time.Month(m.M+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether the timestamp falls inside the month, in UTC.
func (m Month) Contains(t time.Time) bool {
	u := t.UTC()
	return u.Year() == m.Year && int(u.Month())-1 == m.M
}

// MonthStats bundles the rendered grid with the completion aggregates for
// the same period.
type MonthStats struct {
	Grid       string // fixed-width month grid, one line per week
	MonthCount int    // completions within the target month
	YearCount  int    // completions within the target year, any month
}

// Render produces the fixed-width calendar grid for one month together with
// the month and year completion counts. Days with a completion render as the
// completion marker; other days as the zero-padded day number. The week
// starts on Sunday.
func Render(completions []time.Time, m Month, loc models.Locale) MonthStats {
	logged := make(map[string]bool, len(completions))
	var stats MonthStats
	for _, c := range completions {
		u := c.UTC()
		if u.Year() == m.Year {
			stats.YearCount++
		}
		if m.Contains(u) {
			stats.MonthCount++
			logged[FormatDay(u)] = true
		}
	}

	names := localeNames(loc)
	grid := fmt.Sprintf("🗓 %s %d\n", names.months[m.M], m.Year)
	grid += joinDayNames(names.days) + "\n"

	first := m.First()
	startWeekday := int(first.Weekday()) // 0 = Sunday
	days := m.Days()

	day := 1
	row := repeatCell(startWeekday)
	for col := startWeekday; col < 7 && day <= days; col++ {
		row += cell(m, day, logged)
		day++
	}
	grid += row + "\n"

	for day <= days {
		row = ""
		for col := 0; col < 7 && day <= days; col++ {
			row += cell(m, day, logged)
			day++
		}
		grid += row + "\n"
	}

	stats.Grid = grid
	return stats
}

// cell renders one day slot: the completion marker when logged, otherwise
// the zero-padded day number, followed by the column separator.
func cell(m Month, day int, logged map[string]bool) string {
	date := time.Date(m.Year, time.Month(m.M+1), day, 0, 0, 0, 0, time.UTC)
	if logged[FormatDay(date)] {
		return "✅ "
	}
	return fmt.Sprintf("%02d ", day)
}

func repeatCell(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "   "
	}
	return s
}

func joinDayNames(days [7]string) string {
	s := days[0]
	for i := 1; i < 7; i++ {
		s += " " + days[i]
	}
	return s
}
