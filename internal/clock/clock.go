// Package clock owns the diary's notion of time: the fixed-zone "today"
// date key, date key validation, weekday arithmetic and the feed
// timestamp format. Everything downstream (entry lifecycle, feed, pages)
// goes through this package instead of reading the wall clock directly.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// JST is the diary's fixed timezone, UTC+9 with no daylight saving rule.
// The date rollover at JST midnight is the write cutoff.
var JST = time.FixedZone("JST", 9*60*60)

const dateKeyLayout = "2006-01-02"

// Clock is the injected time source. Production binds the host wall
// clock once at startup; tests substitute a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func System() Clock { return systemClock{} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// Fixed returns a Clock pinned to a single instant.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

// Calendar derives the diary's date values from an injected Clock.
type Calendar struct {
	clock Clock
}

func NewCalendar(c Clock) *Calendar {
	return &Calendar{clock: c}
}

func (c *Calendar) Now() time.Time { return c.clock.Now() }

// NowRFC3339 is the stored-instant format: RFC3339, UTC, whole seconds.
func (c *Calendar) NowRFC3339() string {
	return c.clock.Now().UTC().Format(time.RFC3339)
}

// CurrentDateKey projects the current instant into JST and formats it as
// YYYY-MM-DD. This is the sole definition of "today".
func (c *Calendar) CurrentDateKey() string {
	return c.clock.Now().In(JST).Format(dateKeyLayout)
}

func (c *Calendar) IsCurrent(dateKey string) bool {
	return dateKey == c.CurrentDateKey()
}

// ParseDateKey accepts only calendar-valid YYYY-MM-DD strings and returns
// midnight JST of that day. The grammar is strict: ten bytes, zero-padded
// fields, proleptic Gregorian validity (Feb 29 only on leap years).
func ParseDateKey(s string) (time.Time, error) {
	if len(s) != len(dateKeyLayout) {
		return time.Time{}, fmt.Errorf("invalid date key %q", s)
	}
	for i := 0; i < len(s); i++ {
		if i == 4 || i == 7 {
			if s[i] != '-' {
				return time.Time{}, fmt.Errorf("invalid date key %q", s)
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, fmt.Errorf("invalid date key %q", s)
		}
	}
	t, err := time.ParseInLocation(dateKeyLayout, s, JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", s, err)
	}
	return t, nil
}

func IsValidDateKey(s string) bool {
	_, err := ParseDateKey(s)
	return err == nil
}

// WeekdayOf returns the day of week for a date key, Sunday=0.
func WeekdayOf(dateKey string) (int, error) {
	t, err := ParseDateKey(dateKey)
	if err != nil {
		return 0, err
	}
	return zellerWeekday(t.Year(), int(t.Month()), t.Day()), nil
}

// zellerWeekday computes the Gregorian day of week via the Zeller
// congruence. Zeller numbers days with h=0 as Saturday; the result is
// shifted so Sunday=0.
func zellerWeekday(year, month, day int) int {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	q := y / 100
	r := y % 100
	h := (day + 13*(m+1)/5 + r + r/4 + q/4 - 2*q) % 7
	h = (h + 7) % 7
	return (h + 6) % 7
}

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FormatFeedTimestamp renders a stored instant as the feed timestamp
// "<Weekday>, <DD> <Mon> <YYYY> <HH:MM:SS> +0900".
//
// RFC3339 inputs are converted to JST before formatting, so a stored UTC
// instant renders as JST wall time. A bare date key renders as midnight
// JST. Anything else falls back to positional field extraction with safe
// defaults and no zone conversion, and inputs too short for that are
// returned unchanged: one malformed record must never break a feed
// render.
func FormatFeedTimestamp(value string) string {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return formatFeed(t.In(JST))
	}
	if t, err := ParseDateKey(value); err == nil {
		return formatFeed(t)
	}
	if len(value) < 19 {
		return value
	}

	datePart := value[0:10]
	timePart := value[11:19]

	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return value
	}
	year := atoiOr(parts[0], 2025)
	month := atoiOr(parts[1], 1)
	day := atoiOr(parts[2], 1)

	hour, minute, second := 0, 0, 0
	if tp := strings.Split(timePart, ":"); len(tp) == 3 {
		hour = atoiOr(tp[0], 0)
		minute = atoiOr(tp[1], 0)
		second = atoiOr(tp[2], 0)
	}

	if month < 1 || month > 12 {
		month = 1
	}
	return fmt.Sprintf("%s, %02d %s %d %02d:%02d:%02d +0900",
		weekdayNames[zellerWeekday(year, month, day)],
		day, monthNames[month-1], year, hour, minute, second)
}

func formatFeed(t time.Time) string {
	return fmt.Sprintf("%s, %02d %s %d %02d:%02d:%02d +0900",
		weekdayNames[zellerWeekday(t.Year(), int(t.Month()), t.Day())],
		t.Day(), monthNames[int(t.Month())-1], t.Year(),
		t.Hour(), t.Minute(), t.Second())
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
