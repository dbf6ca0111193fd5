package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeString is a time of day in "HH:MM" form.
// "24:00" is accepted as the end of the day so that windows and
// appointments may end exactly at midnight.
type TimeString string

// EndOfDay is the exclusive end of a day
const EndOfDay TimeString = "24:00"

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

var (
	// ErrInvalidTimeString is returned when a value is not a valid HH:MM time
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange is returned when arithmetic leaves the [00:00, 24:00] range
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// NewTimeString builds a TimeString from the clock part of t
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses "HH:MM" or "HH:MM:SS" (seconds are dropped)
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := parseMinutes(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return FromMinutes(minutes)
}

// FromMinutes builds a TimeString from minutes since midnight
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)), nil
}

// Minutes returns minutes since midnight
func (t TimeString) Minutes() (int, error) {
	return parseMinutes(string(t))
}

// Validate checks the HH:MM format
func (t TimeString) Validate() error {
	_, err := parseMinutes(string(t))
	return err
}

// IsZero reports whether the value is empty
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// AddMinutes returns t shifted by the given number of minutes
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return FromMinutes(current + minutes)
}

// IsBefore reports whether t is strictly earlier than other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutesOrZero() < other.minutesOrZero()
}

// IsAfter reports whether t is strictly later than other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutesOrZero() > other.minutesOrZero()
}

// Equal compares two values by their clock position, so "09:00" equals "09:00:00"
func (t TimeString) Equal(other TimeString) bool {
	return t.minutesOrZero() == other.minutesOrZero()
}

// Scan implements sql.Scanner for postgres TIME columns
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		if isEndOfDay(v) {
			*t = EndOfDay
			return nil
		}
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

// Value implements driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t) + ":00", nil
}

// isEndOfDay reports whether v is TIME '24:00:00' as lib/pq decodes it:
// midnight of the day after 0000-01-01
func isEndOfDay(v time.Time) bool {
	y, m, d := v.Date()
	return y == 0 && m == time.January && d == 2 &&
		v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0
}

func (t TimeString) minutesOrZero() int {
	minutes, err := t.Minutes()
	if err != nil {
		return 0
	}
	return minutes
}

func parseMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, ErrInvalidTimeString
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidTimeString
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidTimeString
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidTimeString
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes >= minutesPerHour {
		return 0, ErrInvalidTimeString
	}
	if hours == 24 && minutes != 0 {
		return 0, ErrInvalidTimeString
	}

	if len(parts) == 3 {
		seconds, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || seconds < 0 || seconds >= 60 {
			return 0, ErrInvalidTimeString
		}
	}

	return hours*minutesPerHour + minutes, nil
}
