package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("year must be between 1900 and 9999")
)

// Period is a (month, year) pair, the granularity of aggregation and sharing.
type Period struct {
	Month int // 1-12
	Year  int
}

// NewPeriod builds a Period and validates it.
func NewPeriod(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	return p, p.Validate()
}

// Validate checks the month and year ranges.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < 1900 || p.Year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

// IsZero reports whether p is unset.
func (p Period) IsZero() bool {
	return p.Month == 0 && p.Year == 0
}

// Before reports whether p is chronologically earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// MonthName returns the English month name, e.g. "June".
func (p Period) MonthName() string {
	return time.Month(p.Month).String()
}

// Label formats the period as "<MonthName> <Year>", e.g. "June 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate creates a Date in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Out-of-range days such as 2025-02-30 are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Period returns the (month, year) this date falls in.
func (d Date) Period() Period {
	return Period{Month: int(d.Time.Month()), Year: d.Time.Year()}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. SQLite returns text, Postgres returns time.Time for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parseInto(v)
	case []byte:
		return d.parseInto(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) parseInto(s string) error {
	// Some drivers hand back a full timestamp for date columns.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
