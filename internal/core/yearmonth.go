package core

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month. Its canonical text form is YYYY-MM.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth normalizes month overflow the way time.Date does,
// so NewYearMonth(2026, 0) is December 2025.
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// YearMonthOf returns the month containing t, in t's location.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses the canonical YYYY-MM form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, Invalid(fmt.Errorf("year-month %q: want YYYY-MM", s))
	}
	return YearMonthOf(t), nil
}

// String returns the canonical key form, e.g. "2026-02".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// AddMonths steps the cursor by whole calendar months.
func (ym YearMonth) AddMonths(n int) YearMonth {
	return NewYearMonth(ym.Year, ym.Month+time.Month(n))
}

// Before reports whether ym is an earlier month than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// FirstDay returns midnight UTC on the first day of the month.
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Label is the long display form, e.g. "Feb 2026".
func (ym YearMonth) Label() string {
	return ym.FirstDay().Format("Jan 2006")
}

// ShortLabel is the chart axis form, e.g. "Feb".
func (ym YearMonth) ShortLabel() string {
	return ym.FirstDay().Format("Jan")
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
