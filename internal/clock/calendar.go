package clock

import "fmt"

// MaxYear is the largest year the four-digit date screen can show.
const MaxYear = 9999

var gregorianMonthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// MonthLength returns the number of days of month (0-11) in year.
func MonthLength(month, year int) int {
	if month == 1 && IsLeap(year) {
		return 29
	}
	return gregorianMonthLengths[month]
}

// Calendar is a second-resolution date and time with a per-year month
// length table. Fields may temporarily hold carries; Normalize resolves them.
type Calendar struct {
	Sec   int
	Min   int
	Hour  int
	MDay  int // 1-31
	Month int // 0-11
	Year  int
	YDay  int // 0-365

	IsLeap       bool
	MonthLengths [12]int
}

// NewCalendar returns a calendar initialised with Init.
func NewCalendar(sec, min, hour, mday, month, year int) *Calendar {
	c := &Calendar{}
	c.Init(sec, min, hour, mday, month, year)
	return c
}

// Init rebuilds the month table for year, recomputes the day of year and
// normalizes. Ranges are not validated; use SetDate and SetTime for that.
func (c *Calendar) Init(sec, min, hour, mday, month, year int) {
	c.Sec, c.Min, c.Hour = sec, min, hour
	c.MDay, c.Month, c.Year = mday, month, year
	c.setYear(year)
	c.YDay = c.dayOfYear()
	c.Normalize()
}

func (c *Calendar) setYear(year int) {
	c.Year = year
	c.IsLeap = IsLeap(year)
	c.MonthLengths = gregorianMonthLengths
	if c.IsLeap {
		c.MonthLengths[1] = 29
	}
}

func (c *Calendar) dayOfYear() int {
	yday := 0
	for i := 0; i < c.Month && i < 12; i++ {
		yday += c.MonthLengths[i]
	}
	return yday + c.MDay - 1
}

// Normalize resolves carries in ascending unit order. Every step loops, so
// any non-negative overflow (several days, months or years at once) ends in
// the unique canonical representation. Calling it twice is a no-op.
func (c *Calendar) Normalize() {
	if c.MonthLengths[0] == 0 {
		c.setYear(c.Year)
	}
	if c.Sec >= 60 {
		c.Min += c.Sec / 60
		c.Sec %= 60
	}
	if c.Min >= 60 {
		c.Hour += c.Min / 60
		c.Min %= 60
	}
	if c.Hour >= 24 {
		c.MDay += c.Hour / 24
		c.Hour %= 24
	}
	for c.Month >= 12 {
		c.Month -= 12
		c.setYear(c.Year + 1)
	}
	if c.MDay < 1 {
		c.MDay = 1
	}
	// Day of month walks into months, and months into years. The leap flag
	// and February length are recomputed on every year rollover.
	for c.MDay > c.MonthLengths[c.Month] {
		c.MDay -= c.MonthLengths[c.Month]
		c.Month++
		if c.Month == 12 {
			c.Month = 0
			c.setYear(c.Year + 1)
		}
	}
	c.YDay = c.dayOfYear()
}

// Advance adds n seconds and normalizes.
func (c *Calendar) Advance(n int) {
	if n <= 0 {
		return
	}
	c.Sec += n
	c.Normalize()
}

// SetDate validates and applies a date. month is 0-based.
func (c *Calendar) SetDate(mday, month, year int) error {
	if year < 0 || year > MaxYear || month < 0 || month > 11 {
		return fmt.Errorf("date %04d-%02d-%02d: %w", year, month+1, mday, ErrInvalid)
	}
	if mday < 1 || mday > MonthLength(month, year) {
		return fmt.Errorf("date %04d-%02d-%02d: %w", year, month+1, mday, ErrInvalid)
	}
	c.Init(c.Sec, c.Min, c.Hour, mday, month, year)
	return nil
}

// SetTime validates and applies a time of day.
func (c *Calendar) SetTime(sec, min, hour int) error {
	if !validTime(sec, min, hour) {
		return fmt.Errorf("time %02d:%02d:%02d: %w", hour, min, sec, ErrInvalid)
	}
	c.Sec, c.Min, c.Hour = sec, min, hour
	return nil
}

// EditField increments one field with wraparound. Date fields re-run Init
// because they change the month table; the day is clamped to the new
// month length first so that an edit never spills into the next month.
func (c *Calendar) EditField(f Field, delta int) {
	switch f {
	case Hour:
		c.Hour = wrap(c.Hour, delta, 24)
	case Minute:
		c.Min = wrap(c.Min, delta, 60)
	case Second:
		c.Sec = wrap(c.Sec, delta, 60)
	case Year, Month, Day:
		mday, month, year := c.MDay, c.Month, c.Year
		switch f {
		case Year:
			year = wrap(year, delta, MaxYear+1)
		case Month:
			month = wrap(month, delta, 12)
		case Day:
			mday = wrap(mday-1, delta, c.MonthLengths[month]) + 1
		}
		if n := MonthLength(month, year); mday > n {
			mday = n
		}
		c.Init(c.Sec, c.Min, c.Hour, mday, month, year)
	}
}

// TimeString formats the time of day as hh:mm:ss.
func (c Calendar) TimeString() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Min, c.Sec)
}

// DateString formats the date as yyyy-mm-dd with a 1-based month.
func (c Calendar) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, c.Month+1, c.MDay)
}

func (c Calendar) String() string {
	return c.DateString() + " " + c.TimeString()
}
