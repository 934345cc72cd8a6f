package clock

// DefaultCalendar returns the factory epoch, 2023-06-11 08:00:59. It is
// restored on cold start and by "init clock".
func DefaultCalendar() *Calendar {
	return NewCalendar(59, 0, 8, 11, 5, 2023)
}

// DefaultAlarm returns the factory alarm, 08:02:00.
func DefaultAlarm(enabled bool) Alarm {
	return Alarm{Sec: 0, Min: 2, Hour: 8, Enabled: enabled}
}

// DefaultCountdown returns the factory countdown, one idle minute.
func DefaultCountdown() Countdown {
	return Countdown{Min: 1}
}
