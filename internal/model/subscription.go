package model

import "time"

// DateLayout формат даты окончания подписки в файле и в чате
const DateLayout = "2006-01-02"

// Subscription доступ к боту, ограниченный датой окончания
type Subscription struct {
	UserID    int64     `json:"user_id"`
	ExpiresOn time.Time `json:"expires_on"` // календарная дата, полночь UTC
}

// ParseDate разбирает строку YYYY-MM-DD в календарную дату
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate форматирует календарную дату как YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DateOf возвращает календарную дату момента t в часовом поясе loc
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween возвращает число календарных дней от from до to
func DaysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// IsActiveOn проверяет, действует ли подписка в указанный день
func (s *Subscription) IsActiveOn(today time.Time) bool {
	return DaysBetween(today, s.ExpiresOn) >= 0
}

// DaysRemaining возвращает, сколько календарных дней осталось до окончания
func (s *Subscription) DaysRemaining(today time.Time) int {
	return DaysBetween(today, s.ExpiresOn)
}
