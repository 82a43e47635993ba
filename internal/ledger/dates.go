package ledger

import "time"

// DateKeyLayout формат ключа дня
const DateKeyLayout = "2006-01-02"

// DateKey возвращает ключ дня YYYY-MM-DD в указанной зоне
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey разбирает ключ дня в указанной зоне (полночь)
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// StartOfDay возвращает 00:00:00 того же дня
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay сравнивает календарные даты двух моментов в зоне первого
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
