package ledger

import (
	"sort"
	"time"
)

// ComputeDailySummaries группирует отметки по дням в зоне referenceNow и считает
// отработанное время и баланс каждого дня плюс общий баланс по закрытым дням.
//
// Некорректные последовательности не отклоняются: повторный entrada при открытом
// отрезке игнорируется, pausa без открытого отрезка ничего не делает,
// неизвестные типы не влияют на расчет.
func ComputeDailySummaries(events []Event, role Role, referenceNow time.Time) Ledger {
	loc := referenceNow.Location()
	todayKey := DateKey(referenceNow, loc)
	target := TargetDuration(role)

	groups := groupByDay(events, loc)

	result := Ledger{Days: make(map[string]DaySummary, len(groups))}
	for key, dayEvents := range groups {
		summary := summarizeDay(key, dayEvents, target, key == todayKey, referenceNow)
		result.Days[key] = summary

		// В общий баланс идут только дни, закрытые отметкой saida
		if summary.Finalized {
			result.TotalBalance += summary.Balance
		}
	}

	return result
}

// groupByDay раскладывает копии отметок по ключам дней в хронологическом порядке
func groupByDay(events []Event, loc *time.Location) map[string][]Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	groups := make(map[string][]Event)
	for _, e := range sorted {
		key := DateKey(e.Timestamp, loc)
		groups[key] = append(groups[key], e)
	}
	return groups
}

func summarizeDay(key string, events []Event, target time.Duration, isToday bool, now time.Time) DaySummary {
	var worked time.Duration
	var openStart *time.Time

	for i := range events {
		e := events[i]
		switch {
		case e.Type.Opens():
			if openStart == nil {
				openStart = &events[i].Timestamp
			}
		case e.Type.Closes():
			if openStart != nil {
				worked += e.Timestamp.Sub(*openStart)
				openStart = nil
			}
		}
	}

	// Сегодняшний открытый отрезок считается до текущего момента.
	// Для прошлых дней отрезок просто остается незакрытым.
	if openStart != nil && isToday {
		worked += now.Sub(*openStart)
	}

	finalized := len(events) > 0 && events[len(events)-1].Type == EventSaida

	var balance time.Duration
	switch {
	case finalized:
		balance = worked - target
	case isToday:
		balance = 0
	default:
		// забытая отметка ухода: день показывает недобор, но в общий баланс не входит
		balance = worked - target
	}

	return DaySummary{
		DateKey:     key,
		Events:      events,
		TotalWorked: worked,
		Balance:     balance,
		Finalized:   finalized,
		Open:        openStart != nil,
	}
}

// Keys возвращает ключи дней по возрастанию
func (l Ledger) Keys() []string {
	keys := make([]string, 0, len(l.Days))
	for k := range l.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Day возвращает итог дня и признак наличия
func (l Ledger) Day(key string) (DaySummary, bool) {
	d, ok := l.Days[key]
	return d, ok
}

// Recent возвращает последние n дней по убыванию даты. n <= 0 - все дни.
func (l Ledger) Recent(n int) []DaySummary {
	keys := l.Keys()
	days := make([]DaySummary, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		days = append(days, l.Days[keys[i]])
		if n > 0 && len(days) == n {
			break
		}
	}
	return days
}
