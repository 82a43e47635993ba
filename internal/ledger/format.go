package ledger

import (
	"fmt"
	"time"
)

// FormatDuration печатает баланс как ±HH:MM. Минуты отбрасываются вниз по модулю,
// часы не заворачиваются через 24.
func FormatDuration(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return sign + FormatClock(d)
}

// FormatOptional как FormatDuration, но отсутствующее значение дает 00:00 без знака
func FormatOptional(d *time.Duration) string {
	if d == nil {
		return "00:00"
	}
	return FormatDuration(*d)
}

// FormatClock печатает модуль длительности как HH:MM без знака
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
