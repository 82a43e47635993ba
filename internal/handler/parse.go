package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/service"
)

var (
	errBadDate  = errors.New("formato de data inválido. Use DD/MM/AAAA ou DD/MM")
	errBadClock = errors.New("formato de hora inválido. Use HH:MM")
	errBadChat  = errors.New("informe o chat ID do funcionário")
)

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3])[:.hH]([0-5]\d)$`)

// parseDate разбирает дату в зоне now; без года подставляется текущий
func parseDate(s string, now time.Time) (time.Time, error) {
	loc := now.Location()

	for _, layout := range []string{"02/01/2006", "02.01.2006", "02-01-2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	for _, layout := range []string{"02/01", "02.01"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}

	return time.Time{}, errBadDate
}

// parseClock разбирает время суток: 09:30, 9.30, 9h30
func parseClock(s string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, errBadClock
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}

// parseMoment разбирает "[data] [HH:MM] [observação]". Без времени берется
// текущий момент сессии, все остальное уходит в комментарий.
func parseMoment(args string, sess service.Session) (time.Time, string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return sess.Now, "", nil
	}

	day := sess.Today()
	rest := fields

	// "09.30" это время, а не дата
	if _, _, err := parseClock(fields[0]); err != nil {
		d, err := parseDate(fields[0], sess.Now)
		if err != nil {
			return sess.Now, strings.Join(fields, " "), nil
		}
		day = d
		rest = fields[1:]
		if len(rest) == 0 {
			return time.Time{}, "", fmt.Errorf("%w: informe a hora depois da data", errBadClock)
		}
	}

	h, m, err := parseClock(rest[0])
	if err != nil {
		return time.Time{}, "", errBadClock
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, sess.Location)
	return at, strings.Join(rest[1:], " "), nil
}

// parseCount число из аргумента или значение по умолчанию, не больше max
func parseCount(args string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// splitChat отделяет chat ID сотрудника от остальных аргументов
func splitChat(args string) (int64, []string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, nil, errBadChat
	}
	chatID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, nil, errBadChat
	}
	return chatID, fields[1:], nil
}

// parseEventType тип отметки из текста команды
func parseEventType(s string) (ledger.EventType, bool) {
	t := ledger.EventType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Known()
}
