package handler

import (
	"testing"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/models"
	"ponto-bot/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*60*60)

func testSession() service.Session {
	return service.NewSession(&models.User{ID: 1, FirstName: "Ana"}, brt, time.Date(2026, 3, 10, 15, 20, 0, 0, brt))
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, brt)

	for _, in := range []string{"05/04/2026", "05.04.2026", "05-04-2026", "2026-04-05", "05/04", "05.04"} {
		got, err := parseDate(in, now)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2026, 4, 5, 0, 0, 0, 0, brt), got, in)
	}

	_, err := parseDate("31/02/2026", now)
	assert.ErrorIs(t, err, errBadDate)
	_, err = parseDate("amanhã", now)
	assert.ErrorIs(t, err, errBadDate)
}

func TestParseClock(t *testing.T) {
	cases := map[string][2]int{
		"09:30": {9, 30},
		"9:05":  {9, 5},
		"18.00": {18, 0},
		"7h45":  {7, 45},
		"23:59": {23, 59},
	}
	for in, want := range cases {
		h, m, err := parseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, [2]int{h, m}, in)
	}

	for _, in := range []string{"24:00", "12:60", "1230", "", "ab:cd"} {
		_, _, err := parseClock(in)
		assert.ErrorIs(t, err, errBadClock, in)
	}
}

func TestParseMoment(t *testing.T) {
	sess := testSession()

	at, obs, err := parseMoment("", sess)
	require.NoError(t, err)
	assert.Equal(t, sess.Now, at)
	assert.Empty(t, obs)

	at, obs, err = parseMoment("08:45 trânsito", sess)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 45, 0, 0, brt), at)
	assert.Equal(t, "trânsito", obs)

	at, obs, err = parseMoment("09/03 18:10", sess)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 18, 10, 0, 0, brt), at)
	assert.Empty(t, obs)

	at, _, err = parseMoment("09.30", sess)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, brt), at)

	at, obs, err = parseMoment("home office hoje", sess)
	require.NoError(t, err)
	assert.Equal(t, sess.Now, at)
	assert.Equal(t, "home office hoje", obs)

	_, _, err = parseMoment("09/03", sess)
	assert.ErrorIs(t, err, errBadClock)

	_, _, err = parseMoment("09/03 depois", sess)
	assert.ErrorIs(t, err, errBadClock)
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 7, parseCount("", 7, 31))
	assert.Equal(t, 7, parseCount("-2", 7, 31))
	assert.Equal(t, 3, parseCount(" 3 ", 7, 31))
	assert.Equal(t, 31, parseCount("400", 7, 31))
}

func TestSplitChat(t *testing.T) {
	chatID, rest, err := splitChat("12345 entrada 09:00")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), chatID)
	assert.Equal(t, []string{"entrada", "09:00"}, rest)

	_, _, err = splitChat("")
	assert.ErrorIs(t, err, errBadChat)
	_, _, err = splitChat("ana")
	assert.ErrorIs(t, err, errBadChat)
}

func TestParseEventType(t *testing.T) {
	typ, ok := parseEventType(" Saida ")
	assert.True(t, ok)
	assert.Equal(t, ledger.EventSaida, typ)

	_, ok = parseEventType("almoço")
	assert.False(t, ok)
}
