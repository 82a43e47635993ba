package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func at(day, hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+hhmm, saoPaulo)
	if err != nil {
		panic(err)
	}
	return t
}

func ev(typ EventType, ts time.Time) Event {
	return Event{Type: typ, Timestamp: ts, PersonID: 7}
}

func fullDay(day string) []Event {
	return []Event{
		ev(EventEntrada, at(day, "09:00")),
		ev(EventPausa, at(day, "12:00")),
		ev(EventVolta, at(day, "13:00")),
		ev(EventSaida, at(day, "17:00")),
	}
}

func TestComputeDailySummaries_Empty(t *testing.T) {
	got := ComputeDailySummaries(nil, "funcionario", at("2026-03-10", "10:00"))

	assert.Empty(t, got.Days)
	assert.Equal(t, time.Duration(0), got.TotalBalance)
}

func TestComputeDailySummaries_StandardFullDay(t *testing.T) {
	now := at("2026-03-11", "08:00")
	got := ComputeDailySummaries(fullDay("2026-03-10"), "funcionario", now)

	day, ok := got.Day("2026-03-10")
	require.True(t, ok)
	assert.Equal(t, 7*time.Hour, day.TotalWorked)
	assert.Equal(t, -time.Hour, day.Balance)
	assert.True(t, day.Finalized)
	assert.False(t, day.Open)
	assert.Equal(t, "-01:00", FormatDuration(day.Balance))
	assert.Equal(t, -time.Hour, got.TotalBalance)
}

func TestComputeDailySummaries_InternFullDay(t *testing.T) {
	now := at("2026-03-11", "08:00")
	got := ComputeDailySummaries(fullDay("2026-03-10"), RoleIntern, now)

	day := got.Days["2026-03-10"]
	assert.Equal(t, 3*time.Hour, day.Balance)
	assert.Equal(t, "+03:00", FormatDuration(day.Balance))
	assert.Equal(t, 3*time.Hour, got.TotalBalance)
}

func TestComputeDailySummaries_TodayOpenCountsUpToNow(t *testing.T) {
	start := at("2026-03-10", "09:00")
	now := start.Add(90 * time.Minute)

	got := ComputeDailySummaries([]Event{ev(EventEntrada, start)}, "funcionario", now)

	day := got.Days["2026-03-10"]
	assert.Equal(t, 90*time.Minute, day.TotalWorked)
	assert.Equal(t, time.Duration(0), day.Balance)
	assert.False(t, day.Finalized)
	assert.True(t, day.Open)
	assert.Equal(t, time.Duration(0), got.TotalBalance)
}

func TestComputeDailySummaries_TodayOnBreakHasZeroBalance(t *testing.T) {
	events := []Event{
		ev(EventEntrada, at("2026-03-10", "08:00")),
		ev(EventPausa, at("2026-03-10", "12:00")),
	}
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-10", "12:30"))

	day := got.Days["2026-03-10"]
	assert.Equal(t, 4*time.Hour, day.TotalWorked)
	assert.Equal(t, time.Duration(0), day.Balance)
	assert.False(t, day.Open)
}

func TestComputeDailySummaries_PastForgottenClockOut(t *testing.T) {
	events := append(fullDay("2026-03-09"),
		ev(EventEntrada, at("2026-03-10", "09:00")),
		ev(EventPausa, at("2026-03-10", "12:00")),
		ev(EventVolta, at("2026-03-10", "13:00")),
	)
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-12", "10:00"))

	forgotten := got.Days["2026-03-10"]
	// отрезок с 13:00 не закрывается искусственно
	assert.Equal(t, 3*time.Hour, forgotten.TotalWorked)
	assert.Equal(t, -5*time.Hour, forgotten.Balance)
	assert.False(t, forgotten.Finalized)
	assert.True(t, forgotten.Open)

	// в общий баланс идет только 2026-03-09
	assert.Equal(t, -time.Hour, got.TotalBalance)
}

func TestComputeDailySummaries_AggregateOnlyFinalizedDays(t *testing.T) {
	events := append(fullDay("2026-03-02"), fullDay("2026-03-03")...)
	events = append(events,
		ev(EventEntrada, at("2026-03-04", "09:00")),
		ev(EventSaida, at("2026-03-04", "19:00")),
		ev(EventEntrada, at("2026-03-05", "09:00")),
		ev(EventEntrada, at("2026-03-06", "09:00")),
	)
	now := at("2026-03-06", "11:00")
	got := ComputeDailySummaries(events, "funcionario", now)

	var want time.Duration
	for _, d := range got.Days {
		if d.Finalized {
			want += d.Balance
		}
	}
	assert.Equal(t, want, got.TotalBalance)
	assert.Equal(t, -time.Hour-time.Hour+2*time.Hour, got.TotalBalance)

	assert.Equal(t, -8*time.Hour, got.Days["2026-03-05"].Balance)
	assert.Equal(t, time.Duration(0), got.Days["2026-03-06"].Balance)
	assert.Equal(t, 2*time.Hour, got.Days["2026-03-06"].TotalWorked)
}

func TestComputeDailySummaries_InputOrderDoesNotMatter(t *testing.T) {
	events := fullDay("2026-03-10")
	shuffled := []Event{events[3], events[1], events[0], events[2]}
	now := at("2026-03-11", "08:00")

	got := ComputeDailySummaries(shuffled, "funcionario", now)
	want := ComputeDailySummaries(events, "funcionario", now)

	assert.Equal(t, want, got)
	day := got.Days["2026-03-10"]
	require.Len(t, day.Events, 4)
	assert.Equal(t, EventEntrada, day.Events[0].Type)
	assert.Equal(t, EventSaida, day.Events[3].Type)
}

func TestComputeDailySummaries_FinalizedByChronologicalLast(t *testing.T) {
	// saida передана первой, но по времени последняя отметка - pausa
	events := []Event{
		ev(EventSaida, at("2026-03-10", "12:00")),
		ev(EventEntrada, at("2026-03-10", "09:00")),
		ev(EventPausa, at("2026-03-10", "15:00")),
	}
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-11", "09:00"))

	day := got.Days["2026-03-10"]
	assert.False(t, day.Finalized)
	assert.Equal(t, 3*time.Hour, day.TotalWorked)
	assert.Equal(t, time.Duration(0), got.TotalBalance)
}

func TestComputeDailySummaries_DoubleEntradaKeepsFirstStart(t *testing.T) {
	events := []Event{
		ev(EventEntrada, at("2026-03-10", "08:00")),
		ev(EventEntrada, at("2026-03-10", "09:00")),
		ev(EventSaida, at("2026-03-10", "16:00")),
	}
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-11", "09:00"))

	assert.Equal(t, 8*time.Hour, got.Days["2026-03-10"].TotalWorked)
	assert.Equal(t, time.Duration(0), got.TotalBalance)
}

func TestComputeDailySummaries_PausaWithoutEntradaIsNoop(t *testing.T) {
	events := []Event{
		ev(EventPausa, at("2026-03-10", "08:00")),
		ev(EventEntrada, at("2026-03-10", "09:00")),
		ev(EventSaida, at("2026-03-10", "10:00")),
	}
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-11", "09:00"))

	assert.Equal(t, time.Hour, got.Days["2026-03-10"].TotalWorked)
}

func TestComputeDailySummaries_UnknownTypeIgnored(t *testing.T) {
	base := fullDay("2026-03-10")
	withUnknown := []Event{
		base[0],
		ev("almoco_extra", at("2026-03-10", "10:00")),
		base[1],
		ev("almoco_extra", at("2026-03-10", "12:30")),
		base[2],
		base[3],
	}
	now := at("2026-03-11", "09:00")

	got := ComputeDailySummaries(withUnknown, "funcionario", now)
	want := ComputeDailySummaries(base, "funcionario", now)

	assert.Equal(t, want.Days["2026-03-10"].TotalWorked, got.Days["2026-03-10"].TotalWorked)
	assert.Equal(t, want.TotalBalance, got.TotalBalance)
	assert.Len(t, got.Days["2026-03-10"].Events, 6)
}

func TestComputeDailySummaries_UnknownTypeLastMeansNotFinalized(t *testing.T) {
	events := append(fullDay("2026-03-10"), ev("correcao", at("2026-03-10", "18:00")))
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-11", "09:00"))

	day := got.Days["2026-03-10"]
	assert.False(t, day.Finalized)
	assert.Equal(t, -time.Hour, day.Balance)
	assert.Equal(t, time.Duration(0), got.TotalBalance)
}

func TestComputeDailySummaries_Idempotent(t *testing.T) {
	events := append(fullDay("2026-03-09"), ev(EventEntrada, at("2026-03-10", "09:00")))
	now := at("2026-03-10", "11:17")

	first := ComputeDailySummaries(events, RoleIntern, now)
	second := ComputeDailySummaries(events, RoleIntern, now)

	assert.Equal(t, first, second)
}

func TestComputeDailySummaries_DoesNotMutateInput(t *testing.T) {
	events := fullDay("2026-03-10")
	reversed := []Event{events[3], events[2], events[1], events[0]}
	snapshot := append([]Event(nil), reversed...)

	ComputeDailySummaries(reversed, "funcionario", at("2026-03-11", "09:00"))

	assert.Equal(t, snapshot, reversed)
}

func TestComputeDailySummaries_GroupsInViewerZone(t *testing.T) {
	// 01:30 UTC 11 марта это 22:30 10 марта в São Paulo
	events := []Event{
		ev(EventEntrada, time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)),
		ev(EventSaida, time.Date(2026, 3, 11, 1, 30, 0, 0, time.UTC)),
	}
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-12", "09:00"))

	require.Len(t, got.Days, 1)
	day, ok := got.Day("2026-03-10")
	require.True(t, ok)
	assert.Equal(t, 5*time.Hour+30*time.Minute, day.TotalWorked)
}

func TestLedger_KeysAndRecent(t *testing.T) {
	events := append(fullDay("2026-03-09"), fullDay("2026-03-11")...)
	events = append(events, fullDay("2026-03-10")...)
	got := ComputeDailySummaries(events, "funcionario", at("2026-03-12", "09:00"))

	assert.Equal(t, []string{"2026-03-09", "2026-03-10", "2026-03-11"}, got.Keys())

	recent := got.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "2026-03-11", recent[0].DateKey)
	assert.Equal(t, "2026-03-10", recent[1].DateKey)
	assert.Len(t, got.Recent(0), 3)
}
