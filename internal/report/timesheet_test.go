package report

import (
	"bytes"
	"testing"
	"time"

	"ponto-bot/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var brt = time.FixedZone("BRT", -3*60*60)

func sampleLedger() ledger.Ledger {
	events := []ledger.Event{
		{Type: ledger.EventEntrada, Timestamp: time.Date(2026, 3, 9, 9, 0, 0, 0, brt)},
		{Type: ledger.EventSaida, Timestamp: time.Date(2026, 3, 9, 18, 0, 0, 0, brt)},
		{Type: ledger.EventEntrada, Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, brt)},
		{Type: ledger.EventPausa, Timestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, brt)},
	}
	return ledger.ComputeDailySummaries(events, "", time.Date(2026, 3, 11, 10, 0, 0, 0, brt))
}

func TestWriteTimesheet(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTimesheet(&buf, []Person{
		{Name: "Ana Lima", Role: "funcionario", Target: 8 * time.Hour, Ledger: sampleLedger(), Location: brt},
		{Name: "Bia", Role: "estagiario", Target: 4 * time.Hour, Ledger: ledger.Ledger{}, Location: brt},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Resumo", "Ana Lima", "Bia"}, f.GetSheetList())

	summary, err := f.GetRows("Resumo")
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Ana Lima", "funcionario", "08:00", "1", "+01:00"}, summary[1])
	assert.Equal(t, []string{"Bia", "estagiario", "04:00", "0", "+00:00"}, summary[2])

	rows, err := f.GetRows("Ana Lima")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Data", "Pontos", "Trabalhado", "Meta", "Saldo", "Encerrado"}, rows[0])
	assert.Equal(t, []string{"2026-03-09", "09:00 entrada, 18:00 saida", "09:00", "08:00", "+01:00", "sim"}, rows[1])
	assert.Equal(t, []string{"2026-03-10", "09:00 entrada, 12:00 pausa", "03:00", "08:00", "-05:00", "não"}, rows[2])
	assert.Empty(t, rows[3])
	assert.Equal(t, "Saldo acumulado", rows[4][0])
	assert.Equal(t, "+01:00", rows[4][4])
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]int{"resumo": 1}

	assert.Equal(t, "Ana", uniqueSheetName("Ana", used))
	assert.Equal(t, "ana (2)", uniqueSheetName("ana", used))
	assert.Equal(t, "Resumo (2)", uniqueSheetName("Resumo", used))
	assert.Equal(t, "a_b_c", uniqueSheetName("a/b:c", used))
	assert.Equal(t, "Funcionario", uniqueSheetName("  ", used))

	long := uniqueSheetName("Maria Aparecida dos Santos Oliveira Costa", used)
	assert.Len(t, []rune(long), 31)
}

func TestUniqueSheetName_SuffixAlreadyTaken(t *testing.T) {
	used := map[string]int{"resumo": 1}

	assert.Equal(t, "Ana (2)", uniqueSheetName("Ana (2)", used))
	assert.Equal(t, "Ana", uniqueSheetName("Ana", used))
	assert.Equal(t, "Ana (3)", uniqueSheetName("Ana", used))
	assert.Equal(t, "ana (4)", uniqueSheetName("ana", used))
}

func TestWriteTimesheet_CollidingNamesKeepEveryPerson(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTimesheet(&buf, []Person{
		{Name: "Ana (2)", Role: "funcionario", Target: 8 * time.Hour, Ledger: sampleLedger(), Location: brt},
		{Name: "Ana", Role: "funcionario", Target: 8 * time.Hour, Ledger: ledger.Ledger{}, Location: brt},
		{Name: "Ana", Role: "estagiario", Target: 4 * time.Hour, Ledger: ledger.Ledger{}, Location: brt},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Resumo", "Ana (2)", "Ana", "Ana (3)"}, f.GetSheetList())

	// лист первого сотрудника не перезаписан
	rows, err := f.GetRows("Ana (2)")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "2026-03-09", rows[1][0])
}
