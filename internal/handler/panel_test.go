package handler

import (
	"testing"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/pipeline"

	"github.com/stretchr/testify/assert"
)

func panelUpdate(events []ledger.Event, role ledger.Role, now time.Time) pipeline.Update {
	return pipeline.Update{
		PersonID:   1,
		Ledger:     ledger.ComputeDailySummaries(events, role, now),
		Target:     ledger.TargetDuration(role),
		ComputedAt: now,
	}
}

func TestFormatPanel_Working(t *testing.T) {
	now := time.Date(2026, 3, 10, 11, 30, 0, 0, brt)
	events := []ledger.Event{
		{Type: ledger.EventEntrada, Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, brt)},
	}

	out := FormatPanel(panelUpdate(events, "funcionario", now), brt)
	assert.Contains(t, out, "Trabalhando")
	assert.Contains(t, out, "Trabalhado hoje: 02:30")
	assert.Contains(t, out, "Falta para a meta: 05:30")
	assert.Contains(t, out, "Saldo acumulado: +00:00")
	assert.Contains(t, out, "Atualizado às 11:30:00")
}

func TestFormatPanel_Finalized(t *testing.T) {
	now := time.Date(2026, 3, 10, 19, 0, 0, 0, brt)
	events := []ledger.Event{
		{Type: ledger.EventEntrada, Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, brt)},
		{Type: ledger.EventSaida, Timestamp: time.Date(2026, 3, 10, 18, 30, 0, 0, brt)},
	}

	out := FormatPanel(panelUpdate(events, "funcionario", now), brt)
	assert.Contains(t, out, "Expediente encerrado")
	assert.Contains(t, out, "Saldo do dia: +01:30")
	assert.Contains(t, out, "Saldo acumulado: +01:30")
	assert.NotContains(t, out, "Falta para a meta")
}

func TestFormatPanel_NoEventsToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, brt)

	out := FormatPanel(panelUpdate(nil, ledger.RoleIntern, now), brt)
	assert.Contains(t, out, "Nenhum ponto hoje")
	assert.Contains(t, out, "Falta para a meta: 04:00")
}

func TestFormatPanel_OnBreakOverTarget(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, brt)
	events := []ledger.Event{
		{Type: ledger.EventEntrada, Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, brt)},
		{Type: ledger.EventPausa, Timestamp: time.Date(2026, 3, 10, 14, 0, 0, 0, brt)},
	}

	out := FormatPanel(panelUpdate(events, ledger.RoleIntern, now), brt)
	assert.Contains(t, out, "Em pausa")
	assert.Contains(t, out, "excedente: 01:00")
}

func TestFormatPanel_TargetFollowsRoleInUpdate(t *testing.T) {
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, brt)
	events := []ledger.Event{
		{Type: ledger.EventEntrada, Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, brt)},
	}

	before := FormatPanel(panelUpdate(events, "funcionario", now), brt)
	assert.Contains(t, before, "Falta para a meta: 06:00")

	after := FormatPanel(panelUpdate(events, ledger.RoleIntern, now), brt)
	assert.Contains(t, after, "Falta para a meta: 02:00")
}
