package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/models"
	"ponto-bot/internal/pipeline"
	"ponto-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// BalanceService читает полный снимок отметок и прогоняет через ledger
type BalanceService struct {
	eventRepo repository.ClockEventRepository
	userRepo  repository.UserRepository
	logger    *logrus.Logger
}

func NewBalanceService(
	eventRepo repository.ClockEventRepository,
	userRepo repository.UserRepository,
	logger *logrus.Logger,
) *BalanceService {
	return &BalanceService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Snapshot реализует pipeline.SnapshotSource
func (s *BalanceService) Snapshot(ctx context.Context, personID uint) (pipeline.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Snapshot{}, err
	}

	user, err := s.userRepo.GetByID(personID)
	if err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("load user %d: %w", personID, err)
	}
	if user == nil {
		return pipeline.Snapshot{}, fmt.Errorf("load user %d: %w", personID, ErrNotFound)
	}

	events, err := s.eventRepo.ListByUser(personID)
	if err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("load events of user %d: %w", personID, err)
	}

	return pipeline.Snapshot{
		Events: models.ToLedgerEvents(events),
		Role:   ledger.Role(user.Role),
	}, nil
}

// Ledger считает баланс пользователя сессии на момент сессии
func (s *BalanceService) Ledger(sess Session) (ledger.Ledger, error) {
	if sess.User == nil {
		return ledger.Ledger{}, ErrForbidden
	}
	return s.LedgerFor(sess.User, sess.Now)
}

// LedgerFor считает баланс указанного сотрудника
func (s *BalanceService) LedgerFor(user *models.User, now time.Time) (ledger.Ledger, error) {
	events, err := s.eventRepo.ListByUser(user.ID)
	if err != nil {
		return ledger.Ledger{}, err
	}

	result := ledger.ComputeDailySummaries(models.ToLedgerEvents(events), ledger.Role(user.Role), now)

	s.logger.WithFields(logrus.Fields{
		"user_id":       user.ID,
		"days":          len(result.Days),
		"total_balance": ledger.FormatDuration(result.TotalBalance),
	}).Debug("Ledger computed")

	return result, nil
}

// FormatDay форматирует один день для чата; now задает зону и "сегодня"
func FormatDay(day ledger.DaySummary, target time.Duration, now time.Time) string {
	var b strings.Builder
	loc := now.Location()

	date := day.DateKey
	if t, err := ledger.ParseDateKey(day.DateKey, loc); err == nil {
		date = t.Format("02/01/2006")
	}

	status := "⚠️ sem registro de saída"
	switch {
	case day.Finalized:
		status = "✅ encerrado"
	case day.DateKey != ledger.DateKey(now, loc):
		// прошедший день без saida
	case day.Open:
		status = "🟢 trabalhando"
	default:
		status = "⏸ em pausa"
	}

	fmt.Fprintf(&b, "📅 %s %s\n", date, status)
	for _, e := range day.Events {
		line := fmt.Sprintf("   %s %s", e.Timestamp.In(loc).Format("15:04"), models.TypeLabel(string(e.Type)))
		if e.Observation != "" {
			line += " - " + e.Observation
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "⏳ Trabalhado: %s / meta %s\n", ledger.FormatClock(day.TotalWorked), ledger.FormatClock(target))
	fmt.Fprintf(&b, "⚖️ Saldo do dia: %s", ledger.FormatDuration(day.Balance))

	return b.String()
}

// FormatLedger форматирует последние n дней и общий баланс
func FormatLedger(result ledger.Ledger, target time.Duration, n int) string {
	days := result.Recent(n)
	if len(days) == 0 {
		return "📭 Nenhum registro de ponto ainda"
	}

	var b strings.Builder
	b.WriteString("📋 Banco de horas\n\n")
	for _, day := range days {
		mark := "✅"
		if !day.Finalized {
			mark = "⚠️"
		}
		fmt.Fprintf(&b, "%s %s  %s  %s\n", mark, day.DateKey, ledger.FormatClock(day.TotalWorked), ledger.FormatDuration(day.Balance))
	}
	fmt.Fprintf(&b, "\n💰 Saldo acumulado: %s", ledger.FormatDuration(result.TotalBalance))
	fmt.Fprintf(&b, "\n🎯 Meta diária: %s", ledger.FormatClock(target))

	return b.String()
}
