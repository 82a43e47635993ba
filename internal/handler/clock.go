package handler

import (
	"fmt"
	"strings"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/models"
	"ponto-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// registerClock записывает отметку: сейчас или в указанное время сегодня/в указанный день
func (h *Handler) registerClock(message *tgbotapi.Message, eventType ledger.EventType, args string) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	at, observation, err := parseMoment(args, sess)
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}

	event, err := h.clockService.Register(sess, eventType, at, observation)
	if err != nil {
		h.replyError(chatID, "Erro ao registrar ponto", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  chatID,
		"event_id": event.ID,
		"type":     event.Type,
	}).Info("Clock event registered")

	var b strings.Builder
	fmt.Fprintf(&b, "%s registrada às %s", models.TypeLabel(event.Type), at.In(sess.Location).Format("15:04"))
	if !ledger.SameDay(at.In(sess.Location), sess.Now) {
		fmt.Fprintf(&b, " de %s", at.In(sess.Location).Format("02/01/2006"))
	}
	if observation != "" {
		fmt.Fprintf(&b, "\n📝 %s", observation)
	}

	// Итог дня сразу после отметки
	if result, err := h.balanceService.Ledger(sess); err == nil {
		if day, ok := result.Day(ledger.DateKey(at, sess.Location)); ok {
			fmt.Fprintf(&b, "\n\n⏳ Trabalhado no dia: %s", ledger.FormatClock(day.TotalWorked))
			if day.Finalized {
				fmt.Fprintf(&b, "\n⚖️ Saldo do dia: %s", ledger.FormatDuration(day.Balance))
				fmt.Fprintf(&b, "\n💰 Saldo acumulado: %s", ledger.FormatDuration(result.TotalBalance))
			}
		}
	} else {
		h.logger.WithError(err).Warn("Failed to compute ledger after clock event")
	}

	next := h.clockService.NextSuggestedTypes(sess)
	h.sendWithKeyboard(chatID, b.String(), suggestionKeyboard(next))
}

// showToday сводка за сегодня
func (h *Handler) showToday(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	result, err := h.balanceService.Ledger(sess)
	if err != nil {
		h.replyError(chatID, "Erro ao calcular saldo", err)
		return
	}

	next := h.clockService.NextSuggestedTypes(sess)

	day, ok := result.Day(ledger.DateKey(sess.Now, sess.Location))
	if !ok {
		h.sendWithKeyboard(chatID, "📭 Nenhum ponto registrado hoje.", suggestionKeyboard(next))
		return
	}

	text := service.FormatDay(day, sess.User.Target(), sess.Now)
	text += "\n💰 Saldo acumulado: " + ledger.FormatDuration(result.TotalBalance)
	h.sendWithKeyboard(chatID, text, suggestionKeyboard(next))
}

// showBalance баланс за последние N дней
func (h *Handler) showBalance(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	result, err := h.balanceService.Ledger(sess)
	if err != nil {
		h.replyError(chatID, "Erro ao calcular saldo", err)
		return
	}

	h.send(chatID, service.FormatLedger(result, sess.User.Target(), parseCount(args, 7, 62)))
}

// showHistory подробности по дням с отметками
func (h *Handler) showHistory(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	result, err := h.balanceService.Ledger(sess)
	if err != nil {
		h.replyError(chatID, "Erro ao calcular saldo", err)
		return
	}

	days := result.Recent(parseCount(args, 5, 10))
	if len(days) == 0 {
		h.send(chatID, "📭 Nenhum registro de ponto ainda")
		return
	}

	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, service.FormatDay(day, sess.User.Target(), sess.Now))
	}
	h.send(chatID, "📜 Histórico\n\n"+strings.Join(parts, "\n\n"))
}
