package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/pipeline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram ограничивает частоту правок одного сообщения
const panelEditInterval = 3 * time.Second

type livePanel struct {
	cancel context.CancelFunc
}

// showPanel отправляет сообщение и правит его на каждом обновлении фида сотрудника
func (h *Handler) showPanel(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	updates, release, err := h.hub.Subscribe(sess.User.ID)
	if err != nil {
		h.replyError(chatID, "Erro ao abrir painel", err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "⏳ Carregando painel...")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏹ Fechar painel", "panel_stop"),
		),
	)
	sent, err := h.client.Bot.Send(msg)
	if err != nil {
		release()
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to send panel message")
		return
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.config.LivePanelDuration)
	p := &livePanel{cancel: cancel}

	// Одна панель на чат: новая закрывает предыдущую
	h.panelsMu.Lock()
	if prev, ok := h.panels[chatID]; ok {
		prev.cancel()
	}
	h.panels[chatID] = p
	h.panelsMu.Unlock()

	loc := sess.Location

	h.panelsWG.Add(1)
	go func() {
		defer h.panelsWG.Done()
		defer release()
		defer h.dropPanel(chatID, p)

		h.runPanel(ctx, chatID, sent.MessageID, updates, loc)
	}()
}

func (h *Handler) runPanel(ctx context.Context, chatID int64, messageID int, updates <-chan pipeline.Update, loc *time.Location) {
	limiter := rate.NewLimiter(rate.Every(panelEditInterval), 1)
	var last string

	for {
		select {
		case <-ctx.Done():
			if last != "" {
				h.editPanel(chatID, messageID, last+"\n\n⏹ Painel encerrado. Use /painel para reabrir.")
			}
			return

		case update, ok := <-updates:
			if !ok {
				return
			}
			// канал хранит только свежее обновление, пропущенное догонит следующий тик
			if !limiter.Allow() {
				continue
			}

			text := FormatPanel(update, loc)
			if text == last {
				continue
			}
			h.editPanel(chatID, messageID, text)
			last = text
		}
	}
}

func (h *Handler) editPanel(chatID int64, messageID int, text string) {
	if err := h.client.EditText(chatID, messageID, text); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Debug("Failed to edit panel")
	}
}

func (h *Handler) dropPanel(chatID int64, p *livePanel) {
	p.cancel()

	h.panelsMu.Lock()
	defer h.panelsMu.Unlock()
	if h.panels[chatID] == p {
		delete(h.panels, chatID)
	}
}

// stopPanel закрывает панель чата, если она открыта
func (h *Handler) stopPanel(chatID int64) {
	h.panelsMu.Lock()
	p, ok := h.panels[chatID]
	h.panelsMu.Unlock()

	if ok {
		p.cancel()
	}
}

// FormatPanel текст живой панели: сегодняшний день и общий баланс.
// Норма берется из обновления, поэтому смена роли видна без переоткрытия.
func FormatPanel(update pipeline.Update, loc *time.Location) string {
	now := update.ComputedAt.In(loc)
	var b strings.Builder

	fmt.Fprintf(&b, "📟 Painel de %s\n\n", now.Format("02/01/2006"))

	day, ok := update.Ledger.Day(ledger.DateKey(now, loc))
	switch {
	case !ok:
		b.WriteString("📭 Nenhum ponto hoje\n")
	case day.Finalized:
		b.WriteString("✅ Expediente encerrado\n")
	case day.Open:
		b.WriteString("🟢 Trabalhando\n")
	default:
		b.WriteString("⏸ Em pausa\n")
	}

	fmt.Fprintf(&b, "⏳ Trabalhado hoje: %s\n", ledger.FormatClock(day.TotalWorked))
	if day.Finalized {
		fmt.Fprintf(&b, "⚖️ Saldo do dia: %s\n", ledger.FormatDuration(day.Balance))
	} else {
		remaining := update.Target - day.TotalWorked
		if remaining > 0 {
			fmt.Fprintf(&b, "🎯 Falta para a meta: %s\n", ledger.FormatClock(remaining))
		} else {
			fmt.Fprintf(&b, "🎯 Meta cumprida, excedente: %s\n", ledger.FormatClock(-remaining))
		}
	}
	fmt.Fprintf(&b, "💰 Saldo acumulado: %s\n", ledger.FormatDuration(update.Ledger.TotalBalance))
	fmt.Fprintf(&b, "\n🕐 Atualizado às %s", now.Format("15:04:05"))

	return b.String()
}
