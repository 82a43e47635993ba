package handler

import (
	"fmt"
	"strings"
	"time"

	"ponto-bot/internal/models"
	"ponto-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showAllUsers показывает всех пользователей
func (h *Handler) showAllUsers(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(sess)
	if err != nil {
		h.replyError(chatID, "Erro ao listar usuários", err)
		return
	}

	h.send(chatID, h.userService.FormatAllUsers(users))
}

// setUserRole /cargo CHAT cargo
func (h *Handler) setUserRole(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	target, rest, ok := h.targetUser(chatID, args)
	if !ok {
		return
	}
	if len(rest) != 1 {
		h.send(chatID, "❌ Formato inválido. Use: /cargo CHAT cargo")
		return
	}

	role, ok := models.ParseRole(strings.ToLower(rest[0]))
	if !ok {
		h.send(chatID, "❌ Cargo inválido. Use: funcionario, estagiario, gestor, rh ou admin")
		return
	}

	if err := h.userService.SetRole(sess, target.ChatID, role); err != nil {
		h.replyError(chatID, "Erro ao alterar cargo", err)
		return
	}

	// Норма зависит от роли, живые панели должны пересчитаться
	h.hub.Notify(target.ID)

	h.send(chatID, fmt.Sprintf("✅ %s agora é %s", target.FullName(), role))
	h.send(target.ChatID, fmt.Sprintf("ℹ️ Seu cargo foi alterado para %s", role))
}

// showUserEvents /eventos CHAT [DD/MM/AAAA] - отметки сотрудника за день с короткими ID
func (h *Handler) showUserEvents(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	target, rest, ok := h.targetUser(chatID, args)
	if !ok {
		return
	}

	day := sess.Today()
	if len(rest) > 0 {
		d, err := parseDate(rest[0], sess.Now)
		if err != nil {
			h.send(chatID, "❌ "+err.Error())
			return
		}
		day = d
	}

	events, err := h.adjustmentService.DayEvents(sess, target.ID, day)
	if err != nil {
		h.replyError(chatID, "Erro ao buscar pontos", err)
		return
	}

	if len(events) == 0 {
		h.send(chatID, fmt.Sprintf("📭 %s não tem pontos em %s", target.FullName(), day.Format("02/01/2006")))
		return
	}

	lines := []string{fmt.Sprintf("🗂 Pontos de %s em %s:", target.FullName(), day.Format("02/01/2006")), ""}
	for _, e := range events {
		lines = append(lines, e.FormatLine(sess.Location))
	}
	lines = append(lines, "", "Use /editar ou /remover com o ID da esquerda.")
	h.send(chatID, strings.Join(lines, "\n"))
}

// insertEvent /inserir CHAT tipo [DD/MM] HH:MM [obs]
func (h *Handler) insertEvent(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	target, rest, ok := h.targetUser(chatID, args)
	if !ok {
		return
	}
	if len(rest) < 2 {
		h.send(chatID, "❌ Formato inválido. Use: /inserir CHAT tipo [DD/MM] HH:MM [obs]")
		return
	}

	eventType, ok := parseEventType(rest[0])
	if !ok {
		h.send(chatID, "❌ Tipo de ponto inválido. Use entrada, pausa, volta ou saida.")
		return
	}

	at, observation, err := parseMoment(strings.Join(rest[1:], " "), sess)
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}

	event, err := h.adjustmentService.InsertEvent(sess, target.ID, eventType, at, observation)
	if err != nil {
		h.replyError(chatID, "Erro ao inserir ponto", err)
		return
	}

	h.send(chatID, "✅ Ponto inserido\n"+event.FormatLine(sess.Location))
	h.send(target.ChatID, fmt.Sprintf("ℹ️ %s inseriu um ponto para você:\n%s", sess.User.FullName(), event.FormatLine(sess.Location)))
}

// editEvent /editar CHAT ID HH:MM|- [obs]
func (h *Handler) editEvent(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	target, rest, ok := h.targetUser(chatID, args)
	if !ok {
		return
	}
	if len(rest) < 2 {
		h.send(chatID, "❌ Formato inválido. Use: /editar CHAT ID HH:MM [obs] (use - para manter a hora)")
		return
	}

	shortID := rest[0]
	var edit service.EventEdit

	if rest[1] != "-" {
		// время правится в пределах того же дня
		current, err := h.adjustmentService.FindEvent(sess, target.ID, shortID)
		if err != nil {
			h.replyError(chatID, "Erro ao buscar ponto", err)
			return
		}
		hour, minute, err := parseClock(rest[1])
		if err != nil {
			h.send(chatID, "❌ "+err.Error())
			return
		}
		day := current.Timestamp.In(sess.Location)
		ts := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, sess.Location)
		edit.Timestamp = &ts
	}
	if len(rest) > 2 {
		obs := strings.Join(rest[2:], " ")
		edit.Observation = &obs
	}

	event, err := h.adjustmentService.EditEvent(sess, target.ID, shortID, edit)
	if err != nil {
		h.replyError(chatID, "Erro ao editar ponto", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  chatID,
		"event_id": event.ID,
	}).Info("Clock event edited")

	h.send(chatID, "✅ Ponto corrigido\n"+event.FormatLine(sess.Location))
}

// removeEvent /remover CHAT ID
func (h *Handler) removeEvent(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	target, rest, ok := h.targetUser(chatID, args)
	if !ok {
		return
	}
	if len(rest) != 1 {
		h.send(chatID, "❌ Formato inválido. Use: /remover CHAT ID")
		return
	}

	if err := h.adjustmentService.DeleteEvent(sess, target.ID, rest[0]); err != nil {
		h.replyError(chatID, "Erro ao remover ponto", err)
		return
	}

	h.send(chatID, "✅ Ponto removido")
}

// sendBroadcast /aviso texto
func (h *Handler) sendBroadcast(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	broadcast, err := h.broadcastService.Send(sess, args)
	if err != nil {
		h.replyError(chatID, "Erro ao enviar aviso", err)
		return
	}

	text := fmt.Sprintf("📢 Aviso enviado para %d pessoa(s)", broadcast.Recipients-broadcast.Failed)
	if broadcast.Failed > 0 {
		text += fmt.Sprintf("\n⚠️ Falhou para %d", broadcast.Failed)
	}
	h.send(chatID, text)
}

// showBroadcasts /avisos - последние рассылки
func (h *Handler) showBroadcasts(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	broadcasts, err := h.broadcastService.Recent(sess, 5)
	if err != nil {
		h.replyError(chatID, "Erro ao buscar avisos", err)
		return
	}

	if len(broadcasts) == 0 {
		h.send(chatID, "📭 Nenhum aviso enviado ainda.")
		return
	}

	items := make([]string, 0, len(broadcasts))
	for _, b := range broadcasts {
		items = append(items, fmt.Sprintf("%s - %s (%d/%d)\n%s",
			b.CreatedAt.In(sess.Location).Format("02/01 15:04"),
			b.Sender.FullName(),
			b.Recipients-b.Failed, b.Recipients,
			b.Text))
	}
	h.send(chatID, "📢 Últimos avisos:\n\n"+strings.Join(items, "\n\n"))
}
