package handler

import (
	"fmt"
	"strconv"
	"strings"

	"ponto-bot/internal/models"
	"ponto-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// submitAbsence заявка на отпуск, больничный или отгул
func (h *Handler) submitAbsence(message *tgbotapi.Message, requestType, args string) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	single := requestType == models.RequestTypeDayOff
	if (single && len(parts) < 1) || (!single && len(parts) < 2) {
		usage := fmt.Sprintf("/%s DD/MM/AAAA DD/MM/AAAA [motivo]", requestType)
		if single {
			usage = fmt.Sprintf("/%s DD/MM/AAAA [motivo]", requestType)
		}
		h.send(chatID, "❌ Formato inválido. Use: "+usage)
		return
	}

	startDate, err := parseDate(parts[0], sess.Now)
	if err != nil {
		h.send(chatID, "❌ Data inicial: "+err.Error())
		return
	}

	endDate := startDate
	reasonFrom := 1
	if !single {
		endDate, err = parseDate(parts[1], sess.Now)
		if err != nil {
			h.send(chatID, "❌ Data final: "+err.Error())
			return
		}
		reasonFrom = 2
	}

	request, err := h.requestService.SubmitAbsence(sess, requestType, startDate, endDate, strings.Join(parts[reasonFrom:], " "))
	if err != nil {
		h.replyError(chatID, "Erro ao criar pedido", err)
		return
	}

	h.send(chatID, "✅ Pedido enviado para aprovação!\n\n"+service.FormatRequest(*request, sess.Location))
	h.notifyManagers(sess, "📥 Novo pedido\n\n"+service.FormatRequest(*request, sess.Location))
}

// submitAdjustment заявка на вставку забытой отметки
func (h *Handler) submitAdjustment(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 2 {
		h.send(chatID, "❌ Formato inválido. Use: /ajuste tipo [DD/MM] HH:MM motivo\nExemplo: /ajuste saida 09/03 18:00 esqueci de marcar")
		return
	}

	eventType, ok := parseEventType(parts[0])
	if !ok {
		h.send(chatID, "❌ Tipo de ponto inválido. Use entrada, pausa, volta ou saida.")
		return
	}

	at, reason, err := parseMoment(strings.Join(parts[1:], " "), sess)
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}

	request, err := h.requestService.SubmitAdjustment(sess, eventType, at, reason)
	if err != nil {
		h.replyError(chatID, "Erro ao criar pedido", err)
		return
	}

	h.send(chatID, "✅ Pedido de ajuste enviado!\n\n"+service.FormatRequest(*request, sess.Location))
	h.notifyManagers(sess, "📥 Novo pedido de ajuste\n\n"+service.FormatRequest(*request, sess.Location))
}

// showMyRequests заявки пользователя
func (h *Handler) showMyRequests(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	sess, ok := h.session(chatID)
	if !ok {
		return
	}

	requests, err := h.requestService.ListMine(sess)
	if err != nil {
		h.replyError(chatID, "Erro ao buscar pedidos", err)
		return
	}

	if len(requests) == 0 {
		h.send(chatID, "📭 Você não tem pedidos.")
		return
	}

	parts := make([]string, 0, len(requests))
	for _, r := range requests {
		parts = append(parts, service.FormatRequest(r, sess.Location))
	}
	h.send(chatID, "📝 Meus pedidos\n\n"+strings.Join(parts, "\n\n"))
}

// showPendingRequests ожидающие заявки с кнопками решения
func (h *Handler) showPendingRequests(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	requests, err := h.requestService.ListPending(sess)
	if err != nil {
		h.replyError(chatID, "Erro ao buscar pedidos", err)
		return
	}

	if len(requests) == 0 {
		h.send(chatID, "✅ Nenhum pedido pendente.")
		return
	}

	for _, r := range requests {
		id := strconv.FormatUint(uint64(r.ID), 10)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Aprovar", "approve_"+id),
				tgbotapi.NewInlineKeyboardButtonData("❌ Recusar", "reject_"+id),
			),
		)
		h.sendWithKeyboard(chatID, service.FormatRequest(r, sess.Location), keyboard)
	}
}

// approveRequest /aprovar ID [nota]
func (h *Handler) approveRequest(message *tgbotapi.Message, args string) {
	h.reviewRequest(message, args, true)
}

// rejectRequest /rejeitar ID [nota]
func (h *Handler) rejectRequest(message *tgbotapi.Message, args string) {
	h.reviewRequest(message, args, false)
}

func (h *Handler) reviewRequest(message *tgbotapi.Message, args string, approve bool) {
	chatID := message.Chat.ID

	sess, ok := h.managerSession(chatID)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) == 0 {
		h.send(chatID, "❌ Informe o número do pedido. Veja /pedidos")
		return
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(parts[0], "#"), 10, 64)
	if err != nil {
		h.send(chatID, "❌ Número de pedido inválido.")
		return
	}
	note := strings.Join(parts[1:], " ")

	var request *models.Request
	if approve {
		request, err = h.requestService.Approve(sess, uint(id), note)
	} else {
		request, err = h.requestService.Reject(sess, uint(id), note)
	}
	if err != nil {
		h.replyError(chatID, "Erro ao analisar pedido", err)
		return
	}

	text := service.FormatRequest(*request, sess.Location)
	h.send(chatID, "✅ Pedido analisado\n\n"+text)

	// Сообщаем автору заявки
	if request.User.ChatID != 0 {
		h.send(request.User.ChatID, fmt.Sprintf("📬 Seu pedido foi analisado por %s\n\n%s", sess.User.FullName(), text))
	}
}

// notifyManagers пересылает новость всем менеджерам, кроме автора
func (h *Handler) notifyManagers(sess service.Session, text string) {
	managers, err := h.userService.Managers()
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load managers for notification")
		return
	}
	for _, m := range managers {
		if m.ID == sess.User.ID {
			continue
		}
		h.send(m.ChatID, text)
	}
}
