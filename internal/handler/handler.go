package handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ponto-bot/internal/config"
	"ponto-bot/internal/ledger"
	"ponto-bot/internal/models"
	"ponto-bot/internal/pipeline"
	"ponto-bot/internal/repository"
	"ponto-bot/internal/service"
	"ponto-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	client            *telegram.Client
	userService       *service.UserService
	clockService      *service.ClockService
	adjustmentService *service.AdjustmentService
	balanceService    *service.BalanceService
	requestService    *service.RequestService
	broadcastService  *service.BroadcastService
	hub               *pipeline.Hub
	userStates        map[int64]string
	config            *config.Config
	logger            *logrus.Logger

	// ctx задается в HandleUpdates, от него живут панели
	ctx      context.Context
	panelsMu sync.Mutex
	panels   map[int64]*livePanel
	panelsWG sync.WaitGroup
}

func NewHandler(
	client *telegram.Client,
	userService *service.UserService,
	clockService *service.ClockService,
	adjustmentService *service.AdjustmentService,
	balanceService *service.BalanceService,
	requestService *service.RequestService,
	broadcastService *service.BroadcastService,
	hub *pipeline.Hub,
	cfg *config.Config,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		client:            client,
		userService:       userService,
		clockService:      clockService,
		adjustmentService: adjustmentService,
		balanceService:    balanceService,
		requestService:    requestService,
		broadcastService:  broadcastService,
		hub:               hub,
		userStates:        make(map[int64]string),
		config:            cfg,
		logger:            logger,
		ctx:               context.Background(),
		panels:            make(map[int64]*livePanel),
	}
}

// HandleUpdates обрабатывает обновления до закрытия канала или отмены ctx
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	h.ctx = ctx

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			// Обработка callback query (для inline кнопок)
			if update.CallbackQuery != nil {
				h.handleCallbackQuery(update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			h.handleMessage(update.Message)
		}
	}
}

// Wait ждет завершения всех живых панелей
func (h *Handler) Wait() {
	h.panelsWG.Wait()
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Отвечаем на callback (убираем "часики" у кнопки)
	defer h.client.Bot.Request(tgbotapi.NewCallback(callback.ID, ""))

	// Панель редактирует свое сообщение сама, клавиатуру не трогаем
	if data == "panel_stop" {
		h.stopPanel(chatID)
		return
	}

	// Удаляем клавиатуру
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	h.client.Bot.Request(editMsg)

	fakeMessage := &tgbotapi.Message{
		MessageID: callback.Message.MessageID,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      callback.From,
	}

	switch {
	case strings.HasPrefix(data, "clock_"):
		eventType, ok := parseEventType(strings.TrimPrefix(data, "clock_"))
		if !ok {
			return
		}
		h.registerClock(fakeMessage, eventType, "")

	case strings.HasPrefix(data, "approve_"):
		h.approveRequest(fakeMessage, strings.TrimPrefix(data, "approve_"))

	case strings.HasPrefix(data, "reject_"):
		h.rejectRequest(fakeMessage, strings.TrimPrefix(data, "reject_"))

	case data == "confirm_delete":
		h.stopPanel(chatID)
		if err := h.userService.DeleteUser(chatID); err != nil {
			h.replyError(chatID, "Erro ao excluir perfil", err)
			return
		}
		h.send(chatID, "✅ Seu perfil foi excluído!")

	case data == "cancel_delete":
		h.send(chatID, "❌ Exclusão do perfil cancelada.")
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	h.logger.Infof("[%s] %s", message.From.UserName, message.Text)

	chatID := message.Chat.ID

	// Пользователь в процессе создания/обновления профиля
	if state, exists := h.userStates[chatID]; exists && !message.IsCommand() {
		h.handleProfileState(message, state)
		return
	}
	delete(h.userStates, chatID)

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.send(chatID, "🤖 Não entendi. Use /help para ver os comandos.")
}

// send отправляет текст и логирует ошибку доставки
func (h *Handler) send(chatID int64, text string) {
	if err := h.client.SendText(chatID, text); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to send message")
	}
}

// sendWithKeyboard отправляет текст с inline клавиатурой
func (h *Handler) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.client.Bot.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to send message")
	}
}

// replyError переводит ошибку сервиса в ответ пользователю
func (h *Handler) replyError(chatID int64, prefix string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		h.send(chatID, "❌ Acesso negado. Este comando é só para gestores, RH e administradores.")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrUserNotFound):
		h.send(chatID, "❌ "+prefix+": registro não encontrado.")
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrFutureEvent):
		h.send(chatID, "❌ "+err.Error())
	default:
		h.logger.WithError(err).WithField("chat_id", chatID).Error(prefix)
		h.send(chatID, "❌ "+prefix+": "+err.Error())
	}
}

// session находит пользователя чата и фиксирует момент запроса
func (h *Handler) session(chatID int64) (service.Session, bool) {
	user, err := h.userService.GetUser(chatID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to load user")
		}
		h.send(chatID, "❌ Perfil não encontrado.\nUse /createprofile para criar seu perfil.")
		return service.Session{}, false
	}
	return service.NewSession(user, h.config.Location, time.Now()), true
}

// managerSession как session, но только для менеджеров
func (h *Handler) managerSession(chatID int64) (service.Session, bool) {
	sess, ok := h.session(chatID)
	if !ok {
		return sess, false
	}
	if !sess.User.CanManage() {
		h.logger.WithField("chat_id", chatID).Warn("Unauthorized access to manager command")
		h.replyError(chatID, "", service.ErrForbidden)
		return sess, false
	}
	return sess, true
}

// targetUser сотрудник по chat ID из аргументов команды
func (h *Handler) targetUser(chatID int64, args string) (*models.User, []string, bool) {
	targetChatID, rest, err := splitChat(args)
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return nil, nil, false
	}
	target, err := h.userService.GetUser(targetChatID)
	if err != nil {
		h.replyError(chatID, "Funcionário", err)
		return nil, nil, false
	}
	return target, rest, true
}

// suggestionKeyboard кнопки для ожидаемых следующих отметок
func suggestionKeyboard(types []ledger.EventType) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range types {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(models.TypeLabel(string(t)), "clock_"+string(t)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
