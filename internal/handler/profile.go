package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	stateAwaitingFirstName = "awaiting_first_name"
	stateAwaitingLastName  = "awaiting_last_name:"
	stateAwaitingUpdate    = "awaiting_update"
)

// startProfileCreation начинает процесс создания профиля
func (h *Handler) startProfileCreation(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	// Проверяем, есть ли уже профиль
	if user, err := h.userService.GetUser(chatID); err == nil && user != nil {
		h.send(chatID, "❌ Você já tem um perfil!\nUse /myprofile para vê-lo ou /updateprofile para alterá-lo.")
		return
	}

	h.userStates[chatID] = stateAwaitingFirstName

	h.send(chatID, `👤 Criação de perfil

Passo 1 de 2:
✏️ Envie seu nome:`)
}

// handleProfileState обрабатывает состояния создания/обновления профиля
func (h *Handler) handleProfileState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch {
	case state == stateAwaitingFirstName:
		if text == "" {
			h.send(chatID, "✏️ O nome não pode ser vazio. Envie seu nome:")
			return
		}
		h.userStates[chatID] = stateAwaitingLastName + text

		h.send(chatID, fmt.Sprintf(`Passo 2 de 2:
✅ Nome salvo: %s
✏️ Agora envie seu sobrenome (se não tiver, envie "-"):`, text))

	case strings.HasPrefix(state, stateAwaitingLastName):
		firstName := strings.TrimPrefix(state, stateAwaitingLastName)
		lastName := text
		if lastName == "-" {
			lastName = ""
		}

		delete(h.userStates, chatID)

		user, err := h.userService.CreateUser(chatID, message.From.UserName, firstName, lastName)
		if err != nil {
			h.replyError(chatID, "Erro ao criar perfil", err)
			return
		}

		h.send(chatID, fmt.Sprintf("🎉 Perfil criado!\n\n%s\n\nAgora marque seu ponto com /entrada.",
			h.userService.FormatUserInfo(user)))

	case state == stateAwaitingUpdate:
		delete(h.userStates, chatID)

		parts := strings.Fields(text)
		if len(parts) < 1 {
			h.send(chatID, "❌ Formato inválido. Envie nome e sobrenome.")
			return
		}

		firstName := parts[0]
		lastName := strings.Join(parts[1:], " ")

		user, err := h.userService.UpdateUser(chatID, message.From.UserName, firstName, lastName)
		if err != nil {
			h.replyError(chatID, "Erro ao atualizar perfil", err)
			return
		}

		h.send(chatID, "✅ Perfil atualizado!\n\n"+h.userService.FormatUserInfo(user))

	default:
		delete(h.userStates, chatID)
	}
}

// showProfile показывает профиль пользователя
func (h *Handler) showProfile(message *tgbotapi.Message) {
	sess, ok := h.session(message.Chat.ID)
	if !ok {
		return
	}
	h.send(message.Chat.ID, h.userService.FormatUserInfo(sess.User))
}

// startProfileUpdate начинает процесс обновления профиля
func (h *Handler) startProfileUpdate(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if _, ok := h.session(chatID); !ok {
		return
	}

	h.send(chatID, `✏️ Atualização de perfil

Envie os novos dados no formato:
Nome Sobrenome

Exemplo: Maria Souza
Ou apenas: Maria (para mudar só o nome)`)

	h.userStates[chatID] = stateAwaitingUpdate
}

// deleteProfile удаляет профиль пользователя
func (h *Handler) deleteProfile(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if _, ok := h.session(chatID); !ok {
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Sim, excluir", "confirm_delete"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Não, cancelar", "cancel_delete"),
		),
	)

	h.sendWithKeyboard(chatID, "⚠️ Tem certeza de que deseja excluir seu perfil?\nTodos os seus pontos e pedidos serão apagados.", keyboard)
}
