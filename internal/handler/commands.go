package handler

import (
	"fmt"

	"ponto-bot/internal/ledger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)
	case "createprofile":
		h.startProfileCreation(message)
	case "myprofile":
		h.showProfile(message)
	case "updateprofile":
		h.startProfileUpdate(message)
	case "deleteprofile":
		h.deleteProfile(message)

	// Отметки (все пользователи)
	case "entrada":
		h.registerClock(message, ledger.EventEntrada, args)
	case "pausa":
		h.registerClock(message, ledger.EventPausa, args)
	case "volta":
		h.registerClock(message, ledger.EventVolta, args)
	case "saida":
		h.registerClock(message, ledger.EventSaida, args)

	// Просмотр баланса
	case "hoje":
		h.showToday(message)
	case "saldo":
		h.showBalance(message, args)
	case "historico":
		h.showHistory(message, args)
	case "painel":
		h.showPanel(message)

	// Заявки
	case "ferias":
		h.submitAbsence(message, "ferias", args)
	case "atestado":
		h.submitAbsence(message, "atestado", args)
	case "folga":
		h.submitAbsence(message, "folga", args)
	case "ajuste":
		h.submitAdjustment(message, args)
	case "meuspedidos":
		h.showMyRequests(message)

	// Команды менеджеров
	case "pedidos":
		h.showPendingRequests(message)
	case "aprovar":
		h.approveRequest(message, args)
	case "rejeitar":
		h.rejectRequest(message, args)
	case "eventos":
		h.showUserEvents(message, args)
	case "inserir":
		h.insertEvent(message, args)
	case "editar":
		h.editEvent(message, args)
	case "remover":
		h.removeEvent(message, args)
	case "cargo":
		h.setUserRole(message, args)
	case "usuarios":
		h.showAllUsers(message)
	case "aviso":
		h.sendBroadcast(message, args)
	case "avisos":
		h.showBroadcasts(message)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.send(message.Chat.ID, "❌ Comando desconhecido. Use /help para ver a lista de comandos.")
}

const userHelp = `📋 Comandos disponíveis:

👤 Perfil:
/createprofile - Criar perfil
/myprofile - Ver meu perfil
/updateprofile - Atualizar perfil
/deleteprofile - Excluir perfil

⏰ Ponto:
/entrada [HH:MM] [obs] - Início do expediente
/pausa [HH:MM] [obs] - Início do intervalo
/volta [HH:MM] [obs] - Fim do intervalo
/saida [HH:MM] [obs] - Fim do expediente
    Sem hora registra agora. Exemplo: /saida 18:05 reunião
    Outro dia: /saida 09/03 18:00

📊 Banco de horas:
/hoje - Resumo de hoje
/saldo [N] - Saldo dos últimos N dias (padrão 7)
/historico [N] - Detalhe dos últimos N dias (padrão 5)
/painel - Painel ao vivo do dia

📝 Pedidos:
/ferias DD/MM/AAAA DD/MM/AAAA [motivo]
/atestado DD/MM/AAAA DD/MM/AAAA [motivo]
/folga DD/MM/AAAA [motivo]
/ajuste tipo [DD/MM] HH:MM motivo - Pedir ponto esquecido
    Exemplo: /ajuste saida 09/03 18:00 esqueci de marcar
/meuspedidos - Meus pedidos`

const managerHelp = `

👑 Gestão:
/pedidos - Pedidos pendentes
/aprovar ID [nota] - Aprovar pedido
/rejeitar ID [nota] - Recusar pedido
/eventos CHAT [DD/MM/AAAA] - Pontos de um funcionário no dia
/inserir CHAT tipo [DD/MM] HH:MM [obs] - Inserir ponto
/editar CHAT ID HH:MM|- [obs] - Corrigir ponto
/remover CHAT ID - Remover ponto
/cargo CHAT cargo - Alterar cargo (funcionario, estagiario, gestor, rh, admin)
/usuarios - Listar funcionários
/aviso texto - Enviar aviso a todos
/avisos - Últimos avisos enviados`

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text := `👋 Olá! Eu sou o bot de ponto eletrônico.

1. Crie seu perfil com /createprofile
2. Marque /entrada ao começar e /saida ao terminar
3. Use /pausa e /volta para o intervalo
4. Acompanhe o banco de horas com /saldo

Use /help para ver todos os comandos.`

	h.send(chatID, text)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text := userHelp
	user, err := h.userService.GetUser(chatID)
	if err == nil && user.CanManage() {
		text += managerHelp
	}
	if err == nil && user.IsAdmin() && h.config.BaseAdminChatID != 0 {
		text += fmt.Sprintf("\n\n🔧 ID do administrador principal: %d", h.config.BaseAdminChatID)
	}

	h.send(chatID, text)
}
