package service

import (
	"fmt"
	"strings"

	"ponto-bot/internal/models"
	"ponto-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// Sender доставляет текст в чат пользователя
type Sender interface {
	SendText(chatID int64, text string) error
}

type BroadcastService struct {
	userRepo      repository.UserRepository
	broadcastRepo repository.BroadcastRepository
	sender        Sender
	logger        *logrus.Logger
}

func NewBroadcastService(
	userRepo repository.UserRepository,
	broadcastRepo repository.BroadcastRepository,
	sender Sender,
	logger *logrus.Logger,
) *BroadcastService {
	return &BroadcastService{
		userRepo:      userRepo,
		broadcastRepo: broadcastRepo,
		sender:        sender,
		logger:        logger,
	}
}

// Send рассылает сообщение всем зарегистрированным, кроме отправителя
func (s *BroadcastService) Send(sess Session, text string) (*models.Broadcast, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: a mensagem não pode ser vazia", ErrInvalidInput)
	}

	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuários: %w", err)
	}

	message := fmt.Sprintf("📢 Aviso de %s:\n\n%s", sess.User.FullName(), text)
	broadcast := &models.Broadcast{SenderID: sess.User.ID, Text: text}

	for _, u := range users {
		if u.ID == sess.User.ID {
			continue
		}
		broadcast.Recipients++
		if err := s.sender.SendText(u.ChatID, message); err != nil {
			broadcast.Failed++
			s.logger.WithError(err).WithField("chat_id", u.ChatID).Warn("Failed to deliver broadcast")
		}
	}

	if err := s.broadcastRepo.Create(broadcast); err != nil {
		return nil, fmt.Errorf("erro ao salvar aviso: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"sender_id":  sess.User.ID,
		"recipients": broadcast.Recipients,
		"failed":     broadcast.Failed,
	}).Info("Broadcast sent")

	return broadcast, nil
}

// Recent последние рассылки
func (s *BroadcastService) Recent(sess Session, limit int) ([]models.Broadcast, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}
	return s.broadcastRepo.ListRecent(limit)
}
