package service

import (
	"fmt"
	"strings"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/models"
	"ponto-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type UserService struct {
	repo      repository.UserRepository
	eventRepo repository.ClockEventRepository
	reqRepo   repository.RequestRepository
	logger    *logrus.Logger
}

func NewUserService(
	repo repository.UserRepository,
	eventRepo repository.ClockEventRepository,
	reqRepo repository.RequestRepository,
	logger *logrus.Logger,
) *UserService {
	return &UserService{
		repo:      repo,
		eventRepo: eventRepo,
		reqRepo:   reqRepo,
		logger:    logger,
	}
}

// CreateUser создает нового пользователя с ролью funcionario по умолчанию
func (s *UserService) CreateUser(chatID int64, username, firstName, lastName string) (*models.User, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return nil, fmt.Errorf("%w: o nome não pode ser vazio", ErrInvalidInput)
	}

	user := &models.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
		LastName:  strings.TrimSpace(lastName),
		Role:      string(models.RoleEmployee),
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("erro ao criar usuário: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"chat_id": chatID,
	}).Info("User created")

	return user, nil
}

// GetUser возвращает пользователя по chatID
func (s *UserService) GetUser(chatID int64) (*models.User, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	if user == nil {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

// UpdateUser обновляет данные пользователя (кроме роли)
func (s *UserService) UpdateUser(chatID int64, username, firstName, lastName string) (*models.User, error) {
	user, err := s.GetUser(chatID)
	if err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("erro ao atualizar usuário: %w", err)
	}

	return user, nil
}

// DeleteUser удаляет профиль вместе с отметками и заявками
func (s *UserService) DeleteUser(chatID int64) error {
	user, err := s.GetUser(chatID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.DeleteByUserID(user.ID); err != nil {
		return fmt.Errorf("erro ao remover registros de ponto: %w", err)
	}
	if err := s.reqRepo.DeleteByUserID(user.ID); err != nil {
		return fmt.Errorf("erro ao remover pedidos: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("User deleted")
	return s.repo.Delete(chatID)
}

// SetRole меняет роль сотрудника. Роль admin может выдать только admin.
func (s *UserService) SetRole(sess Session, targetChatID int64, role models.Role) error {
	if err := sess.requireManager(); err != nil {
		return err
	}
	if role == models.RoleAdmin && !sess.User.IsAdmin() {
		return ErrForbidden
	}

	target, err := s.GetUser(targetChatID)
	if err != nil {
		return err
	}
	if target.IsAdmin() && !sess.User.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.UpdateRole(targetChatID, role); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"editor_id": sess.User.ID,
		"user_id":   target.ID,
		"role":      role,
	}).Info("User role changed")

	return nil
}

// InitializeAdmin выдает роль admin пользователю из конфига, если он уже зарегистрирован
func (s *UserService) InitializeAdmin(chatID int64) error {
	if chatID == 0 {
		return nil
	}

	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return err
	}
	if user == nil {
		user = &models.User{ChatID: chatID, FirstName: "Admin", Role: string(models.RoleAdmin)}
		return s.repo.Create(user)
	}
	if user.IsAdmin() {
		return nil
	}
	return s.repo.UpdateRole(chatID, models.RoleAdmin)
}

// ListUsers все пользователи (только для менеджеров)
func (s *UserService) ListUsers(sess Session) ([]*models.User, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}
	return s.repo.GetAll()
}

// Managers менеджеры, RH и администраторы, которым уходят новые заявки
func (s *UserService) Managers() ([]*models.User, error) {
	return s.repo.GetManagers()
}

// FormatUserInfo форматирует информацию о пользователе для вывода
func (s *UserService) FormatUserInfo(user *models.User) string {
	var lines []string

	lines = append(lines, "👤 Perfil:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("🆔 Chat ID: %d", user.ChatID))

	if user.Username != "" {
		lines = append(lines, fmt.Sprintf("📛 Usuário: @%s", user.Username))
	}

	lines = append(lines, fmt.Sprintf("👨‍💼 Nome: %s", user.FullName()))

	roleEmoji := "👤"
	if user.CanManage() {
		roleEmoji = "👑"
	}
	lines = append(lines, fmt.Sprintf("%s Cargo: %s", roleEmoji, user.Role))
	lines = append(lines, fmt.Sprintf("🎯 Meta diária: %s", ledger.FormatClock(user.Target())))

	return strings.Join(lines, "\n")
}

// FormatAllUsers форматирует список пользователей
func (s *UserService) FormatAllUsers(users []*models.User) string {
	if len(users) == 0 {
		return "📭 Nenhum usuário cadastrado"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 Usuários (%d):\n\n", len(users))
	for i, u := range users {
		fmt.Fprintf(&b, "%d. %s [%s] - chat %d\n", i+1, u.FullName(), u.Role, u.ChatID)
	}
	return b.String()
}
