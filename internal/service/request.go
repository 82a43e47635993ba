package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/models"
	"ponto-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// RequestService заявки сотрудников и их рассмотрение менеджером
type RequestService struct {
	requestRepo repository.RequestRepository
	adjustments *AdjustmentService
	logger      *logrus.Logger
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	adjustments *AdjustmentService,
	logger *logrus.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		adjustments: adjustments,
		logger:      logger,
	}
}

// dateOnly календарная дата в зоне сессии, сохраненная как полночь UTC
func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SubmitAbsence подает заявку на отпуск, больничный или отгул
func (s *RequestService) SubmitAbsence(sess Session, requestType string, startDate, endDate time.Time, reason string) (*models.Request, error) {
	if sess.User == nil {
		return nil, ErrForbidden
	}

	startDate = dateOnly(startDate, sess.Location)
	endDate = dateOnly(endDate, sess.Location)
	today := dateOnly(sess.Now, sess.Location)

	request := &models.Request{
		UserID:    sess.User.ID,
		Type:      requestType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    strings.TrimSpace(reason),
		Status:    models.RequestStatusPending,
	}
	if !request.IsAbsence() {
		return nil, fmt.Errorf("%w: tipo de pedido %q", ErrInvalidInput, requestType)
	}
	if !request.IsValid() {
		return nil, fmt.Errorf("%w: a data final não pode ser anterior à inicial", ErrInvalidInput)
	}

	// Отпуск только на будущие даты, больничный можно задним числом
	if requestType == models.RequestTypeVacation && startDate.Before(today) {
		return nil, fmt.Errorf("%w: férias só podem ser pedidas a partir de hoje", ErrInvalidInput)
	}

	conflict, err := s.requestRepo.CheckPeriodConflict(sess.User.ID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar conflitos: %w", err)
	}
	if conflict {
		return nil, fmt.Errorf("%w: o período coincide com outro pedido", ErrInvalidInput)
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, fmt.Errorf("erro ao criar pedido: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    sess.User.ID,
		"request_id": request.ID,
		"type":       requestType,
		"days":       request.Days(),
	}).Info("Absence request submitted")

	return request, nil
}

// SubmitAdjustment просит менеджера вставить забытую отметку
func (s *RequestService) SubmitAdjustment(sess Session, eventType ledger.EventType, at time.Time, reason string) (*models.Request, error) {
	if sess.User == nil {
		return nil, ErrForbidden
	}
	if !eventType.Known() {
		return nil, fmt.Errorf("%w: tipo de ponto %q", ErrInvalidInput, eventType)
	}
	if at.After(sess.Now.Add(futureTolerance)) {
		return nil, ErrFutureEvent
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: informe o motivo do ajuste", ErrInvalidInput)
	}

	day := dateOnly(at, sess.Location)
	request := &models.Request{
		UserID:       sess.User.ID,
		Type:         models.RequestTypeAdjustment,
		StartDate:    day,
		EndDate:      day,
		ProposedType: string(eventType),
		ProposedAt:   &at,
		Reason:       strings.TrimSpace(reason),
		Status:       models.RequestStatusPending,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, fmt.Errorf("erro ao criar pedido: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    sess.User.ID,
		"request_id": request.ID,
		"type":       eventType,
	}).Info("Adjustment request submitted")

	return request, nil
}

// ListMine заявки пользователя сессии, новые сверху
func (s *RequestService) ListMine(sess Session) ([]models.Request, error) {
	if sess.User == nil {
		return nil, ErrForbidden
	}
	return s.requestRepo.ListByUser(sess.User.ID)
}

// ListPending ожидающие заявки всех сотрудников
func (s *RequestService) ListPending(sess Session) ([]models.Request, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}
	return s.requestRepo.ListPending()
}

// Approve одобряет заявку. Для корректировки вставляет предложенную отметку.
// Статус меняется первым: условное обновление проходит только у одного менеджера,
// и отметка вставляется только после него.
func (s *RequestService) Approve(sess Session, requestID uint, note string) (*models.Request, error) {
	request, err := s.reviewable(sess, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.review(sess, request, models.RequestStatusApproved, note); err != nil {
		return nil, err
	}

	if request.Type == models.RequestTypeAdjustment {
		obs := "ajuste aprovado"
		if request.Reason != "" {
			obs += ": " + request.Reason
		}
		if _, err := s.adjustments.InsertEvent(sess, request.UserID, ledger.EventType(request.ProposedType), *request.ProposedAt, obs); err != nil {
			// отметки нет, заявка снова ждет решения
			if rerr := s.requestRepo.Reopen(request.ID); rerr != nil {
				s.logger.WithError(rerr).WithField("request_id", request.ID).Error("Failed to reopen request after failed adjustment")
			}
			return nil, fmt.Errorf("erro ao inserir ponto do ajuste: %w", err)
		}
	}

	return request, nil
}

// Reject отклоняет заявку
func (s *RequestService) Reject(sess Session, requestID uint, note string) (*models.Request, error) {
	request, err := s.reviewable(sess, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.review(sess, request, models.RequestStatusRejected, note); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) reviewable(sess Session, requestID uint) (*models.Request, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if !request.IsPending() {
		return nil, fmt.Errorf("%w: pedido já foi analisado", ErrInvalidInput)
	}
	// Свои заявки рассматривает другой менеджер
	if request.UserID == sess.User.ID {
		return nil, ErrForbidden
	}
	return request, nil
}

func (s *RequestService) review(sess Session, request *models.Request, status, note string) error {
	reviewer := sess.User.ID
	at := sess.Now
	note = strings.TrimSpace(note)

	if err := s.requestRepo.Review(request.ID, reviewer, status, note, at); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return fmt.Errorf("%w: pedido já foi analisado", ErrInvalidInput)
		}
		return err
	}

	request.Status = status
	request.ReviewerID = &reviewer
	request.ReviewNote = note
	request.ReviewedAt = &at

	s.logger.WithFields(logrus.Fields{
		"request_id":  request.ID,
		"reviewer_id": reviewer,
		"status":      status,
	}).Info("Request reviewed")

	return nil
}

// FormatRequest форматирует заявку для чата
func FormatRequest(r models.Request, loc *time.Location) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d %s %s\n", r.ID, models.RequestTypeLabel(r.Type), models.RequestStatusLabel(r.Status))
	if r.User.ID != 0 {
		fmt.Fprintf(&b, "👤 %s\n", r.User.FullName())
	}

	if r.Type == models.RequestTypeAdjustment && r.ProposedAt != nil {
		fmt.Fprintf(&b, "🕐 %s em %s\n",
			models.TypeLabel(r.ProposedType),
			r.ProposedAt.In(loc).Format("02/01/2006 15:04"))
	} else if r.StartDate.Equal(r.EndDate) {
		fmt.Fprintf(&b, "📅 %s\n", r.StartDate.Format("02/01/2006"))
	} else {
		fmt.Fprintf(&b, "📅 %s - %s (%d dias)\n",
			r.StartDate.Format("02/01/2006"), r.EndDate.Format("02/01/2006"), r.Days())
	}

	if r.Reason != "" {
		fmt.Fprintf(&b, "📝 %s\n", r.Reason)
	}
	if r.ReviewNote != "" {
		fmt.Fprintf(&b, "💬 %s\n", r.ReviewNote)
	}

	return strings.TrimRight(b.String(), "\n")
}
