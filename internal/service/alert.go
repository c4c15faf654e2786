package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"context"
	"fmt"
)

// alertFeedLimit — размер общей выдачи ленты алертов.
const alertFeedLimit = 50

// AlertService — лента алертов: чтение и пометка прочитанными.
// Алерты не удаляются и не редактируются.
type AlertService struct {
	alerts repo.AlertRepository
}

// NewAlertService создаёт сервис ленты алертов.
func NewAlertService(alerts repo.AlertRepository) *AlertService {
	return &AlertService{alerts: alerts}
}

// List возвращает последние алерты пользователя, новые первыми.
func (s *AlertService) List(ctx context.Context, userID int64) ([]model.Alert, error) {
	alerts, err := s.alerts.List(ctx, userID, alertFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// MarkRead помечает алерт прочитанным. Чужой или несуществующий алерт
// неразличимы: в обоих случаях ErrAlertNotFound.
func (s *AlertService) MarkRead(ctx context.Context, userID, id int64) error {
	rows, err := s.alerts.MarkRead(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	if rows == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// MarkAllRead помечает прочитанными все непрочитанные алерты пользователя.
func (s *AlertService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.alerts.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark alerts read: %w", err)
	}
	return nil
}
