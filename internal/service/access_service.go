package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Freeeeeet/pdfnumber_bot/internal/model"
	"github.com/Freeeeeet/pdfnumber_bot/internal/repository"
	"go.uber.org/zap"
)

// AccessService решает кто может нумеровать PDF и кто может управлять доступом.
// Список админов кэшируется в памяти, подписки перечитываются на каждую проверку.
type AccessService struct {
	store        repository.AccessStore
	superAdminID int64
	location     *time.Location
	now          func() time.Time
	logger       *zap.Logger

	mu     sync.RWMutex
	admins map[int64]struct{}
}

// NewAccessService создаёт сервис доступа. now == nil означает time.Now
func NewAccessService(
	store repository.AccessStore,
	superAdminID int64,
	location *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *AccessService {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &AccessService{
		store:        store,
		superAdminID: superAdminID,
		location:     location,
		now:          now,
		logger:       logger,
		admins:       make(map[int64]struct{}),
	}
}

// LoadAdmins загружает админов из хранилища в кэш
func (s *AccessService) LoadAdmins(ctx context.Context) error {
	ids, err := s.store.LoadAdmins(ctx)
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}

	admins := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		admins[id] = struct{}{}
	}

	s.mu.Lock()
	s.admins = admins
	s.mu.Unlock()

	s.logger.Info("Admins loaded", zap.Int("count", len(admins)))
	return nil
}

// Today возвращает текущую дату в опорном часовом поясе
func (s *AccessService) Today() time.Time {
	return model.DateOf(s.now(), s.location)
}

// IsAdmin проверяет членство в списке админов (главный админ входит всегда)
func (s *AccessService) IsAdmin(telegramID int64) bool {
	if telegramID == s.superAdminID {
		return true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.admins[telegramID]
	return ok
}

// Admins возвращает отсортированную копию списка админов
func (s *AccessService) Admins() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.admins))
	for id := range s.admins {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CanAdminister проверяет, может ли пользователь менять админов и подписки
func (s *AccessService) CanAdminister(telegramID int64) bool {
	return telegramID == s.superAdminID
}

// CanInvoke проверяет, может ли пользователь нумеровать документы:
// админ, либо подписка с датой окончания не раньше сегодняшней
func (s *AccessService) CanInvoke(ctx context.Context, telegramID int64) (bool, error) {
	if s.IsAdmin(telegramID) {
		return true, nil
	}

	sub, err := s.GetSubscription(ctx, telegramID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}

	return sub.IsActiveOn(s.Today()), nil
}

// GetSubscription получает подписку пользователя, nil если её нет
func (s *AccessService) GetSubscription(ctx context.Context, telegramID int64) (*model.Subscription, error) {
	subs, err := s.store.LoadSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	expiresOn, ok := subs[telegramID]
	if !ok {
		return nil, nil
	}

	return &model.Subscription{UserID: telegramID, ExpiresOn: expiresOn}, nil
}

// AddAdmin добавляет админа. Только для главного админа
func (s *AccessService) AddAdmin(ctx context.Context, callerID, telegramID int64) error {
	if !s.CanAdminister(callerID) {
		return ErrUnauthorized
	}
	if telegramID == s.superAdminID {
		return ErrAlreadyAdmin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[telegramID]; ok {
		return ErrAlreadyAdmin
	}

	// Сначала хранилище: при ошибке записи кэш остаётся прежним
	if err := s.store.AppendAdmin(ctx, telegramID); err != nil {
		return fmt.Errorf("append admin: %w", err)
	}
	s.admins[telegramID] = struct{}{}

	s.logger.Info("Admin added",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("by", callerID))
	return nil
}

// RemoveAdmin удаляет админа. Только для главного админа
func (s *AccessService) RemoveAdmin(ctx context.Context, callerID, telegramID int64) error {
	if !s.CanAdminister(callerID) {
		return ErrUnauthorized
	}
	if telegramID == s.superAdminID {
		return ErrSuperAdminImmutable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[telegramID]; !ok {
		return ErrNotAdmin
	}

	if err := s.store.RemoveAdmin(ctx, telegramID); err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	delete(s.admins, telegramID)

	s.logger.Info("Admin removed",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("by", callerID))
	return nil
}

// Subscribe выдаёт или продлевает подписку до указанной даты включительно.
// Повторный вызов перезаписывает дату
func (s *AccessService) Subscribe(ctx context.Context, callerID, telegramID int64, expiresOn time.Time) (*model.Subscription, error) {
	if !s.CanAdminister(callerID) {
		return nil, ErrUnauthorized
	}

	expiresOn = time.Date(expiresOn.Year(), expiresOn.Month(), expiresOn.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.store.SaveSubscription(ctx, telegramID, expiresOn); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	s.logger.Info("Subscription granted",
		zap.Int64("telegram_id", telegramID),
		zap.String("expires_on", model.FormatDate(expiresOn)),
		zap.Int64("by", callerID))

	return &model.Subscription{UserID: telegramID, ExpiresOn: expiresOn}, nil
}
