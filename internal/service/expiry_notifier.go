package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/pdfnumber_bot/internal/model"
	"github.com/Freeeeeet/pdfnumber_bot/internal/repository"
	"go.uber.org/zap"
)

// ExpiryWarningText отправляется подписчикам за день до окончания подписки
const ExpiryWarningText = "⚠️ До окончания подписки остался 1 день. Пожалуйста, свяжитесь с администратором."

// TextSender отправляет текстовое сообщение пользователю
type TextSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// ExpiryNotifier предупреждает подписчиков, у которых остался ровно один день
type ExpiryNotifier struct {
	store    repository.AccessStore
	sender   TextSender
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewExpiryNotifier создаёт новый notifier. now == nil означает time.Now
func NewExpiryNotifier(
	store repository.AccessStore,
	sender TextSender,
	location *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *ExpiryNotifier {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &ExpiryNotifier{
		store:    store,
		sender:   sender,
		location: location,
		now:      now,
		logger:   logger,
	}
}

// NotifyExpiring делает один проход по таблице подписок и возвращает
// количество успешно доставленных предупреждений. Ошибка доставки одному
// получателю не прерывает проход
func (n *ExpiryNotifier) NotifyExpiring(ctx context.Context) (int, error) {
	subs, err := n.store.LoadSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load subscriptions: %w", err)
	}

	today := model.DateOf(n.now(), n.location)

	var expiring []int64
	for id, expiresOn := range subs {
		sub := model.Subscription{UserID: id, ExpiresOn: expiresOn}
		if sub.DaysRemaining(today) == 1 {
			expiring = append(expiring, id)
		}
	}
	slices.Sort(expiring)

	sent := 0
	for _, id := range expiring {
		if err := n.sender.SendText(ctx, id, ExpiryWarningText); err != nil {
			n.logger.Warn("Failed to deliver expiry warning",
				zap.Int64("telegram_id", id),
				zap.Error(err))
			continue
		}
		sent++
	}

	n.logger.Info("Expiry scan completed",
		zap.String("today", model.FormatDate(today)),
		zap.Int("expiring", len(expiring)),
		zap.Int("sent", sent))

	return sent, nil
}
