package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/pdfnumber_bot/internal/model"
	"github.com/Freeeeeet/pdfnumber_bot/internal/service"
	"go.uber.org/zap"
)

// parseTelegramID разбирает числовой ID пользователя
func parseTelegramID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: telegram id %q", service.ErrInvalidArgument, value)
	}
	return id, nil
}

// parseExpiry разбирает дату в формате YYYY-MM-DD
func parseExpiry(value string) (time.Time, error) {
	date, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", service.ErrInvalidArgument, value)
	}
	return date, nil
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.messenger.SendText(ctx, chatID, text); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError логирует ошибку и отправляет пользователю понятное сообщение
func (h *Handlers) sendError(ctx context.Context, cmd Command, err error) {
	h.logger.Warn("Command failed",
		zap.String("request_id", cmd.RequestID),
		zap.String("command", cmd.Name),
		zap.Int64("telegram_id", cmd.CallerID),
		zap.Error(err),
	)
	h.sendMessage(ctx, cmd.ChatID, ErrorMessage(err))
}
