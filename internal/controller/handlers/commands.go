package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/pdfnumber_bot/internal/model"
	"github.com/Freeeeeet/pdfnumber_bot/internal/service"
	"go.uber.org/zap"
)

// Имена поддерживаемых команд
const (
	CommandStart       = "start"
	CommandAddAdmin    = "addadmin"
	CommandRemoveAdmin = "removeadmin"
	CommandSubscribe   = "subscribe"
)

// HandleCommand направляет команду в нужный обработчик.
// Неизвестные команды молча игнорируются
func (h *Handlers) HandleCommand(ctx context.Context, cmd Command) {
	h.logger.Info("Command received",
		zap.String("request_id", cmd.RequestID),
		zap.String("command", cmd.Name),
		zap.Int64("telegram_id", cmd.CallerID))

	switch cmd.Name {
	case CommandStart:
		h.handleStart(ctx, cmd)
	case CommandAddAdmin:
		h.handleAddAdmin(ctx, cmd)
	case CommandRemoveAdmin:
		h.handleRemoveAdmin(ctx, cmd)
	case CommandSubscribe:
		h.handleSubscribe(ctx, cmd)
	default:
		h.logger.Debug("Unknown command ignored",
			zap.String("request_id", cmd.RequestID),
			zap.String("command", cmd.Name))
	}
}

// handleStart обрабатывает команду /start
func (h *Handlers) handleStart(ctx context.Context, cmd Command) {
	allowed, err := h.accessService.CanInvoke(ctx, cmd.CallerID)
	if err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	if !allowed {
		h.sendMessage(ctx, cmd.ChatID, textAccessDenied)
		return
	}

	text := textWelcome
	if h.accessService.CanAdminister(cmd.CallerID) {
		text += textAdminCommands
	}
	h.sendMessage(ctx, cmd.ChatID, text)
}

// handleAddAdmin обрабатывает команду /addadmin <id>
func (h *Handlers) handleAddAdmin(ctx context.Context, cmd Command) {
	if !h.accessService.CanAdminister(cmd.CallerID) {
		h.sendError(ctx, cmd, service.ErrUnauthorized)
		return
	}
	if len(cmd.Args) < 1 {
		h.sendMessage(ctx, cmd.ChatID, usageAddAdmin)
		return
	}

	telegramID, err := parseTelegramID(cmd.Args[0])
	if err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	if err := h.accessService.AddAdmin(ctx, cmd.CallerID, telegramID); err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("✅ Админ добавлен: %d", telegramID))
}

// handleRemoveAdmin обрабатывает команду /removeadmin <id>
func (h *Handlers) handleRemoveAdmin(ctx context.Context, cmd Command) {
	if !h.accessService.CanAdminister(cmd.CallerID) {
		h.sendError(ctx, cmd, service.ErrUnauthorized)
		return
	}
	if len(cmd.Args) < 1 {
		h.sendMessage(ctx, cmd.ChatID, usageRemoveAdmin)
		return
	}

	telegramID, err := parseTelegramID(cmd.Args[0])
	if err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	if err := h.accessService.RemoveAdmin(ctx, cmd.CallerID, telegramID); err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("❌ Админ удалён: %d", telegramID))
}

// handleSubscribe обрабатывает команду /subscribe <id> <YYYY-MM-DD>
func (h *Handlers) handleSubscribe(ctx context.Context, cmd Command) {
	if !h.accessService.CanAdminister(cmd.CallerID) {
		h.sendError(ctx, cmd, service.ErrUnauthorized)
		return
	}
	if len(cmd.Args) < 2 {
		h.sendMessage(ctx, cmd.ChatID, usageSubscribe)
		return
	}

	telegramID, idErr := parseTelegramID(cmd.Args[0])
	expiresOn, dateErr := parseExpiry(cmd.Args[1])
	if err := errors.Join(idErr, dateErr); err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	sub, err := h.accessService.Subscribe(ctx, cmd.CallerID, telegramID, expiresOn)
	if err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	expires := model.FormatDate(sub.ExpiresOn)
	reply := fmt.Sprintf("✅ Подписка выдана: %d (до %s)", sub.UserID, expires)

	// Подписка уже сохранена, поэтому ошибка доставки только логируется
	notice := fmt.Sprintf("✅ Вам выдана подписка. Дата окончания: %s", expires)
	if err := h.messenger.SendText(ctx, sub.UserID, notice); err != nil {
		h.logger.Warn("Failed to notify subscriber",
			zap.String("request_id", cmd.RequestID),
			zap.Int64("telegram_id", sub.UserID),
			zap.Error(err))
		reply += "\n⚠️ Пользователь не получил уведомление (бот не запущен у пользователя?)"
	}

	h.sendMessage(ctx, cmd.ChatID, reply)
}
