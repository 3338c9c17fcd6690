package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// ParseCommand разбирает "/name@bot arg1 arg2" в имя команды и аргументы
func ParseCommand(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}

	return strings.ToLower(name), fields[1:], true
}

var knownCommands = map[string]struct{}{
	CommandStart:       {},
	CommandAddAdmin:    {},
	CommandRemoveAdmin: {},
	CommandSubscribe:   {},
}

// IsCommandUpdate - match-функция для текстовых команд бота.
// Имя команды сравнивается без учёта регистра
func IsCommandUpdate(update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	name, _, ok := ParseCommand(update.Message.Text)
	if !ok {
		return false
	}
	_, known := knownCommands[name]
	return known
}

// IsDocumentUpdate - match-функция для сообщений с документом
func IsDocumentUpdate(update *models.Update) bool {
	return update.Message != nil && update.Message.Document != nil && update.Message.From != nil
}

// HandleCommandUpdate - обработчик go-telegram/bot для текстовых команд
func (h *Handlers) HandleCommandUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	name, args, ok := ParseCommand(update.Message.Text)
	if !ok {
		return
	}

	h.HandleCommand(ctx, Command{
		RequestID: uuid.NewString(),
		CallerID:  update.Message.From.ID,
		ChatID:    update.Message.Chat.ID,
		Name:      name,
		Args:      args,
	})
}

// HandleDocumentUpdate - обработчик go-telegram/bot для документов
func (h *Handlers) HandleDocumentUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !IsDocumentUpdate(update) {
		return
	}

	doc := update.Message.Document
	h.HandleDocument(ctx, DocumentUpload{
		RequestID: uuid.NewString(),
		CallerID:  update.Message.From.ID,
		ChatID:    update.Message.Chat.ID,
		FileID:    doc.FileID,
		FileName:  doc.FileName,
		MimeType:  doc.MimeType,
		FileSize:  doc.FileSize,
	})
}
