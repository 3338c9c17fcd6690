package handlers

import (
	"errors"

	"github.com/Freeeeeet/pdfnumber_bot/internal/numbering"
	"github.com/Freeeeeet/pdfnumber_bot/internal/service"
)

const (
	textWelcome        = "📎 Отправьте PDF файл - я пронумерую страницы и верну его."
	textAccessDenied   = "⛔ У вас нет доступа или срок подписки истёк."
	textOnlyPDF        = "❗ Отправляйте только PDF файлы."
	textDocumentTooBig = "❗ Файл слишком большой."
	textDownloadFailed = "❌ Не удалось скачать файл. Попробуйте ещё раз."

	usageAddAdmin    = "Укажите ID: /addadmin 123456789"
	usageRemoveAdmin = "Укажите ID: /removeadmin 123456789"
	usageSubscribe   = "Пример: /subscribe 123456789 2025-08-15"

	textAdminCommands = "\n\nКоманды главного администратора:\n" +
		"/addadmin <id> - добавить админа\n" +
		"/removeadmin <id> - удалить админа\n" +
		"/subscribe <id> <YYYY-MM-DD> - выдать подписку"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return "❗ Эта команда доступна только главному администратору."
	case errors.Is(err, service.ErrAlreadyAdmin):
		return "🔁 Этот пользователь уже админ."
	case errors.Is(err, service.ErrNotAdmin):
		return "⚠️ Этот пользователь не админ."
	case errors.Is(err, service.ErrSuperAdminImmutable):
		return "⚠️ Главного администратора удалить нельзя."
	case errors.Is(err, service.ErrInvalidArgument):
		return "⚠️ Неверный формат. ID - только цифры, дата - YYYY-MM-DD."
	case errors.Is(err, numbering.ErrDocumentParse):
		return "❗ Не удалось прочитать файл. Отправьте корректный PDF."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
