package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/pdfnumber_bot/internal/numbering"
	"go.uber.org/zap"
)

// PDFMimeType - единственный принимаемый тип документа
const PDFMimeType = "application/pdf"

// HandleDocument проверяет доступ, скачивает PDF, нумерует страницы и отправляет результат
func (h *Handlers) HandleDocument(ctx context.Context, doc DocumentUpload) {
	cmd := Command{RequestID: doc.RequestID, CallerID: doc.CallerID, ChatID: doc.ChatID, Name: "document"}

	allowed, err := h.accessService.CanInvoke(ctx, doc.CallerID)
	if err != nil {
		h.sendError(ctx, cmd, err)
		return
	}
	if !allowed {
		h.logger.Info("Document from unauthorized user",
			zap.String("request_id", doc.RequestID),
			zap.Int64("telegram_id", doc.CallerID))
		h.sendMessage(ctx, doc.ChatID, textAccessDenied)
		return
	}

	if !strings.EqualFold(doc.MimeType, PDFMimeType) {
		h.sendMessage(ctx, doc.ChatID, textOnlyPDF)
		return
	}

	if h.maxDocumentSize > 0 && doc.FileSize > h.maxDocumentSize {
		h.sendMessage(ctx, doc.ChatID, textDocumentTooBig)
		return
	}

	data, err := h.messenger.DownloadFile(ctx, doc.FileID, h.maxDocumentSize)
	if err != nil {
		h.logger.Error("Failed to download document",
			zap.String("request_id", doc.RequestID),
			zap.String("file_id", doc.FileID),
			zap.Error(err))
		h.sendMessage(ctx, doc.ChatID, textDownloadFailed)
		return
	}

	numbered, err := h.numberer.NumberPages(data)
	if err != nil {
		h.sendError(ctx, cmd, err)
		return
	}

	if err := h.messenger.SendDocument(ctx, doc.ChatID, numbering.OutputFileName, numbered); err != nil {
		h.logger.Error("Failed to send numbered document",
			zap.String("request_id", doc.RequestID),
			zap.Int64("chat_id", doc.ChatID),
			zap.Error(err))
		return
	}

	h.logger.Info("Document numbered",
		zap.String("request_id", doc.RequestID),
		zap.Int64("telegram_id", doc.CallerID),
		zap.String("file_name", doc.FileName),
		zap.Int("input_bytes", len(data)),
		zap.Int("output_bytes", len(numbered)))
}
