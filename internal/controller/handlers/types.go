package handlers

import (
	"context"

	"github.com/Freeeeeet/pdfnumber_bot/internal/numbering"
	"github.com/Freeeeeet/pdfnumber_bot/internal/service"
	"go.uber.org/zap"
)

// Messenger - исходящая сторона транспорта
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileName string, data []byte) error
	DownloadFile(ctx context.Context, fileID string, maxSize int64) ([]byte, error)
}

// Command - уже разобранная команда от пользователя
type Command struct {
	RequestID string
	CallerID  int64
	ChatID    int64
	Name      string
	Args      []string
}

// DocumentUpload - входящий документ; содержимое скачивается только после проверки доступа
type DocumentUpload struct {
	RequestID string
	CallerID  int64
	ChatID    int64
	FileID    string
	FileName  string
	MimeType  string
	FileSize  int64
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	accessService   *service.AccessService
	numberer        *numbering.Numberer
	messenger       Messenger
	maxDocumentSize int64
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	accessService *service.AccessService,
	numberer *numbering.Numberer,
	messenger Messenger,
	maxDocumentSize int64,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		accessService:   accessService,
		numberer:        numberer,
		messenger:       messenger,
		maxDocumentSize: maxDocumentSize,
		logger:          logger,
	}
}
