package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramMessenger отправляет сообщения и скачивает файлы через Bot API
type TelegramMessenger struct {
	bot        *bot.Bot
	httpClient *http.Client
}

// NewTelegramMessenger создаёт мессенджер поверх экземпляра бота
func NewTelegramMessenger(b *bot.Bot, httpClient *http.Client) *TelegramMessenger {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TelegramMessenger{bot: b, httpClient: httpClient}
}

// SendText отправляет текстовое сообщение
func (m *TelegramMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := m.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendDocument отправляет файл
func (m *TelegramMessenger) SendDocument(ctx context.Context, chatID int64, fileName string, data []byte) error {
	_, err := m.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: fileName,
			Data:     bytes.NewReader(data),
		},
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// DownloadFile скачивает файл по file_id. maxSize <= 0 отключает ограничение
func (m *TelegramMessenger) DownloadFile(ctx context.Context, fileID string, maxSize int64) ([]byte, error) {
	file, err := m.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.bot.FileDownloadLink(file), nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if maxSize > 0 {
		body = io.LimitReader(resp.Body, maxSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("download file: larger than %d bytes", maxSize)
	}

	return data, nil
}
