package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStorageIO оборачивает любые ошибки чтения/записи хранилища
	ErrStorageIO = errors.New("storage i/o error")
	// ErrMalformedRecord возвращается при повреждённой строке таблицы
	ErrMalformedRecord = errors.New("malformed record")
)

// AccessStore хранит список админов и даты окончания подписок
type AccessStore interface {
	// LoadAdmins читает всех админов; отсутствующее хранилище даёт пустой список
	LoadAdmins(ctx context.Context) ([]int64, error)
	// AppendAdmin добавляет админа в хранилище (кэш обновляет вызывающий)
	AppendAdmin(ctx context.Context, telegramID int64) error
	// RemoveAdmin удаляет админа из хранилища
	RemoveAdmin(ctx context.Context, telegramID int64) error
	// LoadSubscriptions читает все подписки: telegramID -> дата окончания
	LoadSubscriptions(ctx context.Context) (map[int64]time.Time, error)
	// SaveSubscription создаёт или перезаписывает подписку
	SaveSubscription(ctx context.Context, telegramID int64, expiresOn time.Time) error
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageIO, err)
}
