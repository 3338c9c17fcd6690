package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/pdfnumber_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore - реализация AccessStore поверх PostgreSQL.
// Подписка пишется одним UPSERT, поэтому read-modify-write всей таблицы не нужен.
type PostgresStore struct {
	*base.Repository
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Repository: base.NewRepository(pool)}
}

// LoadAdmins получает всех админов в порядке добавления
func (r *PostgresStore) LoadAdmins(ctx context.Context) ([]int64, error) {
	query := `
		SELECT telegram_id
		FROM bot_admins
		ORDER BY added_at, telegram_id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, storageError("load admins", err)
	}
	defer rows.Close()

	var admins []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageError("scan admin", err)
		}
		admins = append(admins, id)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("iterate admins", err)
	}

	return admins, nil
}

// AppendAdmin добавляет админа
func (r *PostgresStore) AppendAdmin(ctx context.Context, telegramID int64) error {
	query := `
		INSERT INTO bot_admins (telegram_id)
		VALUES ($1)
		ON CONFLICT (telegram_id) DO NOTHING
	`

	if _, err := r.ExecAffected(ctx, query, telegramID); err != nil {
		return storageError("append admin", err)
	}
	return nil
}

// RemoveAdmin удаляет админа
func (r *PostgresStore) RemoveAdmin(ctx context.Context, telegramID int64) error {
	query := `
		DELETE FROM bot_admins
		WHERE telegram_id = $1
	`

	if _, err := r.ExecAffected(ctx, query, telegramID); err != nil {
		return storageError("remove admin", err)
	}
	return nil
}

// LoadSubscriptions получает все подписки, включая истёкшие
func (r *PostgresStore) LoadSubscriptions(ctx context.Context) (map[int64]time.Time, error) {
	query := `
		SELECT telegram_id, expires_on
		FROM bot_subscriptions
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, storageError("load subscriptions", err)
	}
	defer rows.Close()

	subs := make(map[int64]time.Time)
	for rows.Next() {
		var (
			id        int64
			expiresOn time.Time
		)
		if err := rows.Scan(&id, &expiresOn); err != nil {
			return nil, storageError("scan subscription", err)
		}
		subs[id] = time.Date(expiresOn.Year(), expiresOn.Month(), expiresOn.Day(), 0, 0, 0, 0, time.UTC)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("iterate subscriptions", err)
	}

	return subs, nil
}

// SaveSubscription создаёт или перезаписывает подписку (last write wins)
func (r *PostgresStore) SaveSubscription(ctx context.Context, telegramID int64, expiresOn time.Time) error {
	query := `
		INSERT INTO bot_subscriptions (telegram_id, expires_on)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE
		SET expires_on = EXCLUDED.expires_on, updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, telegramID, expiresOn); err != nil {
		return storageError("save subscription", err)
	}
	return nil
}
