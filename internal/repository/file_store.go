package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/pdfnumber_bot/internal/model"
	"go.uber.org/zap"
)

// MalformedPolicy определяет реакцию на повреждённую строку таблицы
type MalformedPolicy string

const (
	MalformedFail MalformedPolicy = "fail"
	MalformedSkip MalformedPolicy = "skip"
)

// FileStore хранит таблицы в плоских текстовых файлах:
// admins - по одному ID на строку, subscriptions - "<id>,<YYYY-MM-DD>"
type FileStore struct {
	adminsPath        string
	subscriptionsPath string
	policy            MalformedPolicy
	logger            *zap.Logger

	adminsMu        sync.Mutex
	subscriptionsMu sync.Mutex
}

// NewFileStore создаёт файловое хранилище
func NewFileStore(adminsPath, subscriptionsPath string, policy MalformedPolicy, logger *zap.Logger) *FileStore {
	if policy == "" {
		policy = MalformedFail
	}
	return &FileStore{
		adminsPath:        adminsPath,
		subscriptionsPath: subscriptionsPath,
		policy:            policy,
		logger:            logger,
	}
}

// LoadAdmins читает таблицу админов
func (s *FileStore) LoadAdmins(ctx context.Context) ([]int64, error) {
	s.adminsMu.Lock()
	defer s.adminsMu.Unlock()

	return s.readAdmins()
}

// AppendAdmin дописывает админа в конец таблицы
func (s *FileStore) AppendAdmin(ctx context.Context, telegramID int64) error {
	s.adminsMu.Lock()
	defer s.adminsMu.Unlock()

	admins, err := s.readAdmins()
	if err != nil {
		return err
	}
	if slices.Contains(admins, telegramID) {
		return nil
	}

	return s.writeAdmins(append(admins, telegramID))
}

// RemoveAdmin перезаписывает таблицу без указанного админа
func (s *FileStore) RemoveAdmin(ctx context.Context, telegramID int64) error {
	s.adminsMu.Lock()
	defer s.adminsMu.Unlock()

	admins, err := s.readAdmins()
	if err != nil {
		return err
	}

	return s.writeAdmins(slices.DeleteFunc(admins, func(id int64) bool {
		return id == telegramID
	}))
}

// LoadSubscriptions читает таблицу подписок; файл перечитывается на каждый вызов
func (s *FileStore) LoadSubscriptions(ctx context.Context) (map[int64]time.Time, error) {
	s.subscriptionsMu.Lock()
	defer s.subscriptionsMu.Unlock()

	return s.readSubscriptions()
}

// SaveSubscription делает read-modify-write всей таблицы подписок
func (s *FileStore) SaveSubscription(ctx context.Context, telegramID int64, expiresOn time.Time) error {
	s.subscriptionsMu.Lock()
	defer s.subscriptionsMu.Unlock()

	subs, err := s.readSubscriptions()
	if err != nil {
		return err
	}
	subs[telegramID] = expiresOn

	ids := make([]int64, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var buf bytes.Buffer
	for _, id := range ids {
		fmt.Fprintf(&buf, "%d,%s\n", id, model.FormatDate(subs[id]))
	}

	if err := writeFileAtomic(s.subscriptionsPath, buf.Bytes()); err != nil {
		return storageError("write subscriptions", err)
	}
	return nil
}

func (s *FileStore) readAdmins() ([]int64, error) {
	var admins []int64
	err := s.scanLines(s.adminsPath, func(line string) error {
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return err
		}
		if !slices.Contains(admins, id) {
			admins = append(admins, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (s *FileStore) writeAdmins(admins []int64) error {
	var buf bytes.Buffer
	for _, id := range admins {
		fmt.Fprintf(&buf, "%d\n", id)
	}
	if err := writeFileAtomic(s.adminsPath, buf.Bytes()); err != nil {
		return storageError("write admins", err)
	}
	return nil
}

func (s *FileStore) readSubscriptions() (map[int64]time.Time, error) {
	subs := make(map[int64]time.Time)
	err := s.scanLines(s.subscriptionsPath, func(line string) error {
		idPart, datePart, ok := strings.Cut(line, ",")
		if !ok {
			return errors.New("missing comma")
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
		if err != nil {
			return err
		}
		date, err := model.ParseDate(strings.TrimSpace(datePart))
		if err != nil {
			return err
		}
		subs[id] = date
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// scanLines вызывает parse для каждой непустой строки файла.
// Отсутствующий файл - это пустая таблица.
func (s *FileStore) scanLines(path string, parse func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return storageError("open "+filepath.Base(path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := parse(line); err != nil {
			if s.policy == MalformedSkip {
				s.logger.Warn("Skipping malformed line",
					zap.String("path", path),
					zap.Int("line", lineNo),
					zap.Error(err))
				continue
			}
			return fmt.Errorf("%s line %d: %w: %v", filepath.Base(path), lineNo, ErrMalformedRecord, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return storageError("read "+filepath.Base(path), err)
	}
	return nil
}

// writeFileAtomic пишет во временный файл рядом, делает fsync и rename,
// так что читатели никогда не видят недописанную таблицу
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
