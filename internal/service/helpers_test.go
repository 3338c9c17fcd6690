package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/pdfnumber_bot/internal/repository"
)

// memoryStore - AccessStore в памяти для тестов
type memoryStore struct {
	mu        sync.Mutex
	admins    []int64
	subs      map[int64]time.Time
	failWrite bool
	failRead  bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{subs: make(map[int64]time.Time)}
}

var errDisk = errors.New("disk full")

func (m *memoryStore) LoadAdmins(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return nil, errors.Join(repository.ErrStorageIO, errDisk)
	}
	return append([]int64(nil), m.admins...), nil
}

func (m *memoryStore) AppendAdmin(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.Join(repository.ErrStorageIO, errDisk)
	}
	m.admins = append(m.admins, id)
	return nil
}

func (m *memoryStore) RemoveAdmin(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.Join(repository.ErrStorageIO, errDisk)
	}
	kept := m.admins[:0]
	for _, a := range m.admins {
		if a != id {
			kept = append(kept, a)
		}
	}
	m.admins = kept
	return nil
}

func (m *memoryStore) LoadSubscriptions(ctx context.Context) (map[int64]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return nil, errors.Join(repository.ErrStorageIO, errDisk)
	}
	out := make(map[int64]time.Time, len(m.subs))
	for k, v := range m.subs {
		out[k] = v
	}
	return out, nil
}

func (m *memoryStore) SaveSubscription(ctx context.Context, id int64, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.Join(repository.ErrStorageIO, errDisk)
	}
	m.subs[id] = date
	return nil
}

// fakeClock - управляемые тестом часы
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
