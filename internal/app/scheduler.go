package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpiryScanner делает один проход рассылки предупреждений
type ExpiryScanner interface {
	NotifyExpiring(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	scanner  ExpiryScanner
	interval time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(scanner ExpiryScanner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runExpiryTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runExpiryTask периодически предупреждает подписчиков об окончании подписки
func (s *Scheduler) runExpiryTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.notifyExpiring(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.notifyExpiring(ctx)
		case <-s.stopChan:
			s.logger.Info("Expiry notification task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Expiry notification task cancelled")
			return
		}
	}
}

// notifyExpiring делает один проход; ошибки логируются и не останавливают задачу
func (s *Scheduler) notifyExpiring(ctx context.Context) {
	sent, err := s.scanner.NotifyExpiring(ctx)
	if err != nil {
		s.logger.Error("Failed to notify expiring subscriptions", zap.Error(err))
		return
	}

	s.logger.Debug("Expiry notification pass completed", zap.Int("sent", sent))
}
