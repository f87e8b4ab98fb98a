package storage

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BackupScheduler takes periodic backups and prunes old ones.
type BackupScheduler struct {
	manager  *BackupManager
	interval time.Duration
	keep     int
	logger   *zap.Logger

	mu           sync.RWMutex
	lastBackup   time.Time
	lastError    error
	backupCount  int
	failureCount int
}

// SchedulerStatus is a snapshot of scheduler activity.
type SchedulerStatus struct {
	LastBackup   time.Time `json:"lastBackup"`
	LastError    string    `json:"lastError,omitempty"`
	BackupCount  int       `json:"backupCount"`
	FailureCount int       `json:"failureCount"`
}

// NewBackupScheduler creates a scheduler backing up every interval and
// keeping the newest keep backups (0 keeps all).
func NewBackupScheduler(manager *BackupManager, interval time.Duration, keep int, logger *zap.Logger) *BackupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupScheduler{
		manager:  manager,
		interval: interval,
		keep:     keep,
		logger:   logger.Named("backup"),
	}
}

// Run backs up on every tick until ctx is done.
func (s *BackupScheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("backup interval must be positive: %v", s.interval)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce takes one backup and prunes. Failures are recorded, not returned.
func (s *BackupScheduler) RunOnce(ctx context.Context) {
	info, err := s.manager.Backup(ctx, "")
	if err == nil {
		err = s.prune()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
	if err != nil {
		s.failureCount++
		s.logger.Warn("scheduled backup failed", zap.Error(err))
		return
	}
	s.backupCount++
	s.lastBackup = info.ModTime
	s.logger.Info("scheduled backup written", zap.String("path", info.Path))
}

func (s *BackupScheduler) prune() error {
	if s.keep <= 0 {
		return nil
	}
	backups, err := s.manager.List()
	if err != nil {
		return err
	}
	for _, b := range backups[min(s.keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to prune backup: %w", err)
		}
	}
	return nil
}

// Status returns the scheduler's activity so far.
func (s *BackupScheduler) Status() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{
		LastBackup:   s.lastBackup,
		BackupCount:  s.backupCount,
		FailureCount: s.failureCount,
	}
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}
	return status
}
