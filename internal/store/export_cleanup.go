package store

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/pkg/logger"
)

const (
	// DefaultExportRetentionDays is the default number of days to retain export records
	DefaultExportRetentionDays = 30
	// ExportCleanupSchedule is the cron schedule for export record cleanup (daily at 2 AM)
	ExportCleanupSchedule = "0 2 * * *"
)

// ExportCleanupService manages periodic cleanup of old export records
type ExportCleanupService struct {
	store         ExportStore
	cron          *cron.Cron
	retentionDays int
	entryID       cron.EntryID
	mu            sync.RWMutex
}

// NewExportCleanupService creates a new export record cleanup service
func NewExportCleanupService(store ExportStore, retentionDays int) *ExportCleanupService {
	if retentionDays <= 0 {
		retentionDays = DefaultExportRetentionDays
	}

	return &ExportCleanupService{
		store:         store,
		cron:          cron.New(),
		retentionDays: retentionDays,
	}
}

// Start starts the cleanup service with scheduled cleanup tasks
func (s *ExportCleanupService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(ExportCleanupSchedule, s.cleanup)
	if err != nil {
		logger.Error("Failed to schedule export record cleanup", zap.Error(err))
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	logger.Info("Export record cleanup service started",
		zap.String("schedule", ExportCleanupSchedule),
		zap.Int("retention_days", s.retentionDays),
	)

	// Run initial cleanup immediately (non-blocking)
	go s.cleanup()

	return nil
}

// Stop stops the cleanup service gracefully
func (s *ExportCleanupService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		logger.Info("Stopping export record cleanup service")
		ctx := s.cron.Stop()
		<-ctx.Done()
		logger.Info("Export record cleanup service stopped")
	}
}

// cleanup deletes export records older than the retention window
func (s *ExportCleanupService) cleanup() {
	s.mu.RLock()
	retentionDays := s.retentionDays
	s.mu.RUnlock()

	startTime := time.Now()
	cutoff := startTime.AddDate(0, 0, -retentionDays)

	deletedCount, err := s.store.DeleteOlderThan(cutoff)
	if err != nil {
		logger.Error("Failed to cleanup old export records",
			zap.Int("retention_days", retentionDays),
			zap.Error(err),
		)
		return
	}

	logger.Info("Export record cleanup completed",
		zap.Int64("deleted_count", deletedCount),
		zap.Int("retention_days", retentionDays),
		zap.Duration("duration", time.Since(startTime)),
	)
}

// SetRetentionDays updates the retention period (takes effect on next cleanup)
func (s *ExportCleanupService) SetRetentionDays(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if days <= 0 {
		days = DefaultExportRetentionDays
	}
	s.retentionDays = days
}
