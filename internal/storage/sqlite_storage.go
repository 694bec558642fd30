package storage

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"starkraffle/internal/logger"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SqliteStorage struct {
	db *gorm.DB
}

var _ Storage = (*SqliteStorage)(nil)

func NewSqliteStorage(path string) (*SqliteStorage, error) {
	logger.Debug("initializing journal database...", zap.String("path", path))

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Submission{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	logger.Debug("initializing journal database... done")
	return &SqliteStorage{
		db: db,
	}, nil
}

func (s *SqliteStorage) RecordSubmission(submission *Submission) error {
	logger.Debug("recording submission...", zap.String("action type", submission.ActionType))

	if submission.Status == "" {
		submission.Status = SubmissionPending
	}
	if err := s.db.Create(submission).Error; err != nil {
		return err
	}

	logger.Debug("recording submission... done", zap.Int64("id", submission.ID))
	return nil
}

// UpdateSubmission writes the outcome columns of an existing submission.
func (s *SqliteStorage) UpdateSubmission(submission *Submission) error {
	logger.Debug("updating submission...", zap.Int64("id", submission.ID), zap.String("status", submission.Status))

	if submission.ID == 0 {
		return fmt.Errorf("%w: submission has no id", ErrSubmissionNotFound)
	}
	submission.UpdatedAt = time.Now()

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"transaction_hash",
			"explorer_url",
			"status",
			"error",
			"updated_at",
		}),
	}).Create(submission).Error
	if err != nil {
		return err
	}

	logger.Debug("updating submission... done")
	return nil
}

func (s *SqliteStorage) GetSubmission(id int64) (*Submission, error) {
	var submission Submission
	err := s.db.First(&submission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrSubmissionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetSubmissions returns the latest submissions first. A limit below 1
// returns all of them.
func (s *SqliteStorage) GetSubmissions(limit int) ([]*Submission, error) {
	query := s.db.Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var submissions []*Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SqliteStorage) GetSubmissionsByRaffle(raffleID uint64) ([]*Submission, error) {
	var submissions []*Submission
	err := s.db.Where("raffle_id = ?", raffleID).Order("id").Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// GetPendingSubmissions lists batches that were sent but whose outcome was
// never recorded, for example because the process stopped while waiting.
func (s *SqliteStorage) GetPendingSubmissions() ([]*Submission, error) {
	logger.Debug("getting pending submissions...")

	var submissions []*Submission
	err := s.db.Where("status = ?", SubmissionPending).Order("id").Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	logger.Debug("getting pending submissions... done", zap.Int("count", len(submissions)))
	return submissions, nil
}

func (s *SqliteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
