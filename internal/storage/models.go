package storage

import "time"

type Submission struct {
	ID              int64      `gorm:"primaryKey;autoIncrement"`
	ActionType      ActionType `gorm:"index;not null"`
	RaffleID        *uint64    `gorm:"index"` // unset for create_raffle
	Calls           string     `gorm:"not null"`
	TransactionHash string     `gorm:"index"`
	ExplorerURL     string
	Status          SubmissionStatus `gorm:"index;not null;default:pending"`
	Error           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
