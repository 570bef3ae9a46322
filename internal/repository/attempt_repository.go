package repository

import (
	"time"

	"github.com/khaiwen/Loris/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	// CreateConsuming inserts the attempt and marks its question instance as
	// no longer answerable in the same transaction. The unique index on
	// question_instance_id rejects a second attempt against the same
	// instance.
	CreateConsuming(attempt *model.Attempt) error
	FindAllByUser(userID uint) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) CreateConsuming(attempt *model.Attempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		return tx.Model(&model.QuestionInstance{}).
			Where("id = ? AND superseded_at IS NULL", attempt.QuestionInstanceID).
			Update("superseded_at", time.Now()).Error
	})
}

func (r *attemptRepository) FindAllByUser(userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Preload("QuestionInstance").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
