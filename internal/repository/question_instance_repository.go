package repository

import (
	"time"

	"github.com/khaiwen/Loris/internal/model"
	"gorm.io/gorm"
)

type QuestionInstanceRepository interface {
	// CreateSuperseding inserts a new instance and, in the same transaction,
	// marks any still-answerable instance of the same user and course as
	// superseded. At most one answerable instance per (user, course) exists
	// after the call.
	CreateSuperseding(instance *model.QuestionInstance) error
	// FindAnswerableByToken returns the instance for a delivery token if it
	// has not been superseded or consumed yet.
	FindAnswerableByToken(token string) (*model.QuestionInstance, error)
}

type questionInstanceRepository struct {
	db *gorm.DB
}

func NewQuestionInstanceRepository(db *gorm.DB) QuestionInstanceRepository {
	return &questionInstanceRepository{db: db}
}

func (r *questionInstanceRepository) CreateSuperseding(instance *model.QuestionInstance) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Model(&model.QuestionInstance{}).
			Where("user_id = ? AND course_id = ? AND superseded_at IS NULL", instance.UserID, instance.CourseID).
			Update("superseded_at", now).Error
		if err != nil {
			return err
		}
		return tx.Create(instance).Error
	})
}

func (r *questionInstanceRepository) FindAnswerableByToken(token string) (*model.QuestionInstance, error) {
	var instance model.QuestionInstance
	err := r.db.
		Preload("Question").
		Preload("Question.Topic").
		Where("token = ? AND superseded_at IS NULL", token).
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}
