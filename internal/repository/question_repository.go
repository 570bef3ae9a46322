package repository

import (
	"fmt"

	"github.com/khaiwen/Loris/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	// Create inserts the question with its variables, methods and options.
	// A zero GroupID means "start a new group": the group id is set to the
	// question's own id in the same transaction.
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	// FindDynamicByGroup returns the variation-0 question of a group, if any.
	FindDynamicByGroup(groupID uint) (*model.Question, error)
	// ExistingVariationIDs lists the variation ids already used in a group,
	// ascending. Used for gap-filling when a new static variation is created.
	ExistingVariationIDs(groupID uint) ([]int, error)
	// FindUnattemptedByTopic returns questions of a topic the user has never
	// attempted in the course, excluding the given question ids, in stable
	// id order.
	FindUnattemptedByTopic(topicID, userID, courseID uint, excludedIDs []uint) ([]model.Question, error)
	// FindLeastRecentlyServedByTopic returns all eligible questions of a
	// topic ordered so that never-served questions come first, then by the
	// time each question was last materialized for this user and course.
	FindLeastRecentlyServedByTopic(topicID, userID, courseID uint, excludedIDs []uint) ([]model.Question, error)
	FindAllByTopic(topicID uint) ([]model.Question, error)
	// Delete retires a question (soft delete). Existing instances and
	// attempts keep their history; the question stops being recommended.
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		if question.GroupID == 0 {
			question.GroupID = question.ID
			if err := tx.Model(question).Update("group_id", question.ID).Error; err != nil {
				return fmt.Errorf("failed to assign question group id: %w", err)
			}
		}
		return nil
	})
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.
		Preload("Variables", orderByPosition).
		Preload("Methods", orderByPosition).
		Preload("Options", orderByPosition).
		Preload("Topic").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindDynamicByGroup(groupID uint) (*model.Question, error) {
	var question model.Question
	err := r.db.
		Where("group_id = ? AND variation_id = ?", groupID, model.DynamicVariationID).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) ExistingVariationIDs(groupID uint) ([]int, error) {
	var ids []int
	err := r.db.Model(&model.Question{}).
		Where("group_id = ?", groupID).
		Order("variation_id ASC").
		Pluck("variation_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *questionRepository) FindUnattemptedByTopic(topicID, userID, courseID uint, excludedIDs []uint) ([]model.Question, error) {
	attempted := r.db.Table("attempts").
		Select("1").
		Joins("JOIN question_instances ON question_instances.id = attempts.question_instance_id").
		Where("question_instances.user_id = ? AND question_instances.course_id = ?", userID, courseID).
		Where("question_instances.question_id = questions.id")

	query := r.db.
		Preload("Variables", orderByPosition).
		Preload("Methods", orderByPosition).
		Preload("Options", orderByPosition).
		Where("questions.topic_id = ?", topicID).
		Where("NOT EXISTS (?)", attempted)
	if len(excludedIDs) > 0 {
		query = query.Where("questions.id NOT IN ?", excludedIDs)
	}

	var questions []model.Question
	if err := query.Order("questions.id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindLeastRecentlyServedByTopic(topicID, userID, courseID uint, excludedIDs []uint) ([]model.Question, error) {
	query := r.db.
		Preload("Variables", orderByPosition).
		Preload("Methods", orderByPosition).
		Preload("Options", orderByPosition).
		Joins(`LEFT JOIN (
			SELECT question_id, MAX(created_at) AS last_served
			FROM question_instances
			WHERE user_id = ? AND course_id = ?
			GROUP BY question_id
		) served ON served.question_id = questions.id`, userID, courseID).
		Where("questions.topic_id = ?", topicID)
	if len(excludedIDs) > 0 {
		query = query.Where("questions.id NOT IN ?", excludedIDs)
	}

	var questions []model.Question
	err := query.
		Order("served.last_served ASC NULLS FIRST").
		Order("questions.id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindAllByTopic(topicID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Where("topic_id = ?", topicID).
		Order("group_id ASC").
		Order("variation_id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Question{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
