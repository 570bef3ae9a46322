package repository

import (
	"errors"

	"github.com/khaiwen/Loris/internal/model"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a versioned mastery update lost its
// base state to a concurrent writer. Callers retry with a fresh read.
var ErrVersionConflict = errors.New("mastery record was modified concurrently")

type MasteryRepository interface {
	Create(mastery *model.Mastery) error
	FindByUserAndTopic(userID, topicID uint) (*model.Mastery, error)
	// FindByUserAndTopics returns the user's masteries for the given topics,
	// ordered by mastery level ascending.
	FindByUserAndTopics(userID uint, topicIDs []uint) ([]model.Mastery, error)
	// UpdateVersioned applies the mutable fields of m against the stored row
	// only if the stored version still matches m.Version. On success
	// m.Version is advanced; otherwise ErrVersionConflict is returned.
	UpdateVersioned(m *model.Mastery) error
}

type masteryRepository struct {
	db *gorm.DB
}

func NewMasteryRepository(db *gorm.DB) MasteryRepository {
	return &masteryRepository{db: db}
}

func (r *masteryRepository) Create(mastery *model.Mastery) error {
	return r.db.Create(mastery).Error
}

func (r *masteryRepository) FindByUserAndTopic(userID, topicID uint) (*model.Mastery, error) {
	var mastery model.Mastery
	err := r.db.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&mastery).Error
	if err != nil {
		return nil, err
	}
	return &mastery, nil
}

func (r *masteryRepository) FindByUserAndTopics(userID uint, topicIDs []uint) ([]model.Mastery, error) {
	var masteries []model.Mastery
	err := r.db.
		Where("user_id = ? AND topic_id IN ?", userID, topicIDs).
		Order("level ASC").
		Find(&masteries).Error
	if err != nil {
		return nil, err
	}
	return masteries, nil
}

func (r *masteryRepository) UpdateVersioned(m *model.Mastery) error {
	res := r.db.Model(&model.Mastery{}).
		Where("id = ? AND version = ?", m.ID, m.Version).
		Updates(map[string]interface{}{
			"level":             m.Level,
			"error_meter":       m.ErrorMeter,
			"flagged":           m.Flagged,
			"last_flagged_at":   m.LastFlaggedAt,
			"weekly_level":      m.WeeklyLevel,
			"fortnightly_level": m.FortnightlyLevel,
			"last_active_at":    m.LastActiveAt,
			"version":           m.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	m.Version++
	return nil
}
