package repository

import (
	"github.com/khaiwen/Loris/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	FindBySlug(slug string) (*model.Course, error)
	// FindBySlugWithTopics returns the course with its topics preloaded in
	// declaration (position) order.
	FindBySlugWithTopics(slug string) (*model.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	// GORM creates the CourseTopic rows when course.Topics is populated.
	return r.db.Create(course).Error
}

func (r *courseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	if err := r.db.Where("slug = ?", slug).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindBySlugWithTopics(slug string) (*model.Course, error) {
	var course model.Course
	err := r.db.
		Preload("Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_topics.position ASC")
		}).
		Preload("Topics.Topic").
		Where("slug = ?", slug).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}
