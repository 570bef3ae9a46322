package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/model"
	"github.com/khaiwen/Loris/internal/repository"
	"github.com/rs/zerolog/log"
)

// ContentService covers topic and course authoring.
type ContentService interface {
	CreateTopic(req dto.CreateTopicRequest) (*dto.TopicResponse, error)
	CreateCourse(req dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(slug string) (*dto.CourseResponse, error)
}

type contentService struct {
	topicRepo  repository.TopicRepository
	courseRepo repository.CourseRepository
}

func NewContentService(topicRepo repository.TopicRepository, courseRepo repository.CourseRepository) ContentService {
	return &contentService{topicRepo: topicRepo, courseRepo: courseRepo}
}

func (s *contentService) CreateTopic(req dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	topic := model.Topic{
		Slug:  req.Slug,
		Name:  req.Name,
		Level: req.Level,
		Prior: model.DefaultPrior,
	}
	if req.Prior != nil {
		topic.Prior = *req.Prior
	}

	if err := s.topicRepo.Create(&topic); err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to create topic")
		return nil, err
	}

	var resp dto.TopicResponse
	copier.Copy(&resp, &topic)
	return &resp, nil
}

func (s *contentService) CreateCourse(req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := model.Course{
		Slug: req.Slug,
		Name: req.Name,
	}
	// TopicSlugs order is the course declaration order used for mastery
	// tie-breaking, so positions follow the request order exactly.
	for i, slug := range req.TopicSlugs {
		topic, err := s.topicRepo.FindBySlug(slug)
		if err != nil {
			return nil, fmt.Errorf("topic not found with slug %q: %w", slug, err)
		}
		course.Topics = append(course.Topics, model.CourseTopic{
			TopicID:  topic.ID,
			Position: i,
		})
	}

	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to create course")
		return nil, err
	}

	return s.GetCourse(course.Slug)
}

func (s *contentService) GetCourse(slug string) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindBySlugWithTopics(slug)
	if err != nil {
		return nil, fmt.Errorf("course not found with slug %q: %w", slug, err)
	}

	resp := &dto.CourseResponse{
		ID:        course.ID,
		Slug:      course.Slug,
		Name:      course.Name,
		CreatedAt: course.CreatedAt,
	}
	for _, ct := range course.Topics {
		resp.Topics = append(resp.Topics, dto.CourseTopicResponse{
			TopicSlug: ct.Topic.Slug,
			TopicName: ct.Topic.Name,
			Position:  ct.Position,
		})
	}
	return resp, nil
}
