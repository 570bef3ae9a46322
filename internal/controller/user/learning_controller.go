package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/evaluator"
	"github.com/khaiwen/Loris/internal/service"
	"github.com/rs/zerolog/log"
)

type LearningController struct {
	recommendationService service.RecommendationService
	attemptService        service.AttemptService
	masteryService        service.MasteryService
}

func NewLearningController(
	rs service.RecommendationService,
	as service.AttemptService,
	ms service.MasteryService,
) *LearningController {
	return &LearningController{
		recommendationService: rs,
		attemptService:        as,
		masteryService:        ms,
	}
}

// RecommendQuestion godoc
// @Summary Recommend the next question for a learner in a course
// @Description Picks the learner's weakest topic, selects an eligible question, materializes it (evaluating variables for dynamic questions) and returns the deliverable instance.
// @Tags Learning
// @Accept json
// @Produce json
// @Param course_slug path string true "Course slug"
// @Param request body dto.RecommendQuestionRequest true "User and excluded question ids"
// @Success 200 {object} dto.QuestionInstanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Course not found or content exhausted"
// @Failure 422 {object} dto.ErrorResponse "A dynamic question failed evaluation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{course_slug}/recommendation [post]
func (c *LearningController) RecommendQuestion(ctx *gin.Context) {
	courseSlug := ctx.Param("course_slug")

	var req dto.RecommendQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	instance, err := c.recommendationService.RecommendQuestion(req.UserID, courseSlug, req.ExcludedQuestionIDs)
	if err != nil {
		var evalErr *evaluator.EvaluationError
		switch {
		case errors.Is(err, service.ErrExhaustedContent):
			log.Info().Uint("userID", req.UserID).Str("course", courseSlug).Msg("RecommendQuestion: course content exhausted")
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No eligible question remaining in this course"})
		case errors.As(err, &evalErr):
			log.Error().Err(err).Str("course", courseSlug).Msg("RecommendQuestion: dynamic question failed evaluation")
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Question failed evaluation", Details: []string{evalErr.Error()}})
		default:
			log.Error().Err(err).Str("course", courseSlug).Msg("RecommendQuestion: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to recommend question", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, instance)
}

// SubmitAttempt godoc
// @Summary Submit an answer for the current question instance
// @Description Grades the selected option keys against the instance, records the attempt and returns the updated mastery snapshot.
// @Tags Learning
// @Accept json
// @Produce json
// @Param request body dto.SubmitAttemptRequest true "Instance token and selected option keys"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or option keys"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts [post]
func (c *LearningController) SubmitAttempt(ctx *gin.Context) {
	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.attemptService.SubmitAttempt(req)
	if err != nil {
		log.Error().Err(err).Str("instance", req.InstanceToken).Msg("SubmitAttempt: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to submit attempt", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetMastery godoc
// @Summary Get a learner's mastery for one topic
// @Description Returns the mastery snapshot, initializing it from the topic prior on first contact.
// @Tags Learning
// @Produce json
// @Param topic_slug path string true "Topic slug"
// @Param user_id query int true "User ID"
// @Success 200 {object} dto.MasterySnapshotResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /topics/{topic_slug}/mastery [get]
func (c *LearningController) GetMastery(ctx *gin.Context) {
	topicSlug := ctx.Param("topic_slug")
	userID, ok := parseUserID(ctx)
	if !ok {
		return
	}

	snapshot, err := c.masteryService.GetMastery(userID, topicSlug)
	if err != nil {
		log.Warn().Err(err).Str("topic", topicSlug).Msg("GetMastery: topic not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// GetCourseMasteries godoc
// @Summary Get a learner's mastery for every topic of a course
// @Description Returns one snapshot per course topic, lazily initializing missing records from topic priors.
// @Tags Learning
// @Produce json
// @Param course_slug path string true "Course slug"
// @Param user_id query int true "User ID"
// @Success 200 {array} dto.MasterySnapshotResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{course_slug}/masteries [get]
func (c *LearningController) GetCourseMasteries(ctx *gin.Context) {
	courseSlug := ctx.Param("course_slug")
	userID, ok := parseUserID(ctx)
	if !ok {
		return
	}

	snapshots, err := c.masteryService.GetCourseMasteries(userID, courseSlug)
	if err != nil {
		log.Warn().Err(err).Str("course", courseSlug).Msg("GetCourseMasteries: course not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, snapshots)
}

func parseUserID(ctx *gin.Context) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Query("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format in query"})
		return 0, false
	}
	return uint(val), true
}
