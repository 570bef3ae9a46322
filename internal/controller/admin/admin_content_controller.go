package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/service"
	"github.com/rs/zerolog/log"
)

type ContentController struct {
	contentService  service.ContentService
	questionService service.QuestionService
}

func NewContentController(cs service.ContentService, qs service.QuestionService) *ContentController {
	return &ContentController{contentService: cs, questionService: qs}
}

// CreateTopic godoc
// @Summary Create a topic
// @Description Creates a topic with a difficulty level and an initial mastery prior (default 0.25).
// @Tags Admin Content
// @Accept json
// @Produce json
// @Param request body dto.CreateTopicRequest true "Topic definition"
// @Success 201 {object} dto.TopicResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/topics [post]
func (c *ContentController) CreateTopic(ctx *gin.Context) {
	var req dto.CreateTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	topic, err := c.contentService.CreateTopic(req)
	if err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("CreateTopic: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create topic", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, topic)
}

// CreateCourse godoc
// @Summary Create a course
// @Description Creates a course from an ordered list of topic slugs. The order is the declaration order used to break mastery ties.
// @Tags Admin Content
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course definition"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or unknown topic slug"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses [post]
func (c *ContentController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	course, err := c.contentService.CreateCourse(req)
	if err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("CreateCourse: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create course", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// GetCourse godoc
// @Summary Get a course with its ordered topics
// @Tags Admin Content
// @Produce json
// @Param course_slug path string true "Course slug"
// @Success 200 {object} dto.CourseResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /admin/courses/{course_slug} [get]
func (c *ContentController) GetCourse(ctx *gin.Context) {
	course, err := c.contentService.GetCourse(ctx.Param("course_slug"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// CreateDynamicQuestion godoc
// @Summary Create a dynamic question
// @Description Creates the dynamic (variation 0) question of a group. The variable and method definitions are dry-run through the evaluator before saving.
// @Tags Admin Content
// @Accept json
// @Produce json
// @Param request body dto.CreateDynamicQuestionRequest true "Dynamic question definition"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or definition failed evaluation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/dynamic [post]
func (c *ContentController) CreateDynamicQuestion(ctx *gin.Context) {
	var req dto.CreateDynamicQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.questionService.CreateDynamicQuestion(req)
	if err != nil {
		log.Error().Err(err).Str("topic", req.TopicSlug).Msg("CreateDynamicQuestion: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create dynamic question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// CreateStaticVariation godoc
// @Summary Add a static variation to a question group
// @Description Creates a fixed-content variation with authored options. The variation id is the smallest unused id >= 1 in the group.
// @Tags Admin Content
// @Accept json
// @Produce json
// @Param request body dto.CreateStaticVariationRequest true "Static variation definition"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or unknown group"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/static [post]
func (c *ContentController) CreateStaticVariation(ctx *gin.Context) {
	var req dto.CreateStaticVariationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.questionService.CreateStaticVariation(req)
	if err != nil {
		log.Error().Err(err).Uint("groupID", req.GroupID).Msg("CreateStaticVariation: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create static variation", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// GetQuestion godoc
// @Summary Get a question by id
// @Tags Admin Content
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid question ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{id} [get]
func (c *ContentController) GetQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}

	question, err := c.questionService.GetQuestion(uint(id))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// ListQuestions godoc
// @Summary List the questions of a topic
// @Tags Admin Content
// @Produce json
// @Param topic_slug query string true "Topic slug"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /admin/questions [get]
func (c *ContentController) ListQuestions(ctx *gin.Context) {
	questions, err := c.questionService.ListQuestions(ctx.Query("topic_slug"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// RetireQuestion godoc
// @Summary Retire a question
// @Description Soft-deletes the question so it stops being recommended. Delivered instances and attempts keep their history.
// @Tags Admin Content
// @Produce json
// @Param id path int true "Question ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid question ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{id} [delete]
func (c *ContentController) RetireQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}

	if err := c.questionService.RetireQuestion(uint(id)); err != nil {
		log.Warn().Err(err).Uint64("questionID", id).Msg("RetireQuestion: service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// PreviewEvaluation godoc
// @Summary Preview an evaluation of variable and method definitions
// @Description Runs the evaluator on authored definitions without saving anything, returning resolved variables and the generated answer set (including correctness).
// @Tags Admin Content
// @Accept json
// @Produce json
// @Param request body dto.EvaluatePreviewRequest true "Definitions to evaluate"
// @Success 200 {object} dto.EvaluationResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or evaluation failed"
// @Router /admin/questions/preview [post]
func (c *ContentController) PreviewEvaluation(ctx *gin.Context) {
	var req dto.EvaluatePreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.questionService.PreviewEvaluation(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Evaluation failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}
