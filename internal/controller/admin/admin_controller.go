package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/levitica/hireflow/internal/dto"
	"github.com/levitica/hireflow/internal/service"
	"github.com/rs/zerolog/log"
)

// Controller exposes the operator surface: loading and partitioning the
// question pool plus read access to sessions and screening records.
type Controller struct {
	poolSvc      service.QuestionPoolService
	examSvc      service.ExamService
	screeningSvc service.ScreeningService
}

func NewController(poolSvc service.QuestionPoolService, examSvc service.ExamService, screeningSvc service.ScreeningService) *Controller {
	return &Controller{poolSvc: poolSvc, examSvc: examSvc, screeningSvc: screeningSvc}
}

func (ctrl *Controller) RegisterRoutes(apiV1 *gin.RouterGroup) {
	admin := apiV1.Group("/admin")
	admin.POST("/questions", ctrl.LoadQuestionsHandler)
	admin.POST("/questions/partition", ctrl.PartitionHandler)
	admin.GET("/questions", ctrl.ListQuestionsHandler)
	admin.GET("/sessions", ctrl.ListSessionsHandler)
	admin.GET("/resumes", ctrl.ListResumesHandler)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownAssessment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// LoadQuestionsHandler godoc
// @Summary Bulk-load pool questions
// @Description Loads a batch of questions into a pool-backed assessment
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.BulkQuestionsDTO true "Questions to load"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Router /admin/questions [post]
func (ctrl *Controller) LoadQuestionsHandler(c *gin.Context) {
	var req dto.BulkQuestionsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	count, err := ctrl.poolSvc.LoadQuestions(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load questions")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: strconv.Itoa(count) + " questions loaded"})
}

// PartitionHandler godoc
// @Summary Partition a question pool into sets
// @Description Shuffles the assessment's pool and deals it into disjoint sets used for candidate assignment
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.PartitionDTO true "Assessment to partition"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown assessment or insufficient pool"
// @Router /admin/questions/partition [post]
func (ctrl *Controller) PartitionHandler(c *gin.Context) {
	var req dto.PartitionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	sets, perSet, err := ctrl.poolSvc.Partition(req.Assessment)
	if err != nil {
		log.Error().Err(err).Str("assessment", req.Assessment).Msg("Failed to partition question pool")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Pool partitioned into " + strconv.Itoa(sets) + " sets of " + strconv.Itoa(perSet),
	})
}

// ListQuestionsHandler godoc
// @Summary List an assessment's pool
// @Tags admin
// @Produce json
// @Param assessment query string true "Assessment name"
// @Success 200 {array} model.Question
// @Failure 400 {object} dto.ErrorResponse "Unknown assessment"
// @Router /admin/questions [get]
func (ctrl *Controller) ListQuestionsHandler(c *gin.Context) {
	questions, err := ctrl.poolSvc.ListQuestions(c.Query("assessment"))
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// ListSessionsHandler godoc
// @Summary List exam sessions
// @Tags admin
// @Produce json
// @Param assessment query string false "Filter by assessment"
// @Success 200 {array} dto.SessionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown assessment"
// @Router /admin/sessions [get]
func (ctrl *Controller) ListSessionsHandler(c *gin.Context) {
	summaries, err := ctrl.examSvc.ListSessions(c.Query("assessment"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sessions")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// ListResumesHandler godoc
// @Summary List screening records
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.ScreeningSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/resumes [get]
func (ctrl *Controller) ListResumesHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	summaries, err := ctrl.screeningSvc.List(limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list screening records")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve screening records"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}
