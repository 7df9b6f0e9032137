package user

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/levitica/hireflow/internal/dto"
	"github.com/levitica/hireflow/internal/service"
	"github.com/rs/zerolog/log"
)

// Controller exposes the candidate-facing surface: OTP verification, exam
// sessions, resume screening and the coding round.
type Controller struct {
	otpSvc       service.OTPService
	examSvc      service.ExamService
	screeningSvc service.ScreeningService
	codeRunner   service.CodeRunner
	generator    service.ExamGenerator
}

func NewController(
	otpSvc service.OTPService,
	examSvc service.ExamService,
	screeningSvc service.ScreeningService,
	codeRunner service.CodeRunner,
	generator service.ExamGenerator,
) *Controller {
	return &Controller{
		otpSvc:       otpSvc,
		examSvc:      examSvc,
		screeningSvc: screeningSvc,
		codeRunner:   codeRunner,
		generator:    generator,
	}
}

func (ctrl *Controller) RegisterRoutes(apiV1 *gin.RouterGroup) {
	otp := apiV1.Group("/otp")
	otp.POST("/send", ctrl.SendOTPHandler)
	otp.POST("/verify", ctrl.VerifyOTPHandler)

	exams := apiV1.Group("/exams")
	exams.GET("/:assessment/instructions", ctrl.InstructionsHandler)
	exams.POST("/:assessment/start", ctrl.StartExamHandler)
	exams.POST("/:assessment/submit", ctrl.SubmitExamHandler)

	resumes := apiV1.Group("/resumes")
	resumes.POST("/process", ctrl.ProcessResumeHandler)
	resumes.GET("", ctrl.ListResumesHandler)

	coding := apiV1.Group("/coding")
	coding.GET("/questions", ctrl.CodingQuestionsHandler)
	coding.POST("/run", ctrl.RunCodeHandler)

	apiV1.GET("/sessions/:id", ctrl.GetSessionHandler)
}

// statusFor maps service sentinels onto HTTP statuses; anything unrecognized
// is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, service.ErrUnknownAssessment):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCandidateNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCandidateUnverified):
		return http.StatusForbidden
	case errors.Is(err, service.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoQuestionPool):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SendOTPHandler godoc
// @Summary Request a verification code
// @Description Issues a short-lived OTP and mails it to the candidate
// @Tags otp
// @Accept json
// @Produce json
// @Param request body dto.OTPRequestDTO true "Candidate name and email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /otp/send [post]
func (ctrl *Controller) SendOTPHandler(c *gin.Context) {
	var req dto.OTPRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	if err := ctrl.otpSvc.Request(c.Request.Context(), req.Name, req.Email); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to issue OTP")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: "Failed to send verification code"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification code sent"})
}

// VerifyOTPHandler godoc
// @Summary Verify a code
// @Description Checks the submitted OTP; a successful match consumes it
// @Tags otp
// @Accept json
// @Produce json
// @Param request body dto.OTPVerifyDTO true "Email and code"
// @Success 200 {object} dto.OTPVerifyResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /otp/verify [post]
func (ctrl *Controller) VerifyOTPHandler(c *gin.Context) {
	var req dto.OTPVerifyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	verified, reason, err := ctrl.otpSvc.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to verify OTP")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: "Failed to verify code"})
		return
	}
	c.JSON(http.StatusOK, dto.OTPVerifyResponseDTO{Verified: verified, Reason: reason})
}

// InstructionsHandler godoc
// @Summary Get assessment instructions
// @Tags exams
// @Produce json
// @Param assessment path string true "Assessment name (aptitude, communication)"
// @Success 200 {object} dto.InstructionsDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown assessment"
// @Router /exams/{assessment}/instructions [get]
func (ctrl *Controller) InstructionsHandler(c *gin.Context) {
	instructions, err := ctrl.examSvc.Instructions(c.Param("assessment"))
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, instructions)
}

// StartExamHandler godoc
// @Summary Start or resume an exam session
// @Description Opens a session for a verified candidate. An in-progress session is resumed with its original questions.
// @Tags exams
// @Accept json
// @Produce json
// @Param assessment path string true "Assessment name"
// @Param request body dto.ExamStartDTO true "Candidate email"
// @Success 200 {object} dto.ExamStartResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request or unknown assessment"
// @Failure 403 {object} dto.ErrorResponse "Candidate not verified"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 503 {object} dto.ErrorResponse "Question pool not loaded"
// @Router /exams/{assessment}/start [post]
func (ctrl *Controller) StartExamHandler(c *gin.Context) {
	var req dto.ExamStartDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.examSvc.Start(c.Request.Context(), c.Param("assessment"), req.Email)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to start exam session")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitExamHandler godoc
// @Summary Submit an exam session
// @Description Scores all responses and finalizes the session. Submitting a finalized session returns the stored result.
// @Tags exams
// @Accept json
// @Produce json
// @Param assessment path string true "Assessment name"
// @Param request body dto.ExamSubmitDTO true "Session ID and responses"
// @Success 200 {object} dto.ExamResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /exams/{assessment}/submit [post]
func (ctrl *Controller) SubmitExamHandler(c *gin.Context) {
	var req dto.ExamSubmitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	result, err := ctrl.examSvc.Submit(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Uint("sessionID", req.SessionID).Msg("Failed to submit exam session")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ProcessResumeHandler godoc
// @Summary Screen an uploaded resume
// @Description Extracts text from a PDF/DOCX resume, scores it against a generated job description and stores the decision
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "Resume file (PDF or DOCX)"
// @Param role formData string true "Role being screened for"
// @Param experience_level formData string false "Experience level (e.g. junior, senior)"
// @Success 200 {object} dto.ScreeningResultDTO
// @Failure 400 {object} dto.ErrorResponse "Missing file or unsupported format"
// @Failure 422 {object} dto.ErrorResponse "Text extraction failed"
// @Router /resumes/process [post]
func (ctrl *Controller) ProcessResumeHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "resume file is required"})
		return
	}
	role := c.PostForm("role")
	experienceLevel := c.DefaultPostForm("experience_level", "mid")

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "could not open uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "could not read uploaded file"})
		return
	}

	result, err := ctrl.screeningSvc.Process(c.Request.Context(), fileHeader.Filename, content, role, experienceLevel)
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("Failed to screen resume")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListResumesHandler godoc
// @Summary List screening results
// @Tags resumes
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.ScreeningSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resumes [get]
func (ctrl *Controller) ListResumesHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	summaries, err := ctrl.screeningSvc.List(limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list screening results")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve screening results"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// CodingQuestionsHandler godoc
// @Summary Get coding round questions
// @Tags coding
// @Produce json
// @Success 200 {array} service.CodingQuestion
// @Router /coding/questions [get]
func (ctrl *Controller) CodingQuestionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.generator.GenerateCodingQuestions(c.Request.Context()))
}

// RunCodeHandler godoc
// @Summary Run a coding submission
// @Description Compiles and executes the submitted source with a hard time limit; the run outcome is recorded either way
// @Tags coding
// @Accept json
// @Produce json
// @Param request body dto.CodeRunDTO true "Submission"
// @Success 200 {object} dto.CodeRunResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request or unsupported language"
// @Router /coding/run [post]
func (ctrl *Controller) RunCodeHandler(c *gin.Context) {
	var req dto.CodeRunDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	result, err := ctrl.codeRunner.Run(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to run code submission")
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSessionHandler godoc
// @Summary Get a session summary
// @Tags exams
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.SessionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (ctrl *Controller) GetSessionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid session ID format"})
		return
	}

	summary, err := ctrl.examSvc.SessionSummary(uint(id))
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
