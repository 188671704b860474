package rest

import (
	"context"
	"errors"
	"net/http"

	"audienceLab/business/audience"
	"audienceLab/domain"
	"audienceLab/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type (
	EvaluationHandler struct {
		validate        *validator.Validate
		audienceService AudienceService
	}

	AudienceService interface {
		RunEvaluation(ctx context.Context, req audience.RunRequest) (*audience.RunResult, error)
		GetEvaluation(ctx context.Context, id string) (*audience.RunResult, error)
		SubmitFeedback(ctx context.Context, creatorID, evaluationID string, real domain.RealWorldMetrics) (*domain.PersonalBrandProfile, error)
		DebugSession(ctx context.Context, video domain.VideoContent, category string, seed int64) (*domain.ViewingSession, error)
	}

	RunEvaluationRequest struct {
		Video        domain.VideoContent        `json:"video" validate:"required"`
		TitleThumb   domain.TitleThumbnail      `json:"title_thumb"`
		Traits       []string                   `json:"traits"`
		AudienceSize int                        `json:"audience_size" validate:"omitempty,gt=0"`
		Seed         int64                      `json:"seed"`
		Distribution *domain.DistributionPolicy `json:"distribution"`
	}

	FeedbackRequest struct {
		Metrics domain.RealWorldMetrics `json:"metrics" validate:"required"`
	}

	DebugRequest struct {
		Video    domain.VideoContent `json:"video" validate:"required"`
		Category string              `json:"category" validate:"required"`
		Seed     int64               `json:"seed"`
	}
)

func NewEvaluationHandler(svc AudienceService) *EvaluationHandler {
	return &EvaluationHandler{
		validate:        validator.New(),
		audienceService: svc,
	}
}

// statusFor maps engine errors onto HTTP statuses so callers can tell a bad
// request from an engine fault.
func statusFor(err error) int {
	var invalid *domain.InvalidParameterError
	var emptyCatalog *domain.EmptyCatalogError
	var emptyVideo *domain.EmptyVideoError
	var timeout *domain.SimulationTimeoutError
	var insufficient *domain.InsufficientSessionsError

	switch {
	case errors.As(err, &invalid), errors.As(err, &emptyVideo):
		return http.StatusBadRequest
	case errors.As(err, &emptyCatalog), errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// POST /api/v1/evaluations
func (h *EvaluationHandler) Run(c echo.Context) error {
	creatorID, ok := middleware.CreatorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RunEvaluationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	result, err := h.audienceService.RunEvaluation(c.Request().Context(), audience.RunRequest{
		CreatorID:  creatorID,
		Video:      req.Video,
		TitleThumb: req.TitleThumb,
		Traits:     req.Traits,
		Size:       req.AudienceSize,
		Seed:       req.Seed,
		Policy:     req.Distribution,
	})
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(result))
}

// GET /api/v1/evaluations/:id
func (h *EvaluationHandler) Get(c echo.Context) error {
	if _, ok := middleware.CreatorID(c); !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	id := c.Param("id")
	result, err := h.audienceService.GetEvaluation(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if result == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "evaluation not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// POST /api/v1/evaluations/:id/feedback
func (h *EvaluationHandler) Feedback(c echo.Context) error {
	creatorID, ok := middleware.CreatorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	profile, err := h.audienceService.SubmitFeedback(c.Request().Context(), creatorID, c.Param("id"), req.Metrics)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(profile))
}

// POST /api/v1/evaluations/debug runs one persona and returns the raw trace.
func (h *EvaluationHandler) Debug(c echo.Context) error {
	if _, ok := middleware.CreatorID(c); !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req DebugRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	session, err := h.audienceService.DebugSession(c.Request().Context(), req.Video, req.Category, req.Seed)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(session))
}
