package rest

import (
	"context"
	"net/http"

	"audienceLab/domain"
	"audienceLab/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	BrandHandler struct {
		learningService LearningService
	}

	LearningService interface {
		GetProfile(ctx context.Context, creatorID string) (*domain.PersonalBrandProfile, error)
		GetDistributionPolicy(ctx context.Context, creatorID string) (domain.DistributionPolicy, error)
	}
)

func NewBrandHandler(svc LearningService) *BrandHandler {
	return &BrandHandler{learningService: svc}
}

// GET /api/v1/brand/profile
func (h *BrandHandler) Profile(c echo.Context) error {
	creatorID, ok := middleware.CreatorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	profile, err := h.learningService.GetProfile(c.Request().Context(), creatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "no brand profile yet"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// GET /api/v1/brand/distribution returns the policy an auto-mode run would
// resolve to for this creator.
func (h *BrandHandler) Distribution(c echo.Context) error {
	creatorID, ok := middleware.CreatorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	policy, err := h.learningService.GetDistributionPolicy(c.Request().Context(), creatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(policy))
}
