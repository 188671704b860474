package rest

import (
	"context"
	"net/http"

	"audienceLab/domain"
	"audienceLab/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PersonaHandler struct {
		validate       *validator.Validate
		catalogService CatalogService
	}

	CatalogService interface {
		DefinePersona(ctx context.Context, archetype domain.PersonaArchetype) error
		Archetypes() []domain.PersonaArchetype
	}
)

func NewPersonaHandler(svc CatalogService) *PersonaHandler {
	return &PersonaHandler{
		validate:       validator.New(),
		catalogService: svc,
	}
}

// PUT /api/v1/personas registers or replaces an archetype.
func (h *PersonaHandler) Define(c echo.Context) error {
	if _, ok := middleware.CreatorID(c); !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var archetype domain.PersonaArchetype
	if err := c.Bind(&archetype); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	// validation happens inside the catalog, which owns the parameter
	// ranges; out-of-range fields come back as InvalidParameterError
	if err := h.catalogService.DefinePersona(c.Request().Context(), archetype); err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(archetype))
}

// GET /api/v1/personas
func (h *PersonaHandler) List(c echo.Context) error {
	if _, ok := middleware.CreatorID(c); !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.catalogService.Archetypes()))
}
