package router

import (
	"audienceLab/internal/middleware"
	"audienceLab/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupEvaluationRoutes(api *echo.Group, handler *rest.EvaluationHandler) {
	evaluations := api.Group("/evaluations", middleware.AuthMiddleware())

	evaluations.POST("", handler.Run)
	evaluations.POST("/debug", handler.Debug)
	evaluations.GET("/:id", handler.Get)
	evaluations.POST("/:id/feedback", handler.Feedback)
}

func SetupPersonaRoutes(api *echo.Group, handler *rest.PersonaHandler, adminOnly echo.MiddlewareFunc) {
	personas := api.Group("/personas", middleware.AuthMiddleware())

	personas.GET("", handler.List)
	personas.PUT("", handler.Define, adminOnly)
}

func SetupBrandRoutes(api *echo.Group, handler *rest.BrandHandler) {
	brand := api.Group("/brand", middleware.AuthMiddleware())

	brand.GET("/profile", handler.Profile)
	brand.GET("/distribution", handler.Distribution)
}
