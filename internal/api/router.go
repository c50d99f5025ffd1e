package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	apicontrollers "github.com/skchalotra/skgpt/internal/api/controllers"

	_ "github.com/skchalotra/skgpt/docs"
)

// NewRouter builds the echo instance with middleware and routes registered.
func NewRouter(logger *zap.Logger, chatController *apicontrollers.ChatController) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("logger", logger)
			return next(c)
		}
	})

	chatController.RegisterRoutes(e)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
