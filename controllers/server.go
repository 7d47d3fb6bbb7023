package controllers

import (
	"net/http"

	"closetapi/services"

	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(
	store services.ClosetStoreProvider,
	llm services.LLMProvider,
	weather services.WeatherProvider,
	awsService services.AWSServiceProvider,
	urlCache services.URLCacheServiceProvider,
	asynqClient *asynq.Client,
) *echo.Echo {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__asynqclient", asynqClient)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	controller := WardrobeController{
		Store:      store,
		LLM:        llm,
		Weather:    weather,
		AWSService: awsService,
		URLCache:   urlCache,
	}
	controller.WardrobeRoutes(e)

	return e
}
