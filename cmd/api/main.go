package main

import (
	"closetapi/controllers"
	"closetapi/services"
	"closetapi/tasks"
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              services.GetEnv("SENTRY_DSN", ""),
		Environment:      services.GetEnv("ENV", "local"),
		Release:          "closetapi@1.0.0",
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	llm, err := services.NewGeminiService(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	store, err := services.NewDynamoClosetStore(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize closet store: %v", err)
	}
	weather := services.NewWeatherAPIService()

	awsService := &services.AWSService{}
	if err := awsService.InitPresignClient(ctx); err != nil {
		log.Fatalf("Failed to initialize AWS provider: S3: %v", err)
	}
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")
	urlCache, err := services.NewURLCacheService(awsService, bucketName)
	if err != nil {
		log.Fatal("Failed to initialize URL cache service")
	}
	asynqClient := tasks.NewClient()

	e := controllers.SetupServer(store, llm, weather, awsService, urlCache, asynqClient)
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(3)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Logger.Fatal(e.Start(":" + services.GetEnv("PORT", "8083")))
}
