package main

import (
	"closetapi/services"
	"closetapi/tasks"
	"context"
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"speech": 5,
		}},
	)
	awsService := &services.AWSService{}
	if err := awsService.InitPresignClient(context.Background()); err != nil {
		log.Fatal("[Queue] Failed to initialize AWS provider: S3")
	}
	speech := services.NewElevenLabsService()

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNarrateSpeech, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleNarrationTask(ctx, t, speech, awsService)
	})

	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
