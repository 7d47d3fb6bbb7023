package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"closetapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

const TypeNarrateSpeech = "speech:narrate"

// NarrationPayload carries a narrative to be synthesized off the request
// path. Kind is "extraction" or "outfit", RefID ties the audio object to the
// record or request it narrates.
type NarrationPayload struct {
	Kind  string `json:"kind"`
	RefID string `json:"ref_id"`
	Text  string `json:"text"`
}

func NewClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: services.GetEnv("ASYNC_BROKER_ADDRESS", "localhost:6379")})
}

func NewNarrationTask(kind, refID, text string) (*asynq.Task, error) {
	payload, err := json.Marshal(NarrationPayload{Kind: kind, RefID: refID, Text: text})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNarrateSpeech, payload), nil
}

// HandleNarrationTask synthesizes the narration and stores the mp3 in the
// bucket. This is a best-effort side channel: the API response already went
// out, failures here are reported and retried by the queue only.
func HandleNarrationTask(ctx context.Context, t *asynq.Task, speech services.SpeechProvider, awsService services.AWSServiceProvider) error {
	var payload NarrationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Narration: %s/%s] Synthesizing %d chars\n", payload.Kind, payload.RefID, len(payload.Text))

	if payload.Text == "" {
		fmt.Printf("[Narration: %s/%s] Empty narrative, nothing to do\n", payload.Kind, payload.RefID)
		return nil
	}

	audio, err := speech.Synthesize(ctx, payload.Text)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Narration: %s/%s] synthesis failed: %w", payload.Kind, payload.RefID, err))
		return err
	}

	bucketName := services.GetEnv("R2_BUCKET_NAME", "")
	objectKey := fmt.Sprintf("narrations/%s-%s.mp3", payload.Kind, payload.RefID)
	uploadUrl, err := awsService.PresignLink(ctx, bucketName, objectKey)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Narration: %s/%s] presign failed: %w", payload.Kind, payload.RefID, err))
		return err
	}

	respBody, statusCode, err := awsService.UploadToPresignedURL(ctx, bucketName, uploadUrl, audio)
	if err != nil || statusCode != 200 {
		sentry.CaptureException(fmt.Errorf("[Narration: %s/%s] upload failed, status %d, body %s: %v", payload.Kind, payload.RefID, statusCode, respBody, err))
		if err == nil {
			err = fmt.Errorf("narration upload returned status %d", statusCode)
		}
		return err
	}

	fmt.Printf("[Narration: %s/%s] Stored %d bytes at %s\n", payload.Kind, payload.RefID, len(audio), objectKey)
	return nil
}
