// Package discord posts the rendered video to a channel via a webhook.
package discord

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"weervandaag/src/utils/restclient"
)

const (
	env_webhook_url = "DISCORD_WEBHOOK_URL"

	// Webhook uploads above this size are rejected server-side; we do not
	// pre-check, the resulting DeliveryError carries Discord's response.
	size_limit_note = "Discord webhooks reject files over 25 MB"
)

var ErrWebhookNotSet = errors.New("DISCORD_WEBHOOK_URL is not set; set it or run with --no-discord")

type DeliveryError struct {
	Status int
	Reason string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("discord delivery failed with status %d: %s (%s)", e.Status, e.Reason, size_limit_note)
}

// WebhookFromEnv returns the configured webhook URL. Called before any
// rendering work so a missing URL fails fast.
func WebhookFromEnv() (string, error) {
	url := os.Getenv(env_webhook_url)
	if url == "" {
		return "", ErrWebhookNotSet
	}
	return url, nil
}

// Post uploads the video file with a message as multipart form data.
// One attempt, no retries; the caller decides what a failure means.
func Post(webhookURL string, filePath string, message string) error {
	videoData, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read video for delivery: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("content", message); err != nil {
		return err
	}
	filePart, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := filePart.Write(videoData); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	headers := http.Header{"Content-Type": {writer.FormDataContentType()}}
	res, err := restclient.Post(webhookURL, body.Bytes(), headers)
	if err != nil {
		return &DeliveryError{Status: 0, Reason: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		reason, _ := io.ReadAll(res.Body)
		return &DeliveryError{Status: res.StatusCode, Reason: string(reason)}
	}
	return nil
}
