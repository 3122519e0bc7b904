// Package notifier provides notification service implementations.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crewdispatch/domain/interfaces"
	"crewdispatch/infrastructure/metrics"
)

// webhookNotifier implements the Notifier interface against the activity
// feed webhook. Delivery is at-most-once: a failed POST is reported to the
// caller for logging and then forgotten.
type webhookNotifier struct {
	webhookURL string
	authToken  string
	metrics    *metrics.Metrics
	logger     interfaces.Logger
	httpClient *http.Client
}

// NewWebhookNotifier creates a new webhook notifier.
func NewWebhookNotifier(
	webhookURL string,
	authToken string,
	metrics *metrics.Metrics,
	logger interfaces.Logger,
) interfaces.Notifier {
	return &webhookNotifier{
		webhookURL: webhookURL,
		authToken:  authToken,
		metrics:    metrics,
		logger:     logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PublishTransition delivers one transition event to the webhook.
func (n *webhookNotifier) PublishTransition(ctx context.Context, event interfaces.TransitionEvent) error {
	if !n.IsConfigured() {
		return fmt.Errorf("webhook URL not configured")
	}

	if err := n.post(ctx, event); err != nil {
		n.metrics.RecordEventFailed()
		return err
	}

	n.metrics.RecordEventPublished()
	return nil
}

func (n *webhookNotifier) post(ctx context.Context, event interfaces.TransitionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	n.logger.Debug("Publishing transition event", "payload", string(payload))

	req, err := http.NewRequestWithContext(ctx, "POST", n.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if n.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.authToken)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("activity feed returned status %d", resp.StatusCode)
	}

	return nil
}

// IsConfigured checks if the notifier is properly configured.
func (n *webhookNotifier) IsConfigured() bool {
	return n.webhookURL != ""
}
