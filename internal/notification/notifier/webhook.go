package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	notificationdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/notification/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/tracing"
)

// WebhookNotifier posts messages as JSON to a delivery gateway.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	return &WebhookNotifier{
		url:    strings.TrimSpace(url),
		client: tracing.WrapHTTPClient(client),
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, msg notificationdomain.Message) error {
	if msg.Recipient == "" {
		return notificationdomain.ErrInvalidRecipient
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", notificationdomain.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", notificationdomain.ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}
