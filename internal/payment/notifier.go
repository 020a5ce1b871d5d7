package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ms-eventhub/internal/models"
)

// HTTPNotifier delivers provider outcomes to the ticketing API's webhook
// endpoint. 409 never occurs there (guarded refusals are acked with 200), so
// any non-2xx answer besides 404 is treated as retryable by the caller.
type HTTPNotifier struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *HTTPNotifier) Notify(notification models.PaymentNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	resp, err := n.Client.Post(n.BaseURL+"/api/orders/notification", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("order %s unknown to ticketing API", notification.OrderID)
	}
	return fmt.Errorf("ticketing API answered %d", resp.StatusCode)
}
