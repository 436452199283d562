// internal/notify/notify.go
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Webhook posts lifecycle events to a configured URL. Delivery is best
// effort: a dead endpoint must never fail a fill, so errors are logged at
// debug and swallowed.
type Webhook struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

var _ schemas.Notifier = (*Webhook)(nil)

// NewWebhook builds a notifier. An empty URL disables delivery entirely.
func NewWebhook(url string, logger *zap.Logger) *Webhook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Webhook{
		url:    url,
		http:   &http.Client{Timeout: 5 * time.Second},
		logger: logger.Named("notify"),
	}
}

// Notify posts the event as JSON; delivery failures are logged and dropped.
func (w *Webhook) Notify(ctx context.Context, event schemas.Notification) {
	if w.url == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		w.logger.Debug("webhook encode failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.logger.Debug("webhook request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		w.logger.Debug("webhook delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		w.logger.Debug("webhook rejected",
			zap.String("status", fmt.Sprintf("%d", resp.StatusCode)))
	}
}
